package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/govalues/tempo"
)

// TransitionResult is the output of the transition command.
type TransitionResult struct {
	Zone         string `json:"zone" yaml:"zone"`
	From         string `json:"from" yaml:"from"`
	Transition   string `json:"transition,omitempty" yaml:"transition,omitempty"`
	OffsetBefore string `json:"offset_before,omitempty" yaml:"offset_before,omitempty"`
	OffsetAfter  string `json:"offset_after,omitempty" yaml:"offset_after,omitempty"`
}

func (r TransitionResult) String() string {
	if r.Transition == "" {
		return "no transition"
	}
	return r.Transition + " (" + r.OffsetBefore + " -> " + r.OffsetAfter + ")"
}

type transitionOptions struct {
	Previous       bool
	Disambiguation string
}

// NewTransitionCommand creates the transition command.
func NewTransitionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &transitionOptions{}
	cmd := &cobra.Command{
		Use:   "transition <zone> <date-time>",
		Short: "Find the next or previous offset transition of a time zone",
		Long: `Find the first instant after a local date-time at which the UTC offset
of the zone changes, or with --previous the last such instant before it.`,
		Example: `  tempo transition America/New_York 2024-01-01
  tempo transition Europe/London 2024-06-01T12:00 --previous`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			r, err := runTransition(rootOpts, opts, args[0], args[1])
			if err != nil {
				return fail(formatter, err)
			}
			return formatter.Success(r)
		},
	}
	cmd.Flags().BoolVarP(&opts.Previous, "previous", "p", false, "search backward")
	cmd.Flags().StringVar(&opts.Disambiguation, "disambiguation", "compatible", "policy for skipped or repeated local times")
	return cmd
}

func runTransition(rootOpts *RootOptions, opts *transitionOptions, zone, from string) (TransitionResult, *ExitError) {
	if zone == "" {
		return TransitionResult{}, WrapExitError(ExitCommandError, "invalid zone", tempo.ErrType)
	}
	c, err := (&contextFlags{Zone: zone, Calendar: "iso8601", Disambiguation: opts.Disambiguation}).parse()
	if err != nil {
		return TransitionResult{}, WrapExitError(ExitCommandError, "invalid zone", err)
	}
	p, err := c.parsePoint(from)
	if err != nil {
		return TransitionResult{}, WrapExitError(ExitCommandError, "invalid date-time", err)
	}
	r := TransitionResult{Zone: c.tz.ID(), From: c.format(p)}
	rootOpts.Logger().WithFields(logrus.Fields{"zone": r.Zone, "from": r.From, "previous": opts.Previous}).Debug("searching transition")

	search := tempo.NextTransition
	if opts.Previous {
		search = tempo.PreviousTransition
	}
	ns, ok := search(c.tz, p.ns)
	if !ok {
		return r, nil
	}
	r.Transition = formatInstant(c.tz, ns)
	before, err := ns.Add(tempo.MustNewTimeDuration(0, 0, 0, 0, 0, -1))
	if err != nil {
		return TransitionResult{}, WrapExitError(ExitFailure, "searching transition", err)
	}
	r.OffsetBefore = tempo.OffsetString(c.tz.OffsetNanoseconds(before))
	r.OffsetAfter = tempo.OffsetString(c.tz.OffsetNanoseconds(ns))
	return r, nil
}
