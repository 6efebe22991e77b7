package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/govalues/tempo"
)

// AddResult is the output of the add command.
type AddResult struct {
	Start    string `json:"start" yaml:"start"`
	Duration string `json:"duration" yaml:"duration"`
	Result   string `json:"result" yaml:"result"`
}

func (r AddResult) String() string {
	return r.Result
}

type addOptions struct {
	contextFlags
	Overflow string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add <start> <duration>",
		Short: "Apply an ISO 8601 duration to a date-time",
		Long: `Apply an ISO 8601 duration, such as P1M or -PT90M, to a date-time.

The calendar part moves the local date, and the clock part is added as
exact elapsed time in zoned contexts.`,
		Example: `  tempo add 2024-01-31 P1M
  tempo add 2024-03-09T02:30 P1D --zone America/New_York`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			r, err := runAdd(rootOpts, opts, args[0], args[1])
			if err != nil {
				return fail(formatter, err)
			}
			return formatter.Success(r)
		},
	}
	opts.contextFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Overflow, "overflow", "constrain", "policy for dates that do not exist (constrain|reject)")
	return cmd
}

func runAdd(rootOpts *RootOptions, opts *addOptions, start, duration string) (AddResult, *ExitError) {
	c, err := opts.contextFlags.parse()
	if err != nil {
		return AddResult{}, WrapExitError(ExitCommandError, "invalid context", err)
	}
	overflow, err := tempo.ParseOverflow(opts.Overflow)
	if err != nil {
		return AddResult{}, WrapExitError(ExitCommandError, "invalid overflow", err)
	}
	p, err := c.parsePoint(start)
	if err != nil {
		return AddResult{}, WrapExitError(ExitCommandError, "invalid start", err)
	}
	dur, err := tempo.ParseDuration(duration)
	if err != nil {
		return AddResult{}, WrapExitError(ExitCommandError, "invalid duration", err)
	}
	d, err := dur.Internal()
	if err != nil {
		return AddResult{}, WrapExitError(ExitCommandError, "invalid duration", err)
	}

	r := AddResult{Start: c.format(p), Duration: dur.String()}
	rootOpts.Logger().WithFields(logrus.Fields{
		"start":    r.Start,
		"duration": r.Duration,
		"overflow": overflow,
	}).Debug("adding duration")

	if c.tz == nil {
		dt, err := tempo.AddDateTime(p.dt, c.cal, d, overflow)
		if err != nil {
			return AddResult{}, WrapExitError(ExitFailure, "adding duration", err)
		}
		r.Result = dt.String()
		return r, nil
	}
	ns, err := tempo.AddZonedDateTime(p.ns, c.tz, c.cal, d, overflow)
	if err != nil {
		return AddResult{}, WrapExitError(ExitFailure, "adding duration", err)
	}
	r.Result = formatInstant(c.tz, ns)
	return r, nil
}
