package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/govalues/tempo"
)

// RoundResult is the output of the round command.
type RoundResult struct {
	Duration   string   `json:"duration" yaml:"duration"`
	RelativeTo string   `json:"relative_to,omitempty" yaml:"relative_to,omitempty"`
	Result     string   `json:"result,omitempty" yaml:"result,omitempty"`
	Total      *float64 `json:"total,omitempty" yaml:"total,omitempty"`
	Unit       string   `json:"unit,omitempty" yaml:"unit,omitempty"`
}

func (r RoundResult) String() string {
	if r.Total != nil {
		return fmt.Sprintf("%v %vs", *r.Total, r.Unit)
	}
	return r.Result
}

type roundOptions struct {
	contextFlags
	roundingFlags
	RelativeTo string
	Total      string
}

// NewRoundCommand creates the round command.
func NewRoundCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &roundOptions{}
	cmd := &cobra.Command{
		Use:   "round <duration>",
		Short: "Round and balance an ISO 8601 duration",
		Long: `Round an ISO 8601 duration to the smallest unit and balance it up to the
largest unit.

Calendar units need an origin given with --relative-to, a plain date or,
with --zone, a local date-time in the zone.`,
		Example: `  tempo round PT130M --largest hour
  tempo round P1M15D --smallest month --relative-to 2024-02-01
  tempo round P1D --total hour --relative-to 2024-03-10T00:00 --zone America/New_York`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			r, err := runRound(rootOpts, opts, args[0])
			if err != nil {
				return fail(formatter, err)
			}
			return formatter.Success(r)
		},
	}
	opts.contextFlags.register(cmd)
	opts.roundingFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.RelativeTo, "relative-to", "r", "", "origin of calendar units")
	cmd.Flags().StringVar(&opts.Total, "total", "", "print the duration as a fractional number of this unit")
	return cmd
}

func runRound(rootOpts *RootOptions, opts *roundOptions, duration string) (RoundResult, *ExitError) {
	c, err := opts.contextFlags.parse()
	if err != nil {
		return RoundResult{}, WrapExitError(ExitCommandError, "invalid context", err)
	}
	dur, err := tempo.ParseDuration(duration)
	if err != nil {
		return RoundResult{}, WrapExitError(ExitCommandError, "invalid duration", err)
	}
	r := RoundResult{Duration: dur.String()}

	var origin tempo.Origin
	if opts.RelativeTo != "" {
		p, err := c.parsePoint(opts.RelativeTo)
		if err != nil {
			return RoundResult{}, WrapExitError(ExitCommandError, "invalid origin", err)
		}
		if c.tz == nil {
			origin = tempo.PlainOrigin(c.cal, p.dt.Date)
		} else {
			origin = tempo.ZonedOrigin(c.cal, c.tz, p.ns)
		}
		r.RelativeTo = origin.String()
	}
	log := rootOpts.Logger().WithFields(logrus.Fields{"duration": r.Duration, "origin": origin})

	if opts.Total != "" {
		unit, err := tempo.ParseUnit(opts.Total)
		if err != nil {
			return RoundResult{}, WrapExitError(ExitCommandError, "invalid total unit", err)
		}
		log.WithField("unit", unit).Debug("totaling duration")
		total, err := dur.Total(unit, origin)
		if err != nil {
			return RoundResult{}, WrapExitError(ExitFailure, "totaling duration", err)
		}
		r.Total, r.Unit = &total, unit.String()
		return r, nil
	}

	ro, err := opts.roundingFlags.options()
	if err != nil {
		return RoundResult{}, WrapExitError(ExitCommandError, "invalid rounding options", err)
	}
	log.WithField("options", fmt.Sprintf("%+v", ro)).Debug("rounding duration")
	rounded, err := dur.Round(ro, origin)
	if err != nil {
		return RoundResult{}, WrapExitError(ExitFailure, "rounding duration", err)
	}
	r.Result = rounded.String()
	return r, nil
}
