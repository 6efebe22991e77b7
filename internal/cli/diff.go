package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/govalues/tempo"
)

// DiffResult is the output of the diff command.
type DiffResult struct {
	Start    string   `json:"start" yaml:"start"`
	End      string   `json:"end" yaml:"end"`
	Duration string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Total    *float64 `json:"total,omitempty" yaml:"total,omitempty"`
	Unit     string   `json:"unit,omitempty" yaml:"unit,omitempty"`
}

func (r DiffResult) String() string {
	if r.Total != nil {
		return fmt.Sprintf("%v %vs", *r.Total, r.Unit)
	}
	return r.Duration
}

type diffOptions struct {
	contextFlags
	roundingFlags
	Total string
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &diffOptions{}
	cmd := &cobra.Command{
		Use:   "diff <start> <end>",
		Short: "Compute the duration between two date-times",
		Long: `Compute the duration from start to end, balanced up to the largest unit
and rounded to the smallest unit.

Without --zone both arguments are plain date-times and days are calendar days
of 24 hours. With --zone they are local date-times in the zone, and days are
as long as the local days.`,
		Example: `  tempo diff 2024-01-31 2024-03-01 --largest month
  tempo diff 2024-03-09T12:00 2024-03-10T12:00 --zone America/New_York --largest hour`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			r, err := runDiff(rootOpts, opts, args[0], args[1])
			if err != nil {
				return fail(formatter, err)
			}
			return formatter.Success(r)
		},
	}
	opts.contextFlags.register(cmd)
	opts.roundingFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Total, "total", "", "print the duration as a fractional number of this unit")
	return cmd
}

func runDiff(rootOpts *RootOptions, opts *diffOptions, start, end string) (DiffResult, *ExitError) {
	log := rootOpts.Logger()
	c, err := opts.contextFlags.parse()
	if err != nil {
		return DiffResult{}, WrapExitError(ExitCommandError, "invalid context", err)
	}
	p1, err := c.parsePoint(start)
	if err != nil {
		return DiffResult{}, WrapExitError(ExitCommandError, "invalid start", err)
	}
	p2, err := c.parsePoint(end)
	if err != nil {
		return DiffResult{}, WrapExitError(ExitCommandError, "invalid end", err)
	}
	r := DiffResult{Start: c.format(p1), End: c.format(p2)}
	log.WithFields(logrus.Fields{"start": r.Start, "end": r.End, "calendar": c.cal.ID()}).Debug("computing difference")

	if opts.Total != "" {
		unit, err := tempo.ParseUnit(opts.Total)
		if err != nil {
			return DiffResult{}, WrapExitError(ExitCommandError, "invalid total unit", err)
		}
		var total float64
		if c.tz == nil {
			total, err = tempo.DifferencePlainDateTimeWithTotal(p1.dt, p2.dt, c.cal, unit)
		} else {
			total, err = tempo.DifferenceZonedDateTimeWithTotal(p1.ns, p2.ns, c.tz, c.cal, unit)
		}
		if err != nil {
			return DiffResult{}, WrapExitError(ExitFailure, "computing total", err)
		}
		r.Total, r.Unit = &total, unit.String()
		return r, nil
	}

	defaultLargest := tempo.Day
	if c.tz != nil {
		defaultLargest = tempo.Hour
	}
	ro, err := opts.roundingFlags.resolvedOptions(defaultLargest)
	if err != nil {
		return DiffResult{}, WrapExitError(ExitCommandError, "invalid rounding options", err)
	}
	log.WithField("options", fmt.Sprintf("%+v", ro)).Debug("rounding difference")

	var (
		d            tempo.InternalDuration
		largestUnit  = ro.LargestUnit
		computeError error
	)
	if c.tz == nil {
		d, computeError = tempo.DifferencePlainDateTimeWithRounding(p1.dt, p2.dt, c.cal, ro)
	} else {
		d, computeError = tempo.DifferenceZonedDateTimeWithRounding(p1.ns, p2.ns, c.tz, c.cal, ro)
		if largestUnit.IsDateUnit() {
			largestUnit = tempo.Hour
		}
	}
	if computeError != nil {
		return DiffResult{}, WrapExitError(ExitFailure, "computing difference", computeError)
	}
	dur, err := tempo.DurationFromInternal(d, largestUnit)
	if err != nil {
		return DiffResult{}, WrapExitError(ExitFailure, "balancing difference", err)
	}
	r.Duration = dur.String()
	return r, nil
}
