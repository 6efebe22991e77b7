package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govalues/tempo"
)

// contextFlags selects how date-time arguments are interpreted.
type contextFlags struct {
	Zone           string
	Calendar       string
	Disambiguation string
}

func (f *contextFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Zone, "zone", "z", "", "time zone of date-time arguments, e.g. Europe/Paris or +05:30 (plain if empty)")
	cmd.Flags().StringVar(&f.Calendar, "calendar", "iso8601", "calendar")
	cmd.Flags().StringVar(&f.Disambiguation, "disambiguation", "compatible", "policy for skipped or repeated local times (compatible|earlier|later|reject)")
}

// frame is the parsed form of contextFlags.
type frame struct {
	cal    tempo.Calendar
	tz     tempo.TimeZone // nil for plain date-times
	policy tempo.Disambiguation
}

func (f *contextFlags) parse() (frame, error) {
	var c frame
	var err error
	if c.cal, err = tempo.ParseCalendar(f.Calendar); err != nil {
		return frame{}, err
	}
	if c.policy, err = tempo.ParseDisambiguation(f.Disambiguation); err != nil {
		return frame{}, err
	}
	if f.Zone != "" {
		if c.tz, err = tempo.LoadTimeZone(f.Zone); err != nil {
			return frame{}, err
		}
	}
	return c, nil
}

// point is a date-time argument, resolved to an instant in zoned contexts.
type point struct {
	dt tempo.ISODateTime
	ns tempo.EpochNanoseconds
}

func (c frame) parsePoint(s string) (point, error) {
	dt, err := tempo.ParseISODateTime(s)
	if err != nil {
		return point{}, err
	}
	p := point{dt: dt}
	if c.tz != nil {
		if p.ns, err = tempo.EpochNanosecondsFor(c.tz, dt, c.policy); err != nil {
			return point{}, err
		}
	}
	return p, nil
}

// format returns the local date-time of a point, with the offset and the
// zone in zoned contexts.
func (c frame) format(p point) string {
	if c.tz == nil {
		return p.dt.String()
	}
	return formatInstant(c.tz, p.ns)
}

func formatInstant(tz tempo.TimeZone, ns tempo.EpochNanoseconds) string {
	return fmt.Sprintf("%v%v[%v]", tempo.ISODateTimeFor(tz, ns), tempo.OffsetString(tz.OffsetNanoseconds(ns)), tz.ID())
}

// roundingFlags holds the rounding options of a command.
type roundingFlags struct {
	Largest   string
	Smallest  string
	Increment int64
	Mode      string
}

func (f *roundingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Largest, "largest", "auto", "largest unit of the result")
	cmd.Flags().StringVar(&f.Smallest, "smallest", "auto", "smallest unit of the result")
	cmd.Flags().Int64Var(&f.Increment, "increment", 1, "rounding increment in smallest units")
	cmd.Flags().StringVar(&f.Mode, "mode", "halfExpand", "rounding mode")
}

// options returns the options as given, with automatic units left unset.
func (f *roundingFlags) options() (tempo.RoundingOptions, error) {
	var o tempo.RoundingOptions
	var err error
	if o.LargestUnit, err = tempo.ParseUnit(f.Largest); err != nil {
		return tempo.RoundingOptions{}, err
	}
	if o.SmallestUnit, err = tempo.ParseUnit(f.Smallest); err != nil {
		return tempo.RoundingOptions{}, err
	}
	if o.Mode, err = tempo.ParseRoundingMode(f.Mode); err != nil {
		return tempo.RoundingOptions{}, err
	}
	o.Increment = f.Increment
	return o, nil
}

// resolvedOptions is like options but replaces automatic units, the
// smallest with nanoseconds and the largest with the larger of
// defaultLargest and the smallest unit.
func (f *roundingFlags) resolvedOptions(defaultLargest tempo.Unit) (tempo.RoundingOptions, error) {
	o, err := f.options()
	if err != nil {
		return tempo.RoundingOptions{}, err
	}
	if o.SmallestUnit == tempo.Auto {
		o.SmallestUnit = tempo.Nanosecond
	}
	if o.LargestUnit == tempo.Auto {
		o.LargestUnit = max(defaultLargest, o.SmallestUnit)
	}
	return o, o.Validate()
}

// fail reports err in machine-readable formats and returns it for the exit
// code.
func fail(f *OutputFormatter, err *ExitError) error {
	if f.Format != "text" {
		_ = f.Error(err)
	}
	return err
}
