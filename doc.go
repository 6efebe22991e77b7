/*
Package tempo implements calendar-aware arithmetic on dates, times and
durations: adding a duration to a local or zoned date-time, computing the
difference between two of them, and rounding or totaling the result in
calendar and clock units.

# Features

  - Instants with nanosecond precision over 100,000,000 days around the epoch
  - Exact clock durations up to 2^53 seconds, without floating-point error
  - Date arithmetic in the ISO 8601 calendar, with constrain and reject
    policies for days that do not exist in the target month
  - Time zones backed by the IANA database of the [time] package, with
    disambiguation of skipped and repeated local times
  - Rounding with nine rounding modes and increments, relative to a plain
    date or a zoned instant
  - Parsing and formatting of ISO 8601 durations through [period.Period]

# Representation

An [EpochNanoseconds] is an instant, stored as seconds and nanoseconds since
1970-01-01T00:00:00Z.
A [TimeDuration] is an exact span of clock time, stored as seconds and a
sub-second part of the same sign.
An [InternalDuration] pairs a [DateDuration] of years, months, weeks and days,
whose lengths depend on where they are applied, with a [TimeDuration].
A [Duration] is the ten-field form people write, such as "P1Y2M3DT4H".

# Plain and Zoned Arithmetic

Plain date-times have no zone: their days are always 24 hours, and they are
anchored at UTC when two of them are compared.
Zoned date-times are instants observed in a [TimeZone]: their days are as
long as the local days, which can be 23 or 25 hours across an offset
transition.
Adding a duration to a zoned date-time adds the calendar part to the local
date first, and the clock part as exact elapsed time afterwards.

# Rounding

Rounding is controlled by [RoundingOptions]: the largest and the smallest
unit of the result, an increment, and a [RoundingMode].
Calendar units are rounded by locating the end of the duration between the
two neighbouring multiples of the increment, and the rounded unit is carried
into larger units when it reaches the next whole one.

# Errors

Functions return errors wrapping [ErrRange] when a value is outside of its
supported range and [ErrType] when an argument is malformed or missing.
A local date-time that is rejected under the [Reject] policy gives
[ErrAmbiguous], which also wraps [ErrRange].
Functions prefixed with Must panic instead of returning an error.
*/
package tempo
