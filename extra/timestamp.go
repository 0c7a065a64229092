package extra

import (
	"fmt"
	"strconv"

	"github.com/ardnew/cmdsyntax/syntax"
)

// Timestamp is a normalized clock position: Minutes and Seconds are always
// below 60.
type Timestamp struct {
	Hours   int `json:"hours"   yaml:"hours"`
	Minutes int `json:"minutes" yaml:"minutes"`
	Seconds int `json:"seconds" yaml:"seconds"`
}

// MakeTimestamp returns the normalized timestamp of the given components, so
// that 1:75:90 becomes 2:16:30.
func MakeTimestamp(hours, minutes, seconds int) Timestamp {
	total := hours*3600 + minutes*60 + seconds

	return Timestamp{
		Hours:   total / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// TotalSeconds returns the number of seconds since 0:0:0.
func (t Timestamp) TotalSeconds() int {
	return t.Hours*3600 + t.Minutes*60 + t.Seconds
}

// String formats t as "HHhMMmSSs".
func (t Timestamp) String() string {
	return fmt.Sprintf("%02dh%02dm%02ds", t.Hours, t.Minutes, t.Seconds)
}

// TimestampType returns the timestamp type: three colon-separated runs of
// digits, hours:minutes:seconds. The value is a [Timestamp].
func TimestampType() *syntax.ValueType {
	return &syntax.ValueType{
		Name:        TypeTimestamp,
		Description: "A position in time formatted as hh:mm:ss.",
		Parse: func(text string, cursor int) syntax.Outcome[any] {
			var part [3]int

			end := cursor

			for i := range part {
				if i > 0 {
					if end >= len(text) || text[end] != ':' {
						return timestampMismatch(text, cursor)
					}

					end++
				}

				next := scan(text, end, isDigit)
				if next == end {
					return timestampMismatch(text, cursor)
				}

				n, err := strconv.Atoi(text[end:next])
				if err != nil {
					return timestampMismatch(text, cursor)
				}

				part[i] = n
				end = next
			}

			return syntax.Succeed[any](MakeTimestamp(part[0], part[1], part[2]), end)
		},
	}
}

func timestampMismatch(text string, cursor int) syntax.Outcome[any] {
	return syntax.Mismatch[any](
		fmt.Sprintf("invalid timestamp format: got '%s', should be hh:mm:ss", text[cursor:]),
		text, cursor,
	)
}
