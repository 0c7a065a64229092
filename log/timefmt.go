package log

import (
	"strings"
	"sync"
	"time"
	"unicode"
)

// FormatTime defines a function that formats a time.Time value as a string.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the default used when no valid time layout is provided.
const DefaultTimeLayout = time.RFC3339

// namedLayouts maps each accepted layout name to its layout. Names are
// compared by their letters and digits only, in lower case, so "RFC3339",
// "rfc-3339" and "Rfc 3339" are the same name.
var namedLayouts = sync.OnceValue(func() map[string]string {
	groups := []struct {
		layout string
		names  []string
	}{
		{"", []string{"none", "off"}},
		{time.RFC3339, []string{"rfc3339"}},
		{time.RFC3339Nano, []string{"rfc3339nano"}},
		{time.DateTime, []string{"datetime"}},
		{time.DateOnly, []string{"date", "dateonly"}},
		{time.TimeOnly, []string{"time", "timeonly"}},
		{time.Kitchen, []string{"kitchen"}},
		{time.ANSIC, []string{"ansic"}},
		{time.UnixDate, []string{"unixdate"}},
		{time.RubyDate, []string{"rubydate"}},
		{time.RFC822, []string{"rfc822"}},
		{time.RFC822Z, []string{"rfc822z"}},
		{time.RFC850, []string{"rfc850"}},
		{time.Stamp, []string{"stamp"}},
		{time.StampMilli, []string{"stampmilli", "milli", "millis", "ms"}},
		{time.StampMicro, []string{"stampmicro", "micro", "micros", "us"}},
		{time.StampNano, []string{"stampnano", "nano", "nanos", "ns"}},
	}

	m := make(map[string]string)

	for _, g := range groups {
		for _, name := range g.names {
			m[name] = g.layout
		}
	}

	return m
})

func layoutKey(layout string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}

		return -1
	}, layout)
}

// timeFormatter returns the FormatTime for layout. A layout with no letters
// or digits formats every time as the empty string, which drops timestamps.
// Any other layout that is not a known name is used verbatim.
func timeFormatter(layout string) FormatTime {
	key := layoutKey(layout)

	if named, ok := namedLayouts()[key]; ok {
		layout = named
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
