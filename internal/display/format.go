package display

import (
	"fmt"
	"strings"
	"time"
)

// Board time is always JST, whatever the host timezone is.
var jst = time.FixedZone("JST", 9*60*60)

var weekdays = map[Locale][7]string{
	Japanese: {"日", "月", "火", "水", "木", "金", "土"},
	English:  {"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
}

// FormatTimestamp renders t as "2006/01/02(W) 15:04:05.ff" in JST.
// ff is the first two digits of the milliseconds, truncated.
func FormatTimestamp(t time.Time, locale Locale) string {
	t = t.In(jst)
	names, ok := weekdays[locale]
	if !ok {
		names = weekdays[Japanese]
	}
	centis := t.Nanosecond() / int(10*time.Millisecond)
	return fmt.Sprintf("%04d/%02d/%02d(%s) %02d:%02d:%02d.%02d",
		t.Year(), int(t.Month()), t.Day(), names[t.Weekday()],
		t.Hour(), t.Minute(), t.Second(), centis)
}

// IsSage reports whether the mail field asks not to bump the thread.
func IsSage(mail string) bool {
	return strings.EqualFold(strings.TrimSpace(mail), "sage")
}
