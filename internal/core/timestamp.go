package core

import (
	"fmt"
	"time"
)

// wib is Western Indonesia Time, the zone creation times are shown in.
var wib = time.FixedZone("WIB", 7*60*60)

var monthsShortID = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agt", "Sep", "Okt", "Nov", "Des"}

// FormatTimestamp renders t as "02 Jan 2006, 15:04 WIB" with Indonesian
// month abbreviations. A zero time renders as "-".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	t = t.In(wib)
	return fmt.Sprintf("%02d %s %d, %02d:%02d WIB",
		t.Day(), monthsShortID[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
