package procurement

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// RefPrefix starts every definitive supplier proposal reference
const RefPrefix = "SPR"

// refPattern matches SPR<yymm>-<counter>; the counter is at least four digits
var refPattern = regexp.MustCompile(`^` + RefPrefix + `\d{4}-(\d{4,})$`)

// FormatRef builds the definitive reference for counter at date
func FormatRef(date time.Time, counter int) string {
	return fmt.Sprintf("%s%s-%04d", RefPrefix, date.Format("0601"), counter)
}

// RefCounter extracts the counter of a definitive reference
func RefCounter(ref string) (int, bool) {
	m := refPattern.FindStringSubmatch(ref)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextRef returns the reference following the highest counter among refs.
// The counter never resets, a new month only changes the yymm part.
func NextRef(date time.Time, refs []string) string {
	highest := 0
	for _, r := range refs {
		if n, ok := RefCounter(r); ok && n > highest {
			highest = n
		}
	}
	return FormatRef(date, highest+1)
}
