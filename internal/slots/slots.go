package slots

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/mauv0809/court-reservations/internal/errs"
)

// ErrMalformedSlot is returned when a slot string is not of the form H:MM-H:MM.
var ErrMalformedSlot = fmt.Errorf("%w: malformed slot", errs.ErrValidation)

var slotPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})-(\d{1,2}):(\d{2})$`)

const minutesPerDay = 24 * 60

// Slot is a time interval within a day, expressed in minutes since midnight.
// Start is inclusive and End exclusive.
type Slot struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Parse converts "H:MM-H:MM" (one or two hour digits) into a Slot.
func Parse(s string) (Slot, error) {
	m := slotPattern.FindStringSubmatch(s)
	if m == nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrMalformedSlot, s)
	}
	start, err := clock(m[1], m[2])
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q: %v", ErrMalformedSlot, s, err)
	}
	end, err := clock(m[3], m[4])
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q: %v", ErrMalformedSlot, s, err)
	}
	if start >= end {
		return Slot{}, fmt.Errorf("%w: %q: start must be before end", ErrMalformedSlot, s)
	}
	return Slot{Start: start, End: end}, nil
}

func clock(hours, minutes string) (int, error) {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	if m >= 60 {
		return 0, fmt.Errorf("minute %d out of range", m)
	}
	total := h*60 + m
	if total > minutesPerDay {
		return 0, fmt.Errorf("time %s:%s past end of day", hours, minutes)
	}
	return total, nil
}

// String renders the slot as zero-padded "HH:MM-HH:MM".
func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", s.Start/60, s.Start%60, s.End/60, s.End%60)
}

// Duration returns the length of the slot.
func (s Slot) Duration() time.Duration {
	return time.Duration(s.End-s.Start) * time.Minute
}

// Overlaps reports whether two slots share any time. Touching endpoints do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start < o.End && o.Start < s.End
}

// Overlap reports whether two slot strings conflict. Identical strings always
// conflict; otherwise both must parse and share time. Unparseable strings that
// differ textually never conflict.
func Overlap(a, b string) bool {
	if a == b {
		return true
	}
	sa, err := Parse(a)
	if err != nil {
		return false
	}
	sb, err := Parse(b)
	if err != nil {
		return false
	}
	return sa.Overlaps(sb)
}
