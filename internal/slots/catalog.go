package slots

import (
	"fmt"
	"slices"
	"time"
)

// DayType classifies a calendar day for slot purposes.
type DayType string

const (
	Weekday DayType = "WEEKDAY"
	Weekend DayType = "WEEKEND"
)

// DayTypeOf returns Weekend for Saturdays and Sundays and Weekday otherwise.
func DayTypeOf(date time.Time) DayType {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}

// LegacyWeekendBlock is the single all-day weekend slot found in historical data.
// It is not bookable, but stored bookings carrying it still take part in overlap checks.
const LegacyWeekendBlock = "8:00-20:00"

// Catalog holds the legal slot strings per day type.
type Catalog struct {
	Weekday []string `json:"weekday"`
	Weekend []string `json:"weekend"`
}

// DefaultCatalog returns the facility's standard grid: three evening slots on
// weekdays and eight 90-minute slots from 08:00 to 20:00 on weekends.
func DefaultCatalog() Catalog {
	return Catalog{
		Weekday: []string{"17:30-19:00", "19:00-20:30", "20:30-22:00"},
		Weekend: []string{
			"08:00-09:30",
			"09:30-11:00",
			"11:00-12:30",
			"12:30-14:00",
			"14:00-15:30",
			"15:30-17:00",
			"17:00-18:30",
			"18:30-20:00",
		},
	}
}

// Validate checks that every entry parses and that no two entries of the same
// day type overlap.
func (c Catalog) Validate() error {
	for dayType, entries := range map[DayType][]string{Weekday: c.Weekday, Weekend: c.Weekend} {
		if len(entries) == 0 {
			return fmt.Errorf("%s catalog is empty", dayType)
		}
		parsed := make([]Slot, 0, len(entries))
		for _, e := range entries {
			s, err := Parse(e)
			if err != nil {
				return fmt.Errorf("%s catalog: %w", dayType, err)
			}
			for _, p := range parsed {
				if p.Overlaps(s) {
					return fmt.Errorf("%s catalog: %s overlaps %s", dayType, p, s)
				}
			}
			parsed = append(parsed, s)
		}
	}
	return nil
}

// Resolver answers slot questions against an immutable catalog.
type Resolver struct {
	weekday []string
	weekend []string
}

// NewResolver validates the catalog and returns a resolver over a private copy of it.
func NewResolver(c Catalog) (*Resolver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{
		weekday: slices.Clone(c.Weekday),
		weekend: slices.Clone(c.Weekend),
	}, nil
}

// MustResolver is NewResolver for catalogs known to be valid, such as DefaultCatalog.
func MustResolver(c Catalog) *Resolver {
	r, err := NewResolver(c)
	if err != nil {
		panic(err)
	}
	return r
}

// Catalog returns a copy of the catalog the resolver was built with.
func (r *Resolver) Catalog() Catalog {
	return Catalog{Weekday: slices.Clone(r.weekday), Weekend: slices.Clone(r.weekend)}
}

// SlotsFor returns the legal slots for the given day, in catalog order.
func (r *Resolver) SlotsFor(date time.Time) []string {
	if DayTypeOf(date) == Weekend {
		return slices.Clone(r.weekend)
	}
	return slices.Clone(r.weekday)
}

// IsValid reports whether slot exactly matches a catalog entry for the day type of date.
func (r *Resolver) IsValid(date time.Time, slot string) bool {
	if DayTypeOf(date) == Weekend {
		return slices.Contains(r.weekend, slot)
	}
	return slices.Contains(r.weekday, slot)
}

// Conflicts reports whether slot overlaps any of the existing slots.
func (r *Resolver) Conflicts(slot string, existing []string) bool {
	for _, e := range existing {
		if Overlap(slot, e) {
			return true
		}
	}
	return false
}
