package slots

import (
	"fmt"
	"testing"
	"testing/quick"
	"time"

	"github.com/mauv0809/court-reservations/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mon 2026-10-19 .. Sun 2026-10-25
var (
	monday   = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	friday   = time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Slot
		wantErr bool
	}{
		{in: "17:30-19:00", want: Slot{Start: 1050, End: 1140}},
		{in: "8:00-9:30", want: Slot{Start: 480, End: 570}},
		{in: "08:00-09:30", want: Slot{Start: 480, End: 570}},
		{in: "22:00-24:00", want: Slot{Start: 1320, End: 1440}},
		{in: "", wantErr: true},
		{in: "17:30", wantErr: true},
		{in: "17:30 - 19:00", wantErr: true},
		{in: "7:3-9:00", wantErr: true},
		{in: "17:60-19:00", wantErr: true},
		{in: "19:00-17:30", wantErr: true},
		{in: "19:00-19:00", wantErr: true},
		{in: "23:00-25:00", wantErr: true},
		{in: "123:00-124:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedSlot)
				assert.ErrorIs(t, err, errs.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotString(t *testing.T) {
	s, err := Parse("8:00-9:30")
	require.NoError(t, err)
	assert.Equal(t, "08:00-09:30", s.String())
	assert.Equal(t, 90*time.Minute, s.Duration())
}

func TestOverlap(t *testing.T) {
	t.Run("adjacent slots do not overlap", func(t *testing.T) {
		assert.False(t, Overlap("17:30-19:00", "19:00-20:30"))
		assert.False(t, Overlap("19:00-20:30", "17:30-19:00"))
	})

	t.Run("partially shared time overlaps", func(t *testing.T) {
		assert.True(t, Overlap("17:30-19:00", "18:30-20:00"))
	})

	t.Run("legacy weekend block overlaps every weekend slot", func(t *testing.T) {
		for _, s := range DefaultCatalog().Weekend {
			assert.True(t, Overlap(LegacyWeekendBlock, s), s)
		}
	})

	t.Run("differently padded spellings of the same slot overlap", func(t *testing.T) {
		assert.True(t, Overlap("8:00-9:30", "08:00-09:30"))
	})

	t.Run("identical unparseable strings overlap", func(t *testing.T) {
		assert.True(t, Overlap("morning", "morning"))
	})

	t.Run("different unparseable strings do not overlap", func(t *testing.T) {
		assert.False(t, Overlap("morning", "17:30-19:00"))
		assert.False(t, Overlap("morning", "evening"))
	})
}

// slotFromInts maps arbitrary integers onto a well-formed slot string.
func slotFromInts(a, b uint16) string {
	start := int(a) % (minutesPerDay - 1)
	length := 1 + int(b)%(minutesPerDay-start)
	end := start + length
	return fmt.Sprintf("%d:%02d-%d:%02d", start/60, start%60, end/60, end%60)
}

func TestOverlapProperties(t *testing.T) {
	t.Run("reflexive", func(t *testing.T) {
		f := func(a, b uint16) bool {
			s := slotFromInts(a, b)
			return Overlap(s, s)
		}
		require.NoError(t, quick.Check(f, nil))
	})

	t.Run("symmetric", func(t *testing.T) {
		f := func(a, b, c, d uint16) bool {
			x, y := slotFromInts(a, b), slotFromInts(c, d)
			return Overlap(x, y) == Overlap(y, x)
		}
		require.NoError(t, quick.Check(f, nil))
	})

	t.Run("agrees with minute-level intersection", func(t *testing.T) {
		f := func(a, b, c, d uint16) bool {
			x, y := slotFromInts(a, b), slotFromInts(c, d)
			sx, _ := Parse(x)
			sy, _ := Parse(y)
			shared := false
			for m := sx.Start; m < sx.End; m++ {
				if m >= sy.Start && m < sy.End {
					shared = true
					break
				}
			}
			return Overlap(x, y) == shared
		}
		require.NoError(t, quick.Check(f, nil))
	})
}

func TestDayTypeOf(t *testing.T) {
	assert.Equal(t, Weekday, DayTypeOf(monday))
	assert.Equal(t, Weekday, DayTypeOf(friday))
	assert.Equal(t, Weekend, DayTypeOf(saturday))
	assert.Equal(t, Weekend, DayTypeOf(sunday))
}

func TestResolverIsValid(t *testing.T) {
	r := MustResolver(DefaultCatalog())
	catalog := DefaultCatalog()

	t.Run("weekdays accept exactly the weekday catalog", func(t *testing.T) {
		for d := monday; d.Before(saturday); d = d.AddDate(0, 0, 1) {
			for _, s := range catalog.Weekday {
				assert.True(t, r.IsValid(d, s), "%s %s", d.Weekday(), s)
			}
			for _, s := range catalog.Weekend {
				assert.False(t, r.IsValid(d, s), "%s %s", d.Weekday(), s)
			}
			assert.False(t, r.IsValid(d, "17:30-19:30"))
			assert.False(t, r.IsValid(d, LegacyWeekendBlock))
		}
	})

	t.Run("weekends accept exactly the weekend catalog", func(t *testing.T) {
		for _, d := range []time.Time{saturday, sunday} {
			assert.Len(t, r.SlotsFor(d), 8)
			for _, s := range catalog.Weekend {
				assert.True(t, r.IsValid(d, s), "%s %s", d.Weekday(), s)
			}
			for _, s := range catalog.Weekday {
				assert.False(t, r.IsValid(d, s), "%s %s", d.Weekday(), s)
			}
			assert.False(t, r.IsValid(d, LegacyWeekendBlock))
			assert.False(t, r.IsValid(d, "8:00-9:30"))
		}
	})

	t.Run("arbitrary strings are rejected on any day", func(t *testing.T) {
		f := func(a, b uint16, day uint8) bool {
			s := slotFromInts(a, b)
			d := monday.AddDate(0, 0, int(day%7))
			want := false
			for _, c := range r.SlotsFor(d) {
				if c == s {
					want = true
				}
			}
			return r.IsValid(d, s) == want
		}
		require.NoError(t, quick.Check(f, nil))
	})
}

func TestResolverSlotsForReturnsCopy(t *testing.T) {
	r := MustResolver(DefaultCatalog())
	got := r.SlotsFor(monday)
	got[0] = "00:00-01:00"
	assert.Equal(t, "17:30-19:00", r.SlotsFor(monday)[0])
}

func TestResolverConflicts(t *testing.T) {
	r := MustResolver(DefaultCatalog())
	assert.True(t, r.Conflicts("19:00-20:30", []string{"17:30-19:00", "19:00-20:30"}))
	assert.False(t, r.Conflicts("19:00-20:30", []string{"17:30-19:00", "20:30-22:00"}))
	assert.False(t, r.Conflicts("19:00-20:30", nil))
}

func TestNewResolverRejectsBadCatalog(t *testing.T) {
	_, err := NewResolver(Catalog{Weekday: []string{"17:30-19:00"}, Weekend: []string{"nope"}})
	assert.ErrorIs(t, err, ErrMalformedSlot)

	_, err = NewResolver(Catalog{Weekday: []string{"17:30-19:00", "18:00-19:30"}, Weekend: []string{"08:00-09:30"}})
	assert.Error(t, err)

	_, err = NewResolver(Catalog{Weekday: []string{"17:30-19:00"}})
	assert.Error(t, err)
}

func TestCustomCatalogIsInjected(t *testing.T) {
	r, err := NewResolver(Catalog{
		Weekday: []string{"18:00-19:00"},
		Weekend: []string{"10:00-12:00"},
	})
	require.NoError(t, err)
	assert.True(t, r.IsValid(monday, "18:00-19:00"))
	assert.False(t, r.IsValid(monday, "17:30-19:00"))
	assert.True(t, r.IsValid(saturday, "10:00-12:00"))
}
