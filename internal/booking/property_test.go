package booking_test

import (
	"context"
	"slices"
	"testing"
	"testing/quick"

	"github.com/mauv0809/court-reservations/internal/booking"
	"github.com/mauv0809/court-reservations/internal/court"
	"github.com/mauv0809/court-reservations/internal/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Any interleaving of requests, approvals and rejections leaves at most one
// active booking on any overlapping slot, including against imported rows
// whose slots are off the catalog grid.
func TestActiveBookingsNeverOverlap(t *testing.T) {
	catalog := slots.DefaultCatalog().Weekday
	offGrid := []string{slots.LegacyWeekendBlock, "18:00-19:30", "20:00-21:00", "21:00-22:30", "16:00-17:45"}
	states := []booking.State{booking.StatePreReserved, booking.StateReserved, booking.StateUnavailable}

	check := func(seeds, ops []uint8) bool {
		f := setup(t)
		ctx := context.Background()
		users := []string{f.ana.ID, f.luis.ID, f.special.ID}
		var created, seeded []string

		for _, seed := range seeds {
			slot := offGrid[int(seed)%len(offGrid)]
			if slices.ContainsFunc(seeded, func(s string) bool { return slots.Overlap(s, slot) }) {
				continue
			}
			b := &booking.Booking{
				CourtID: f.grass.ID,
				UserID:  users[int(seed/5)%len(users)],
				Date:    monday,
				Slot:    slot,
				State:   states[int(seed/15)%len(states)],
			}
			if err := f.store.Create(ctx, b, nil, booking.AuditEntry{Action: booking.ActionCreate, UserID: b.UserID}); err != nil {
				return false
			}
			seeded = append(seeded, slot)
			created = append(created, b.ID)
		}

		for _, op := range ops {
			switch op % 3 {
			case 0:
				slot := catalog[int(op/3)%len(catalog)]
				userID := users[int(op/9)%len(users)]
				b, _, err := f.svc.Create(ctx, userID, f.request(f.grass, monday, slot, false))
				if err == nil {
					created = append(created, b.ID)
				}
			case 1:
				if len(created) > 0 {
					_, _ = f.svc.Approve(ctx, f.admin.ID, created[int(op/3)%len(created)])
				}
			case 2:
				if len(created) > 0 {
					_, _ = f.svc.Reject(ctx, f.admin.ID, created[int(op/3)%len(created)], "")
				}
			}
		}

		active, err := f.store.ListActiveForDay(ctx, f.grass.ID, monday)
		if err != nil {
			return false
		}
		for i := range active {
			for j := i + 1; j < len(active); j++ {
				if slots.Overlap(active[i].Slot, active[j].Slot) {
					return false
				}
			}
		}
		return true
	}
	require.NoError(t, quick.Check(check, &quick.Config{MaxCount: 25}))
}

// A request for a catalog slot is refused when an imported row only partly
// covers it.
func TestCreateRefusesPartialOverlapWithImportedRow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	imported := &booking.Booking{CourtID: f.grass.ID, UserID: f.luis.ID, Date: monday, Slot: "18:00-19:30", State: booking.StateReserved}
	require.NoError(t, f.store.Create(ctx, imported, nil, booking.AuditEntry{Action: booking.ActionCreate, UserID: f.luis.ID}))

	for _, slot := range []string{"17:30-19:00", "19:00-20:30"} {
		_, _, err := f.svc.Create(ctx, f.ana.ID, f.request(f.grass, monday, slot, false))
		assert.ErrorIs(t, err, booking.ErrSlotTaken, slot)
	}
	_, _, err := f.svc.Create(ctx, f.ana.ID, f.request(f.grass, monday, "20:30-22:00", false))
	assert.NoError(t, err)
}

func TestAvailabilityWithMockStores(t *testing.T) {
	padel := court.Court{ID: "padel-1", Name: "Padel Court 1", Available: true}
	courts := court.NewMock(padel)
	store := booking.NewMock()
	store.ListActiveForDayFunc = func(ctx context.Context, courtID, date string) ([]booking.Booking, error) {
		return []booking.Booking{{Slot: slots.LegacyWeekendBlock, State: booking.StateUnavailable}}, nil
	}
	svc := booking.NewService(store, courts, nil, slots.MustResolver(slots.DefaultCatalog()), nil, nil)

	got, err := svc.Availability(context.Background(), padel.ID, "2099-01-03")
	require.NoError(t, err)
	require.Len(t, got, 8)
	for _, a := range got {
		assert.False(t, a.Available)
		assert.Equal(t, booking.StateUnavailable, a.State)
	}
	assert.Equal(t, []string{padel.ID}, courts.GetCalls)
}
