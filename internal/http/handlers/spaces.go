package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mauv0809/court-reservations/internal/booking"
	"github.com/mauv0809/court-reservations/internal/court"
	"github.com/mauv0809/court-reservations/internal/errs"
	"github.com/mauv0809/court-reservations/internal/pricing"
	"github.com/mauv0809/court-reservations/internal/slots"
)

func ListSpacesHandler(courts court.CourtStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := courts.List(r.Context())
		if err != nil {
			WriteError(w, err, "Failed to list spaces")
			return
		}
		WriteJSON(w, http.StatusOK, list)
	}
}

func GetSpaceHandler(courts court.CourtStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := courts.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			WriteError(w, err, "Failed to get space")
			return
		}
		WriteJSON(w, http.StatusOK, c)
	}
}

func UpdateSpaceHandler(courts court.CourtStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch court.Patch
		if err := decodeJSON(w, r, &patch); err != nil {
			WriteError(w, err, "Invalid request")
			return
		}
		c, err := courts.Update(r.Context(), r.PathValue("id"), patch)
		if err != nil {
			WriteError(w, err, "Failed to update space")
			return
		}
		WriteJSON(w, http.StatusOK, c)
	}
}

func AvailabilityHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = bookings.Today()
		}
		availability, err := bookings.Availability(r.Context(), r.PathValue("id"), date)
		if err != nil {
			WriteError(w, err, "Failed to compute availability")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"spaceId": r.PathValue("id"),
			"date":    date,
			"slots":   availability,
		})
	}
}

type slotsResponse struct {
	Date    string         `json:"date,omitempty"`
	DayType slots.DayType  `json:"dayType,omitempty"`
	Slots   []string       `json:"slots,omitempty"`
	Catalog *slots.Catalog `json:"catalog,omitempty"`
}

// SlotsHandler serves the slot catalog so clients never keep their own copy.
// Without a date it returns the whole catalog.
func SlotsHandler(resolver *slots.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			catalog := resolver.Catalog()
			WriteJSON(w, http.StatusOK, slotsResponse{Catalog: &catalog})
			return
		}
		day, err := time.Parse(booking.DateLayout, date)
		if err != nil {
			WriteError(w, fmt.Errorf("%w: date must be YYYY-MM-DD", errs.ErrValidation), "Invalid date")
			return
		}
		WriteJSON(w, http.StatusOK, slotsResponse{
			Date:    date,
			DayType: slots.DayTypeOf(day),
			Slots:   resolver.SlotsFor(day),
		})
	}
}

// QuoteHandler prices a prospective booking. The tier defaults to ordinary.
func QuoteHandler(calculator *pricing.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		tier := pricing.Tier(q.Get("tier"))
		switch tier {
		case "":
			tier = pricing.TierOrdinary
		case pricing.TierOrdinary, pricing.TierSpecial:
		default:
			WriteError(w, fmt.Errorf("%w: tier must be ORDINARY or SPECIAL", errs.ErrValidation), "Invalid tier")
			return
		}
		price, err := calculator.Quote(r.Context(), q.Get("spaceId"), tier, q.Get("lighting") == "true")
		if err != nil {
			WriteError(w, err, "Failed to compute price")
			return
		}
		WriteJSON(w, http.StatusOK, price)
	}
}
