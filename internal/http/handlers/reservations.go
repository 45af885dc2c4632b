package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/court-reservations/internal/booking"
	"github.com/mauv0809/court-reservations/internal/errs"
	"github.com/mauv0809/court-reservations/internal/pricing"
)

const maxProofSize = 5 << 20

var proofExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

var errBadProof = fmt.Errorf("%w: proof must be a JPEG, PNG or PDF of at most 5MB", errs.ErrValidation)

type createReservationResponse struct {
	Reservation *booking.Booking  `json:"reservation"`
	Pricing     pricing.Breakdown `json:"pricing"`
}

func CreateReservationHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req booking.CreateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			WriteError(w, err, "Invalid request")
			return
		}
		b, price, err := bookings.Create(r.Context(), claims(r).Sub, req)
		if err != nil {
			WriteError(w, err, "Failed to create reservation")
			return
		}
		log.Info("Reservation created", "id", b.ID, "space", b.CourtName, "date", b.Date, "slot", b.Slot)
		WriteJSON(w, http.StatusCreated, createReservationResponse{Reservation: b, Pricing: price})
	}
}

func MyReservationsHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := bookings.Mine(r.Context(), claims(r).Sub)
		if err != nil {
			WriteError(w, err, "Failed to list reservations")
			return
		}
		WriteJSON(w, http.StatusOK, list)
	}
}

func GetReservationHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := claims(r)
		b, err := bookings.Get(r.Context(), c.Sub, c.IsAdmin(), r.PathValue("id"))
		if err != nil {
			WriteError(w, err, "Failed to get reservation")
			return
		}
		WriteJSON(w, http.StatusOK, b)
	}
}

func DeleteReservationHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := bookings.Delete(r.Context(), claims(r).Sub, r.PathValue("id")); err != nil {
			WriteError(w, err, "Failed to delete reservation")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// UploadProofHandler stores a payment proof under uploadDir and attaches it to
// the caller's pre-reservation. The content type is sniffed, never trusted.
func UploadProofHandler(bookings *booking.Service, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxProofSize+(1<<20))
		if err := r.ParseMultipartForm(maxProofSize); err != nil {
			WriteError(w, errBadProof, "Invalid proof")
			return
		}
		file, header, err := r.FormFile("proof")
		if err != nil {
			WriteError(w, fmt.Errorf("%w: missing proof file", errs.ErrValidation), "Invalid proof")
			return
		}
		defer file.Close()
		if header.Size > maxProofSize {
			WriteError(w, errBadProof, "Invalid proof")
			return
		}

		sniff := make([]byte, 512)
		n, err := io.ReadFull(file, sniff)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			WriteError(w, errBadProof, "Invalid proof")
			return
		}
		ext, ok := proofExtensions[http.DetectContentType(sniff[:n])]
		if !ok {
			WriteError(w, errBadProof, "Invalid proof")
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			WriteError(w, err, "Failed to read proof")
			return
		}

		name := uuid.NewString() + ext
		if err := saveProof(filepath.Join(uploadDir, name), file); err != nil {
			WriteError(w, err, "Failed to store proof")
			return
		}
		b, err := bookings.AttachProof(r.Context(), claims(r).Sub, r.PathValue("id"), name)
		if err != nil {
			if rmErr := os.Remove(filepath.Join(uploadDir, name)); rmErr != nil {
				log.Warn("Failed to remove orphaned proof", "file", name, "error", rmErr)
			}
			WriteError(w, err, "Failed to attach proof")
			return
		}
		WriteJSON(w, http.StatusOK, b)
	}
}

func saveProof(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// ProofFileHandler serves a stored proof to administrators.
func ProofFileHandler(uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.PathValue("name"))
		path := filepath.Join(uploadDir, name)
		if _, err := os.Stat(path); err != nil {
			WriteError(w, fmt.Errorf("%w: proof %s", errs.ErrNotFound, name), "Proof not found")
			return
		}
		http.ServeFile(w, r, path)
	}
}

type statusRequest struct {
	Status booking.State `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// UpdateStatusHandler approves (RESERVED) or rejects (FREE) a pre-reservation.
func UpdateStatusHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			WriteError(w, err, "Invalid request")
			return
		}
		b, err := bookings.Decide(r.Context(), claims(r).Sub, r.PathValue("id"), req.Status, req.Reason)
		if err != nil {
			WriteError(w, err, "Failed to update reservation")
			return
		}
		log.Info("Reservation status changed", "id", b.ID, "state", b.State)
		WriteJSON(w, http.StatusOK, b)
	}
}

func BlockSlotHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req booking.CreateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			WriteError(w, err, "Invalid request")
			return
		}
		b, err := bookings.Block(r.Context(), claims(r).Sub, req)
		if err != nil {
			WriteError(w, err, "Failed to block slot")
			return
		}
		WriteJSON(w, http.StatusCreated, b)
	}
}

func filterFromQuery(r *http.Request) booking.Filter {
	q := r.URL.Query()
	return booking.Filter{
		State:   booking.State(q.Get("state")),
		CourtID: q.Get("space"),
		UserID:  q.Get("user"),
		From:    q.Get("from"),
		To:      q.Get("to"),
	}
}

func AdminReservationsHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := booking.Page{Page: intParam(r, "page"), Limit: intParam(r, "limit")}
		result, err := bookings.List(r.Context(), filterFromQuery(r), page)
		if err != nil {
			WriteError(w, err, "Failed to list reservations")
			return
		}
		WriteJSON(w, http.StatusOK, result)
	}
}

func RevenueHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		report, err := bookings.Revenue(r.Context(), q.Get("from"), q.Get("to"), q.Get("spaceId"))
		if err != nil {
			WriteError(w, err, "Failed to compute revenue")
			return
		}
		WriteJSON(w, http.StatusOK, report)
	}
}

func ExportReservationsHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := filterFromQuery(r)
		if f.State != "" && !f.State.Valid() {
			WriteError(w, fmt.Errorf("%w: unknown state %q", booking.ErrInvalidRequest, f.State), "Invalid filter")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="reservations.csv"`)
		if err := bookings.ExportCSV(r.Context(), w, f); err != nil {
			log.Error("Failed to export reservations", "error", err)
		}
	}
}

func AuditLogHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := bookings.AuditLog(r.Context(), intParam(r, "limit"))
		if err != nil {
			WriteError(w, err, "Failed to read audit log")
			return
		}
		WriteJSON(w, http.StatusOK, entries)
	}
}
