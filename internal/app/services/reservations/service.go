// Package reservations manages bookings scoped to the authenticated user.
package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/reservation"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage"
	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

// Service manages reservations.
type Service struct {
	store storage.Store
	log   *logger.Logger
}

// New constructs a reservation service.
func New(store storage.Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("reservations")
	}
	return &Service{store: store, log: log}
}

// CreateInput carries a reservation request.
type CreateInput struct {
	DestinationID string
	CheckInDate   string
	CheckOutDate  string
	TotalPrice    float64
}

// Create books a destination for the user. The destination must exist; its
// name is snapshotted onto the reservation and does not follow later
// renames. New reservations start confirmed with payment pending.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (reservation.Reservation, error) {
	if in.DestinationID == "" || in.CheckInDate == "" || in.CheckOutDate == "" {
		return reservation.Reservation{}, apperrors.NewValidationError("", "destinationId, checkInDate and checkOutDate are required")
	}
	if in.TotalPrice < 0 {
		return reservation.Reservation{}, apperrors.NewValidationError("totalPrice", "must not be negative")
	}

	res := reservation.Reservation{
		ID:            "res-" + uuid.NewString(),
		UserID:        userID,
		DestinationID: in.DestinationID,
		CheckInDate:   in.CheckInDate,
		CheckOutDate:  in.CheckOutDate,
		TotalPrice:    in.TotalPrice,
		Status:        reservation.StatusConfirmed,
		PaymentStatus: reservation.PaymentPending,
		CreatedAt:     time.Now().UTC(),
	}

	err := s.store.Update(ctx, func(doc *storage.Document) error {
		var name string
		for _, d := range doc.Destinations {
			if d.ID == in.DestinationID {
				name = d.Name
				break
			}
		}
		if name == "" {
			return apperrors.NewNotFoundError("destination", in.DestinationID)
		}
		res.DestinationName = name
		doc.Reservations = append(doc.Reservations, res)
		return nil
	})
	if err != nil {
		return reservation.Reservation{}, err
	}

	s.log.WithField("reservation_id", res.ID).
		WithField("user_id", userID).
		Info("reservation created")
	return res, nil
}

// Get returns a reservation. Existence is checked before ownership, so a
// missing id yields NotFound while someone else's reservation yields
// Forbidden; the two are never conflated.
func (s *Service) Get(ctx context.Context, id, callerUserID string) (reservation.Reservation, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return reservation.Reservation{}, err
	}
	return find(doc.Reservations, id, callerUserID)
}

func find(all []reservation.Reservation, id, callerUserID string) (reservation.Reservation, error) {
	for _, r := range all {
		if r.ID == id {
			if r.UserID != callerUserID {
				return reservation.Reservation{}, apperrors.NewForbiddenError("reservation belongs to another user")
			}
			return r, nil
		}
	}
	return reservation.Reservation{}, apperrors.NewNotFoundError("reservation", id)
}

// ListForUser returns the user's reservations in storage order.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]reservation.Reservation, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]reservation.Reservation, 0, len(doc.Reservations))
	for _, r := range doc.Reservations {
		if r.UserID == userID {
			owned = append(owned, r)
		}
	}
	return owned, nil
}

// Cancel marks a reservation cancelled. Cancelling twice is a Conflict so
// the caller sees the double cancel instead of a silent no-op. The payment
// status is left untouched: a cancelled-but-paid reservation keeps both
// fields.
func (s *Service) Cancel(ctx context.Context, id, callerUserID string) (reservation.Reservation, error) {
	var cancelled reservation.Reservation
	err := s.store.Update(ctx, func(doc *storage.Document) error {
		for i := range doc.Reservations {
			if doc.Reservations[i].ID != id {
				continue
			}
			r := &doc.Reservations[i]
			if r.UserID != callerUserID {
				return apperrors.NewForbiddenError("reservation belongs to another user")
			}
			if r.Status == reservation.StatusCancelled {
				return apperrors.NewConflictError("reservation already cancelled")
			}
			r.Status = reservation.StatusCancelled
			cancelled = *r
			return nil
		}
		return apperrors.NewNotFoundError("reservation", id)
	})
	if err != nil {
		return reservation.Reservation{}, err
	}

	s.log.WithField("reservation_id", id).Info("reservation cancelled")
	return cancelled, nil
}

// SetStatus sets the reservation status without touching the payment status.
func (s *Service) SetStatus(ctx context.Context, id, status string) (reservation.Reservation, error) {
	return s.set(ctx, id, func(r *reservation.Reservation) {
		r.Status = status
	})
}

// SetPaymentStatus sets the payment status without touching the reservation
// status.
func (s *Service) SetPaymentStatus(ctx context.Context, id, paymentStatus string) (reservation.Reservation, error) {
	return s.set(ctx, id, func(r *reservation.Reservation) {
		r.PaymentStatus = paymentStatus
	})
}

func (s *Service) set(ctx context.Context, id string, apply func(*reservation.Reservation)) (reservation.Reservation, error) {
	var updated reservation.Reservation
	err := s.store.Update(ctx, func(doc *storage.Document) error {
		for i := range doc.Reservations {
			if doc.Reservations[i].ID == id {
				apply(&doc.Reservations[i])
				updated = doc.Reservations[i]
				return nil
			}
		}
		return apperrors.NewNotFoundError("reservation", id)
	})
	if err != nil {
		return reservation.Reservation{}, err
	}
	return updated, nil
}

// Delete removes a reservation outright. Deleting an absent id is not an
// error.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(doc *storage.Document) error {
		kept := doc.Reservations[:0]
		for _, r := range doc.Reservations {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		doc.Reservations = kept
		return nil
	})
}
