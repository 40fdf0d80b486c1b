// Package payments drives a reservation's payment transition against an
// external rail.
package payments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/reservation"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage"
	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
	"github.com/YaelStO/AlasLatinasNeftify/internal/rail"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

// Config tunes the payment step.
type Config struct {
	// ConfirmOnPay forces status back to confirmed when a payment completes,
	// overriding a prior cancellation. The original system did this silently
	// in some deployment variants; here it is an explicit switch, off by
	// default.
	ConfirmOnPay bool
	// RailTimeout bounds the external rail call.
	RailTimeout time.Duration
}

// Service executes the payment step.
type Service struct {
	store storage.Store
	rail  rail.Rail
	cfg   Config
	log   *logger.Logger
}

// New constructs a payment service over the given rail.
func New(store storage.Store, r rail.Rail, cfg Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("payments")
	}
	if cfg.RailTimeout <= 0 {
		cfg.RailTimeout = 30 * time.Second
	}
	return &Service{store: store, rail: r, cfg: cfg, log: log}
}

// RailName reports which rail this service submits to.
func (s *Service) RailName() string { return s.rail.Name() }

// Details carries the rail-specific payment details supplied by the caller.
type Details struct {
	Destination   string
	AmountStroops int64
	Card          *rail.Card
}

// Pay transitions a reservation's payment to completed.
//
// Ownership is enforced after existence (NotFound vs Forbidden), a completed
// payment is rejected with Conflict, and the rail details are validated
// before any external call. A payment reference is generated and persisted
// on the reservation before the rail is invoked, so the rail can
// de-duplicate a retry after a timeout. On rail failure the reservation is
// left untouched.
func (s *Service) Pay(ctx context.Context, id, callerUserID string, details Details) (reservation.Reservation, rail.Receipt, error) {
	var (
		res reservation.Reservation
		req rail.Request
	)

	// Phase one: resolve, guard, and persist the payment reference. The
	// store lock is not held across the rail call.
	err := s.store.Update(ctx, func(doc *storage.Document) error {
		for i := range doc.Reservations {
			if doc.Reservations[i].ID != id {
				continue
			}
			r := &doc.Reservations[i]
			if r.UserID != callerUserID {
				return apperrors.NewForbiddenError("reservation belongs to another user")
			}
			if r.PaymentStatus == reservation.PaymentCompleted {
				return apperrors.NewConflictError("reservation already paid")
			}
			if r.PaymentRef == "" {
				r.PaymentRef = uuid.NewString()
			}
			res = *r
			return nil
		}
		return apperrors.NewNotFoundError("reservation", id)
	})
	if err != nil {
		return reservation.Reservation{}, rail.Receipt{}, err
	}

	req = rail.Request{
		Reference:     res.PaymentRef,
		Destination:   details.Destination,
		Amount:        res.TotalPrice,
		AmountStroops: details.AmountStroops,
		Card:          details.Card,
	}
	if err := s.rail.Validate(req); err != nil {
		return reservation.Reservation{}, rail.Receipt{}, err
	}

	railCtx, cancel := context.WithTimeout(ctx, s.cfg.RailTimeout)
	defer cancel()

	receipt, err := s.rail.Submit(railCtx, req)
	if err != nil {
		s.log.WithError(err).
			WithField("reservation_id", id).
			WithField("rail", s.rail.Name()).
			Error("rail submission failed")
		if apperrors.IsPaymentFailed(err) || apperrors.IsValidation(err) {
			return reservation.Reservation{}, rail.Receipt{}, err
		}
		return reservation.Reservation{}, rail.Receipt{}, apperrors.NewPaymentError("payment rail unavailable", err)
	}

	// Phase two: record the completed payment.
	var paid reservation.Reservation
	err = s.store.Update(ctx, func(doc *storage.Document) error {
		for i := range doc.Reservations {
			if doc.Reservations[i].ID != id {
				continue
			}
			r := &doc.Reservations[i]
			r.PaymentStatus = reservation.PaymentCompleted
			r.TxHash = receipt.TransactionID
			if s.cfg.ConfirmOnPay {
				r.Status = reservation.StatusConfirmed
			}
			paid = *r
			return nil
		}
		return apperrors.NewNotFoundError("reservation", id)
	})
	if err != nil {
		// The external transfer went through but the local write failed;
		// surface the failure rather than pretend the operation was clean.
		s.log.WithError(err).
			WithField("reservation_id", id).
			WithField("tx", receipt.TransactionID).
			Error("recording completed payment failed")
		return reservation.Reservation{}, receipt, err
	}

	s.log.WithField("reservation_id", id).
		WithField("rail", s.rail.Name()).
		WithField("tx", receipt.TransactionID).
		Info("payment completed")
	return paid, receipt, nil
}
