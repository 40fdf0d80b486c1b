package payments

import (
	"context"
	"testing"
	"time"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/reservation"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage/document"
	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
	"github.com/YaelStO/AlasLatinasNeftify/internal/rail"
)

type fakeRail struct {
	validateErr error
	submitErr   error
	receipt     rail.Receipt
	requests    []rail.Request
}

func (f *fakeRail) Name() string { return "fake" }

func (f *fakeRail) Validate(req rail.Request) error { return f.validateErr }

func (f *fakeRail) Submit(ctx context.Context, req rail.Request) (rail.Receipt, error) {
	f.requests = append(f.requests, req)
	if f.submitErr != nil {
		return rail.Receipt{}, f.submitErr
	}
	return f.receipt, nil
}

func seedReservation(t *testing.T, store storage.Store, r reservation.Reservation) {
	t.Helper()
	if err := store.Update(context.Background(), func(doc *storage.Document) error {
		doc.Reservations = append(doc.Reservations, r)
		return nil
	}); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
}

func getReservation(t *testing.T, store storage.Store, id string) reservation.Reservation {
	t.Helper()
	doc, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	for _, r := range doc.Reservations {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("reservation %s not found", id)
	return reservation.Reservation{}
}

func TestPayCompletesReservation(t *testing.T) {
	store := document.NewMemoryStore()
	seedReservation(t, store, reservation.Reservation{
		ID:            "res-1",
		UserID:        "user-1",
		Status:        reservation.StatusConfirmed,
		PaymentStatus: reservation.PaymentPending,
		TotalPrice:    1200,
	})
	fake := &fakeRail{receipt: rail.Receipt{TransactionID: "tx-abc"}}
	svc := New(store, fake, Config{}, nil)

	paid, receipt, err := svc.Pay(context.Background(), "res-1", "user-1", Details{})
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if receipt.TransactionID != "tx-abc" {
		t.Fatalf("receipt.TransactionID = %q, want %q", receipt.TransactionID, "tx-abc")
	}
	if paid.PaymentStatus != reservation.PaymentCompleted {
		t.Fatalf("paymentStatus = %q, want %q", paid.PaymentStatus, reservation.PaymentCompleted)
	}
	if paid.TxHash != "tx-abc" {
		t.Fatalf("txHash = %q, want %q", paid.TxHash, "tx-abc")
	}
	if paid.PaymentRef == "" {
		t.Fatal("payment reference was not assigned")
	}
	if len(fake.requests) != 1 {
		t.Fatalf("rail submissions = %d, want 1", len(fake.requests))
	}
	if fake.requests[0].Reference != paid.PaymentRef {
		t.Fatalf("rail reference = %q, want %q", fake.requests[0].Reference, paid.PaymentRef)
	}
	if fake.requests[0].Amount != 1200 {
		t.Fatalf("rail amount = %v, want 1200", fake.requests[0].Amount)
	}
}

func TestPayOwnershipAndExistence(t *testing.T) {
	store := document.NewMemoryStore()
	seedReservation(t, store, reservation.Reservation{
		ID:            "res-1",
		UserID:        "user-1",
		PaymentStatus: reservation.PaymentPending,
	})
	svc := New(store, &fakeRail{}, Config{}, nil)

	_, _, err := svc.Pay(context.Background(), "res-missing", "user-1", Details{})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("Pay(missing) error = %v, want not found", err)
	}

	_, _, err = svc.Pay(context.Background(), "res-1", "user-2", Details{})
	if !apperrors.IsForbidden(err) {
		t.Fatalf("Pay(other user) error = %v, want forbidden", err)
	}
}

func TestPayRejectsDoublePayment(t *testing.T) {
	store := document.NewMemoryStore()
	seedReservation(t, store, reservation.Reservation{
		ID:            "res-1",
		UserID:        "user-1",
		PaymentStatus: reservation.PaymentCompleted,
	})
	fake := &fakeRail{}
	svc := New(store, fake, Config{}, nil)

	_, _, err := svc.Pay(context.Background(), "res-1", "user-1", Details{})
	if !apperrors.IsConflict(err) {
		t.Fatalf("Pay(paid) error = %v, want conflict", err)
	}
	if len(fake.requests) != 0 {
		t.Fatalf("rail submissions = %d, want 0", len(fake.requests))
	}
}

func TestPayValidationHappensBeforeSubmit(t *testing.T) {
	store := document.NewMemoryStore()
	seedReservation(t, store, reservation.Reservation{
		ID:            "res-1",
		UserID:        "user-1",
		PaymentStatus: reservation.PaymentPending,
	})
	fake := &fakeRail{validateErr: apperrors.NewValidationError("cardNumber", "must be 16 digits")}
	svc := New(store, fake, Config{}, nil)

	_, _, err := svc.Pay(context.Background(), "res-1", "user-1", Details{})
	if !apperrors.IsValidation(err) {
		t.Fatalf("Pay() error = %v, want validation", err)
	}
	if len(fake.requests) != 0 {
		t.Fatalf("rail submissions = %d, want 0", len(fake.requests))
	}
}

func TestPayRailFailureLeavesReservationUntouched(t *testing.T) {
	store := document.NewMemoryStore()
	seedReservation(t, store, reservation.Reservation{
		ID:            "res-1",
		UserID:        "user-1",
		Status:        reservation.StatusConfirmed,
		PaymentStatus: reservation.PaymentPending,
	})
	fake := &fakeRail{submitErr: apperrors.NewPaymentError("tx_failed: op_underfunded", nil)}
	svc := New(store, fake, Config{}, nil)

	_, _, err := svc.Pay(context.Background(), "res-1", "user-1", Details{})
	if !apperrors.IsPaymentFailed(err) {
		t.Fatalf("Pay() error = %v, want payment failure", err)
	}

	got := getReservation(t, store, "res-1")
	if got.PaymentStatus != reservation.PaymentPending {
		t.Fatalf("paymentStatus = %q, want %q", got.PaymentStatus, reservation.PaymentPending)
	}
	if got.TxHash != "" {
		t.Fatalf("txHash = %q, want empty", got.TxHash)
	}
	// The reference sticks so a retry reuses it and the rail can de-dup.
	if got.PaymentRef == "" {
		t.Fatal("payment reference should persist across a failed attempt")
	}
}

func TestPayReferenceReusedOnRetry(t *testing.T) {
	store := document.NewMemoryStore()
	seedReservation(t, store, reservation.Reservation{
		ID:            "res-1",
		UserID:        "user-1",
		PaymentStatus: reservation.PaymentPending,
	})
	fake := &fakeRail{submitErr: apperrors.NewPaymentError("timeout", nil)}
	svc := New(store, fake, Config{}, nil)

	if _, _, err := svc.Pay(context.Background(), "res-1", "user-1", Details{}); err == nil {
		t.Fatal("Pay() expected failure")
	}
	first := getReservation(t, store, "res-1").PaymentRef

	fake.submitErr = nil
	fake.receipt = rail.Receipt{TransactionID: "tx-retry"}
	paid, _, err := svc.Pay(context.Background(), "res-1", "user-1", Details{})
	if err != nil {
		t.Fatalf("Pay() retry error = %v", err)
	}
	if paid.PaymentRef != first {
		t.Fatalf("retry reference = %q, want %q", paid.PaymentRef, first)
	}
	if len(fake.requests) != 2 {
		t.Fatalf("rail submissions = %d, want 2", len(fake.requests))
	}
	if fake.requests[0].Reference != fake.requests[1].Reference {
		t.Fatalf("references differ across retry: %q vs %q", fake.requests[0].Reference, fake.requests[1].Reference)
	}
}

func TestPayDoesNotUncancelByDefault(t *testing.T) {
	store := document.NewMemoryStore()
	seedReservation(t, store, reservation.Reservation{
		ID:            "res-1",
		UserID:        "user-1",
		Status:        reservation.StatusCancelled,
		PaymentStatus: reservation.PaymentPending,
	})
	fake := &fakeRail{receipt: rail.Receipt{TransactionID: "tx-1"}}
	svc := New(store, fake, Config{}, nil)

	paid, _, err := svc.Pay(context.Background(), "res-1", "user-1", Details{})
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if paid.Status != reservation.StatusCancelled {
		t.Fatalf("status = %q, want %q", paid.Status, reservation.StatusCancelled)
	}
}

func TestPayConfirmOnPay(t *testing.T) {
	store := document.NewMemoryStore()
	seedReservation(t, store, reservation.Reservation{
		ID:            "res-1",
		UserID:        "user-1",
		Status:        reservation.StatusCancelled,
		PaymentStatus: reservation.PaymentPending,
	})
	fake := &fakeRail{receipt: rail.Receipt{TransactionID: "tx-1"}}
	svc := New(store, fake, Config{ConfirmOnPay: true, RailTimeout: time.Second}, nil)

	paid, _, err := svc.Pay(context.Background(), "res-1", "user-1", Details{})
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if paid.Status != reservation.StatusConfirmed {
		t.Fatalf("status = %q, want %q", paid.Status, reservation.StatusConfirmed)
	}
}
