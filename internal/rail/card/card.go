// Package card implements the simulated card payment rail. No external
// processor is involved: well-formed card details always clear.
package card

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
	"github.com/YaelStO/AlasLatinasNeftify/internal/rail"
)

// Rail simulates a card processor. Submissions are remembered by reference,
// so a retried request returns the original receipt instead of charging
// twice.
type Rail struct {
	mu   sync.Mutex
	seen map[string]rail.Receipt
}

var _ rail.Rail = (*Rail)(nil)

// New creates a simulated card rail.
func New() *Rail {
	return &Rail{seen: make(map[string]rail.Receipt)}
}

// Name identifies the rail.
func (r *Rail) Name() string { return "card" }

// Validate checks the card-shaped payload: 16-digit number, 3-digit CVV and
// an expiry must all be present.
func (r *Rail) Validate(req rail.Request) error {
	if req.Card == nil {
		return apperrors.NewValidationError("card", "card details are required")
	}
	if req.Card.Number == "" || req.Card.Expiry == "" || req.Card.CVV == "" {
		return apperrors.NewValidationError("card", "cardNumber, expiryDate and cvv are required")
	}
	if len(req.Card.Number) != 16 || len(req.Card.CVV) != 3 {
		return apperrors.NewValidationError("card", "card details are invalid")
	}
	if req.Amount <= 0 {
		return apperrors.NewValidationError("amount", "must be positive")
	}
	return nil
}

// Submit simulates processing. A reference seen before returns the original
// receipt.
func (r *Rail) Submit(ctx context.Context, req rail.Request) (rail.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if receipt, ok := r.seen[req.Reference]; ok && req.Reference != "" {
		return receipt, nil
	}

	receipt := rail.Receipt{TransactionID: "pay-" + uuid.NewString()}
	if req.Reference != "" {
		r.seen[req.Reference] = receipt
	}
	return receipt, nil
}
