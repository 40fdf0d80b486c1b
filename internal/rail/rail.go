// Package rail abstracts the external payment-submission mechanism invoked
// by the payment step. A rail receives a destination and an amount and
// returns a transaction id or a failure; everything else about the rail is
// outside this system's control.
package rail

import "context"

// Card carries the card-shaped details consumed by the simulated rail.
type Card struct {
	Number string `json:"cardNumber"`
	Expiry string `json:"expiryDate"`
	CVV    string `json:"cvv"`
}

// Request is a single payment submission. Reference is a server-assigned
// idempotency key generated before the rail call, so a retry after a timeout
// can be de-duplicated by the rail. Amount is the reservation price used by
// the card rail; AmountStroops is the native-asset amount used by the
// Stellar rail.
type Request struct {
	Reference     string
	Destination   string
	Amount        float64
	AmountStroops int64
	Card          *Card
}

// Receipt is a successful rail submission.
type Receipt struct {
	TransactionID string
	Ledger        int32
}

// Rail submits payments to an external processor. Submit may block on
// network I/O and may fail for reasons outside this system's control;
// callers bound the wait with the context deadline.
type Rail interface {
	Name() string
	// Validate checks that the request's details are well-formed for this
	// rail before any external call is made.
	Validate(req Request) error
	Submit(ctx context.Context, req Request) (Receipt, error)
}
