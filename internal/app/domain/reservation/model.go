package reservation

import "time"

// Reservation status values.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Payment status values. Status and PaymentStatus are independent axes: a
// cancelled reservation keeps its completed payment and is never
// auto-corrected.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Reservation is a booking of a destination by a user. DestinationName is a
// snapshot taken at creation time and does not follow later renames. UserID
// is an ownership reference used only for access-control filtering; storage
// does not enforce it.
type Reservation struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	DestinationID   string    `json:"destinationId"`
	DestinationName string    `json:"destinationName"`
	CheckInDate     string    `json:"checkInDate"`
	CheckOutDate    string    `json:"checkOutDate"`
	TotalPrice      float64   `json:"totalPrice"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"paymentStatus"`
	PaymentRef      string    `json:"paymentRef,omitempty"`
	TxHash          string    `json:"txHash,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
