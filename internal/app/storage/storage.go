// Package storage defines the whole-document persistence contract. The
// entire application state is one document read and rewritten wholesale on
// every mutation; there is no partial-field update surface.
package storage

import (
	"context"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/destination"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/reservation"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/user"
)

// Document is the single persisted unit of state.
type Document struct {
	Users        []user.User               `json:"users"`
	Destinations []destination.Destination `json:"destinations"`
	Reservations []reservation.Reservation `json:"reservations"`
}

// Empty returns the fixed default document used when nothing has been
// written yet.
func Empty() Document {
	return Document{
		Users:        []user.User{},
		Destinations: []destination.Destination{},
		Reservations: []reservation.Reservation{},
	}
}

// Clone returns a deep copy of the document so callers can mutate freely
// without aliasing stored state.
func (d Document) Clone() Document {
	out := Document{
		Users:        make([]user.User, len(d.Users)),
		Destinations: make([]destination.Destination, len(d.Destinations)),
		Reservations: make([]reservation.Reservation, len(d.Reservations)),
	}
	copy(out.Users, d.Users)
	copy(out.Reservations, d.Reservations)
	for i, dest := range d.Destinations {
		if len(dest.Reviews) > 0 {
			reviews := make([]destination.Review, len(dest.Reviews))
			copy(reviews, dest.Reviews)
			dest.Reviews = reviews
		}
		out.Destinations[i] = dest
	}
	return out
}

// Store provides read-whole/write-whole access to the document. Read returns
// the last successfully written document or the empty default when none
// exists. Write replaces the document atomically from the caller's
// perspective.
//
// Update serializes a read-modify-write cycle behind the store's lock so two
// concurrent mutations cannot silently drop each other's changes. Mutating
// operations go through Update; Read and Write remain for callers that accept
// last-write-wins.
type Store interface {
	Read(ctx context.Context) (Document, error)
	Write(ctx context.Context, doc Document) error
	Update(ctx context.Context, fn func(doc *Document) error) error
}
