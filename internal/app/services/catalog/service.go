// Package catalog manages the destination catalog and its reviews.
package catalog

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/destination"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage"
	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

// Service manages destinations.
type Service struct {
	store storage.Store
	log   *logger.Logger
}

// New constructs a catalog service.
func New(store storage.Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Service{store: store, log: log}
}

// List returns destinations in storage order. A non-empty search term keeps
// destinations whose name, location or description contains the term,
// case-insensitively.
func (s *Service) List(ctx context.Context, search string) ([]destination.Destination, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	if search == "" {
		return doc.Destinations, nil
	}

	term := strings.ToLower(search)
	matched := make([]destination.Destination, 0, len(doc.Destinations))
	for _, d := range doc.Destinations {
		if strings.Contains(strings.ToLower(d.Name), term) ||
			strings.Contains(strings.ToLower(d.Location), term) ||
			strings.Contains(strings.ToLower(d.Description), term) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

// Get returns a destination by id.
func (s *Service) Get(ctx context.Context, id string) (destination.Destination, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return destination.Destination{}, err
	}
	for _, d := range doc.Destinations {
		if d.ID == id {
			return d, nil
		}
	}
	return destination.Destination{}, apperrors.NewNotFoundError("destination", id)
}

// CreateInput carries a destination creation request.
type CreateInput struct {
	Name        string
	Location    string
	Address     string
	Description string
	Image       string
	Rating      float64
}

// Create adds a destination. Rating defaults to 5 when unset.
func (s *Service) Create(ctx context.Context, in CreateInput) (destination.Destination, error) {
	if in.Name == "" || in.Location == "" || in.Address == "" || in.Description == "" {
		return destination.Destination{}, apperrors.NewValidationError("", "name, location, address and description are required")
	}

	rating := in.Rating
	if rating == 0 {
		rating = destination.DefaultRating
	}

	dest := destination.Destination{
		ID:          "dest-" + uuid.NewString(),
		Name:        in.Name,
		Location:    in.Location,
		Address:     in.Address,
		Description: in.Description,
		Image:       in.Image,
		Rating:      rating,
		CreatedAt:   time.Now().UTC(),
	}

	err := s.store.Update(ctx, func(doc *storage.Document) error {
		doc.Destinations = append(doc.Destinations, dest)
		return nil
	})
	if err != nil {
		return destination.Destination{}, err
	}

	s.log.WithField("destination_id", dest.ID).Info("destination created")
	return dest, nil
}

// Update applies a partial update. Nil fields are left untouched.
func (s *Service) Update(ctx context.Context, id string, update destination.Update) (destination.Destination, error) {
	var updated destination.Destination
	err := s.store.Update(ctx, func(doc *storage.Document) error {
		for i := range doc.Destinations {
			if doc.Destinations[i].ID != id {
				continue
			}
			d := &doc.Destinations[i]
			if update.Name != nil {
				d.Name = *update.Name
			}
			if update.Location != nil {
				d.Location = *update.Location
			}
			if update.Address != nil {
				d.Address = *update.Address
			}
			if update.Description != nil {
				d.Description = *update.Description
			}
			if update.Image != nil {
				d.Image = *update.Image
			}
			if update.Rating != nil {
				d.Rating = *update.Rating
			}
			updated = *d
			return nil
		}
		return apperrors.NewNotFoundError("destination", id)
	})
	if err != nil {
		return destination.Destination{}, err
	}
	return updated, nil
}

// Delete removes a destination. Deleting an absent id is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(doc *storage.Document) error {
		kept := doc.Destinations[:0]
		for _, d := range doc.Destinations {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		doc.Destinations = kept
		return nil
	})
}

// AddReview appends a review and recomputes the destination's rating as the
// mean of all review ratings, rounded to one decimal place.
func (s *Service) AddReview(ctx context.Context, destinationID, userID, text string, rating float64) (destination.Review, error) {
	review := destination.Review{
		ID:        "comment-" + uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Rating:    rating,
		CreatedAt: time.Now().UTC(),
	}

	err := s.store.Update(ctx, func(doc *storage.Document) error {
		for i := range doc.Destinations {
			if doc.Destinations[i].ID != destinationID {
				continue
			}
			d := &doc.Destinations[i]
			d.Reviews = append(d.Reviews, review)
			d.Rating = meanRating(d.Reviews)
			return nil
		}
		return apperrors.NewNotFoundError("destination", destinationID)
	})
	if err != nil {
		return destination.Review{}, err
	}

	s.log.WithField("destination_id", destinationID).Info("review added")
	return review, nil
}

func meanRating(reviews []destination.Review) float64 {
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(sum/float64(len(reviews))*10) / 10
}
