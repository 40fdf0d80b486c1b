// Package identity registers and authenticates users and manages their
// profiles.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/user"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage"
	"github.com/YaelStO/AlasLatinasNeftify/internal/auth"
	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

const bcryptCost = 10

// Service manages user accounts and credentials.
type Service struct {
	store  storage.Store
	tokens *auth.Tokens
	log    *logger.Logger
}

// New constructs an identity service.
func New(store storage.Store, tokens *auth.Tokens, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("identity")
	}
	return &Service{store: store, tokens: tokens, log: log}
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	BirthDate string
	Gender    string
}

// Register creates an account and issues a credential. Email uniqueness is
// an exact, case-sensitive match against existing users, checked only here.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.Public, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return user.Public{}, "", apperrors.NewValidationError("", "name, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return user.Public{}, "", err
	}

	newUser := user.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hash),
		Phone:     in.Phone,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
		CreatedAt: time.Now().UTC(),
	}

	err = s.store.Update(ctx, func(doc *storage.Document) error {
		for _, u := range doc.Users {
			if u.Email == in.Email {
				return apperrors.NewConflictError("email already registered")
			}
		}
		doc.Users = append(doc.Users, newUser)
		return nil
	})
	if err != nil {
		return user.Public{}, "", err
	}

	credential, err := s.tokens.Issue(newUser.ID, newUser.Email)
	if err != nil {
		return user.Public{}, "", err
	}

	s.log.WithField("user_id", newUser.ID).Info("user registered")
	return newUser.Public(), credential, nil
}

// Authenticate verifies an email/password pair and issues a credential. The
// failure message is uniform so callers cannot probe which emails exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (user.Public, string, error) {
	if email == "" || password == "" {
		return user.Public{}, "", apperrors.NewValidationError("", "email and password are required")
	}

	doc, err := s.store.Read(ctx)
	if err != nil {
		return user.Public{}, "", err
	}

	var found *user.User
	for i := range doc.Users {
		if doc.Users[i].Email == email {
			found = &doc.Users[i]
			break
		}
	}
	if found == nil {
		return user.Public{}, "", apperrors.NewUnauthorizedError("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(password)) != nil {
		return user.Public{}, "", apperrors.NewUnauthorizedError("invalid email or password")
	}

	credential, err := s.tokens.Issue(found.ID, found.Email)
	if err != nil {
		return user.Public{}, "", err
	}

	s.log.WithField("user_id", found.ID).Info("user authenticated")
	return found.Public(), credential, nil
}

// Verify checks a credential and returns its embedded identity. It does not
// re-check that the user still exists; callers needing current data fetch by
// id and treat absence as NotFound, distinct from a bad credential.
func (s *Service) Verify(credential string) (auth.Identity, error) {
	return s.tokens.Verify(credential)
}

// GetProfile returns the public projection of a user.
func (s *Service) GetProfile(ctx context.Context, id string) (user.Public, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return user.Public{}, err
	}
	for _, u := range doc.Users {
		if u.ID == id {
			return u.Public(), nil
		}
	}
	return user.Public{}, apperrors.NewNotFoundError("user", id)
}

// UpdateProfile applies a partial update. Nil fields are left untouched; a
// new password is re-hashed before storage.
func (s *Service) UpdateProfile(ctx context.Context, id string, update user.Update) (user.Public, error) {
	var updated user.User
	err := s.store.Update(ctx, func(doc *storage.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID != id {
				continue
			}
			u := &doc.Users[i]
			if update.Name != nil {
				u.Name = *update.Name
			}
			if update.Email != nil {
				u.Email = *update.Email
			}
			if update.Phone != nil {
				u.Phone = *update.Phone
			}
			if update.Password != nil {
				hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcryptCost)
				if err != nil {
					return err
				}
				u.Password = string(hash)
			}
			updated = *u
			return nil
		}
		return apperrors.NewNotFoundError("user", id)
	})
	if err != nil {
		return user.Public{}, err
	}

	s.log.WithField("user_id", id).Info("profile updated")
	return updated.Public(), nil
}

// LinkWallet stores a wallet address on the user.
func (s *Service) LinkWallet(ctx context.Context, id, address string) (user.Public, error) {
	if strings.TrimSpace(address) == "" {
		return user.Public{}, apperrors.NewValidationError("walletAddress", "is required")
	}

	var updated user.User
	err := s.store.Update(ctx, func(doc *storage.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == id {
				doc.Users[i].WalletAddress = address
				updated = doc.Users[i]
				return nil
			}
		}
		return apperrors.NewNotFoundError("user", id)
	})
	if err != nil {
		return user.Public{}, err
	}

	s.log.WithField("user_id", id).Info("wallet linked")
	return updated.Public(), nil
}

// DeleteAccount removes the user record. Reservations owned by the user are
// deliberately left in place; they remain addressable by id only.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(doc *storage.Document) error {
		kept := doc.Users[:0]
		for _, u := range doc.Users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		doc.Users = kept
		return nil
	})
	if err != nil {
		return err
	}
	s.log.WithField("user_id", id).Info("account deleted")
	return nil
}
