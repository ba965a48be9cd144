package aiusage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// tokenStore is the persistence used by Service; *Store implements it.
type tokenStore interface {
	UseToken(ctx context.Context, uid string) error
	EnsureUser(ctx context.Context, uid string) error
	Remaining(ctx context.Context, uid string) (int, error)
}

// Service orchestrates the per-client analysis allowance.
type Service struct {
	store tokenStore
}

// NewService creates a Service backed by the given store.
func NewService(store tokenStore) *Service {
	return &Service{store: store}
}

// UseToken deducts one analysis from the client's monthly allowance.
// If the client row does not exist yet it is initialised and the token is immediately consumed.
// Returns ErrInsufficientTokens when the quota for the current month is exhausted.
func (s *Service) UseToken(ctx context.Context, uid string) error {
	err := s.store.UseToken(ctx, uid)
	if !errors.Is(err, ErrInsufficientTokens) {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid); initErr != nil {
		return initErr
	}
	return s.store.UseToken(ctx, uid)
}

// Remaining reports how many analyses uid may still run this month.
func (s *Service) Remaining(ctx context.Context, uid string) (int, error) {
	return s.store.Remaining(ctx, uid)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
