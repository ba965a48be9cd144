// README: Analysis records, sentinel errors and storage contracts.
package analysis

import (
	"context"
	"errors"
	"time"

	"ecoroute/internal/trip"
)

var (
	ErrNotFound        = errors.New("analysis not found")
	ErrHistoryDisabled = errors.New("analysis history is not configured")
	ErrQuotaDisabled   = errors.New("analysis quota is not configured")
)

// FailureMessage is the only detail a user sees when an analysis cannot be produced.
const FailureMessage = "Ocorreu um erro ao analisar a rota. Por favor, tente novamente."

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
	AnonymousClient     = "anonymous"
)

// Record is one successful analysis together with the form that produced it.
type Record struct {
	ID        string             `json:"id"`
	ClientID  string             `json:"clientId"`
	Request   trip.Request       `json:"request"`
	Analysis  trip.RouteAnalysis `json:"analysis"`
	CreatedAt time.Time          `json:"createdAt"`
}

// History persists every successful analysis.
type History interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (*Record, error)
	ListByClient(ctx context.Context, clientID string, limit int) ([]Record, error)
}

// LatestSlot holds the most recent successful analysis per client. A Set replaces the
// previous value entirely.
type LatestSlot interface {
	Set(ctx context.Context, rec Record) error
	Get(ctx context.Context, clientID string) (*Record, error)
}

// Quota gates each analysis on the client's allowance.
type Quota interface {
	UseToken(ctx context.Context, uid string) error
	Remaining(ctx context.Context, uid string) (int, error)
}
