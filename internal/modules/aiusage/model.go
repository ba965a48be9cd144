package aiusage

import "errors"

// ErrInsufficientTokens is returned when a client has no analyses left for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of analyses granted per month when none is configured.
const DefaultTokens = 100
