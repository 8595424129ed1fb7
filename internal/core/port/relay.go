package port

import (
	"context"
	"time"
)

// RelayMessage is the payload forwarded to the external automation endpoint.
type RelayMessage struct {
	SessionID string
	UserID    string
	Text      string
	Timestamp time.Time
}

// RelayClient forwards a chat message to the external relay and returns the
// assistant reply text. Implementations bound the call with a timeout; any
// transport or upstream failure is reported as an error and never retried.
type RelayClient interface {
	Send(ctx context.Context, msg RelayMessage) (string, error)
}
