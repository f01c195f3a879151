package clients

import (
	"context"
	"errors"
)

// ErrNotFound is returned by client stores for unknown client ids. The
// orchestrator maps it to invalid_client; any other store error is
// infrastructure.
var ErrNotFound = errors.New("not found")

type Repo interface {
	Upsert(ctx context.Context, clientData *Client) error
	Delete(ctx context.Context, clientID string) error
	Get(ctx context.Context, clientID string) (*Client, error)
	List(ctx context.Context, offset, limit int) ([]*Client, error)
}
