package store

import (
	"context"

	"github.com/inspectorhq/webhook-inspector/internal/domain"
)

// Store is the storage gateway between request handling and the durable
// record store. Implementations own id assignment: CreateWebhook must be safe
// to call concurrently without lost writes or duplicate ids.
type Store interface {
	// CreateWebhook persists a new record and returns the assigned id.
	// Existing records are never mutated.
	CreateWebhook(ctx context.Context, wh domain.Webhook) (int64, error)

	// ListWebhooks returns every stored record in creation order.
	ListWebhooks(ctx context.Context) ([]domain.Webhook, error)

	// GetWebhook returns the record with the given id, or (nil, nil) when no
	// such record exists. Absence is an expected outcome, not an error.
	GetWebhook(ctx context.Context, id int64) (*domain.Webhook, error)

	Close()
}
