package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/inspectorhq/webhook-inspector/internal/domain"
)

// MemoryStore keeps records in process memory behind a single mutex. It backs
// the ephemeral deployment mode and the handler tests; records vanish when
// the process exits.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   int64
	webhooks []domain.Webhook
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Close() {}

func (s *MemoryStore) CreateWebhook(_ context.Context, wh domain.Webhook) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	wh.ID = s.nextID
	wh.ReceivedAt = time.Now().UTC()
	s.webhooks = append(s.webhooks, copyWebhook(wh))

	return wh.ID, nil
}

func (s *MemoryStore) ListWebhooks(_ context.Context) ([]domain.Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Webhook, 0, len(s.webhooks))
	for _, wh := range s.webhooks {
		out = append(out, copyWebhook(wh))
	}
	return out, nil
}

func (s *MemoryStore) GetWebhook(_ context.Context, id int64) (*domain.Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, wh := range s.webhooks {
		if wh.ID == id {
			c := copyWebhook(wh)
			return &c, nil
		}
	}
	return nil, nil
}

// copyWebhook deep-copies a record so callers can't mutate stored state.
func copyWebhook(wh domain.Webhook) domain.Webhook {
	wh.Body = slices.Clone(wh.Body)
	wh.Headers = maps.Clone(wh.Headers)
	wh.QueryParams = maps.Clone(wh.QueryParams)
	return wh
}
