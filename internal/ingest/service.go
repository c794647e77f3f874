// Package ingest holds the core recording contract: turning an arbitrary
// inbound request into a stored record, and reading records back out. It is
// deliberately schema-agnostic; payload content is recorded, never
// interpreted.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/inspectorhq/webhook-inspector/internal/domain"
	"github.com/inspectorhq/webhook-inspector/internal/store"
)

// Validation failures reported by Receive. Callers match with errors.Is and
// translate to client errors; nothing is persisted when either is returned.
var (
	ErrInvalidUTF8 = errors.New("body is not valid UTF-8")
	ErrInvalidJSON = errors.New("body is not valid JSON")
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Receive validates the raw body and persists it together with the captured
// headers and query parameters, returning the store-assigned id.
//
// Encoding is checked before JSON structure, so a body that is both
// undecodable and unparseable reports the encoding failure.
func (s *Service) Receive(ctx context.Context, body []byte, headers, queryParams map[string]string) (int64, error) {
	if !utf8.Valid(body) {
		return 0, ErrInvalidUTF8
	}
	if !json.Valid(body) {
		return 0, ErrInvalidJSON
	}

	if headers == nil {
		headers = map[string]string{}
	}
	if queryParams == nil {
		queryParams = map[string]string{}
	}

	return s.store.CreateWebhook(ctx, domain.Webhook{
		Body:        json.RawMessage(body),
		Headers:     headers,
		QueryParams: queryParams,
	})
}

// List returns every stored record in creation order. The result is never
// nil, so an empty store serializes as [].
func (s *Service) List(ctx context.Context) ([]domain.Webhook, error) {
	webhooks, err := s.store.ListWebhooks(ctx)
	if err != nil {
		return nil, err
	}
	if webhooks == nil {
		webhooks = []domain.Webhook{}
	}
	return webhooks, nil
}

// Get returns the record with the given id, or (nil, nil) when absent.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Webhook, error) {
	return s.store.GetWebhook(ctx, id)
}
