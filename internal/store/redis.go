package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/inspectorhq/webhook-inspector/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Key layout: webhooks:next_id holds the id sequence, webhook:{id} a hash
// with the record fields, webhooks:ids a list of ids in creation order.
const (
	redisSeqKey    = "webhooks:next_id"
	redisIDListKey = "webhooks:ids"
	redisHashKey   = "webhook:%d"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedis(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() {
	s.client.Close()
}

func (s *RedisStore) CreateWebhook(ctx context.Context, wh domain.Webhook) (int64, error) {
	// INCR is atomic, so concurrent creates never share an id
	id, err := s.client.Incr(ctx, redisSeqKey).Result()
	if err != nil {
		return 0, fmt.Errorf("assigning webhook id: %w", err)
	}

	headersJSON, err := json.Marshal(wh.Headers)
	if err != nil {
		return 0, fmt.Errorf("marshaling headers: %w", err)
	}
	queryJSON, err := json.Marshal(wh.QueryParams)
	if err != nil {
		return 0, fmt.Errorf("marshaling query params: %w", err)
	}

	hashKey := fmt.Sprintf(redisHashKey, id)
	err = s.client.HSet(ctx, hashKey, map[string]interface{}{
		"id":           id,
		"body":         string(wh.Body),
		"headers":      string(headersJSON),
		"query_params": string(queryJSON),
		"received_at":  time.Now().UTC().Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return 0, fmt.Errorf("storing webhook: %w", err)
	}

	// The record hash is written before the id becomes listable, so a
	// concurrent ListWebhooks never sees a half-created record.
	if err := s.client.RPush(ctx, redisIDListKey, id).Err(); err != nil {
		return 0, fmt.Errorf("appending webhook id: %w", err)
	}

	return id, nil
}

func (s *RedisStore) GetWebhook(ctx context.Context, id int64) (*domain.Webhook, error) {
	fields, err := s.client.HGetAll(ctx, fmt.Sprintf(redisHashKey, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetching webhook: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return webhookFromHash(fields)
}

func (s *RedisStore) ListWebhooks(ctx context.Context) ([]domain.Webhook, error) {
	ids, err := s.client.LRange(ctx, redisIDListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing webhook ids: %w", err)
	}

	webhooks := make([]domain.Webhook, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing webhook id %q: %w", raw, err)
		}
		wh, err := s.GetWebhook(ctx, id)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			continue
		}
		webhooks = append(webhooks, *wh)
	}

	return webhooks, nil
}

func webhookFromHash(fields map[string]string) (*domain.Webhook, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing stored id: %w", err)
	}

	var headers map[string]string
	if err := json.Unmarshal([]byte(fields["headers"]), &headers); err != nil {
		return nil, fmt.Errorf("unmarshaling headers: %w", err)
	}
	var query map[string]string
	if err := json.Unmarshal([]byte(fields["query_params"]), &query); err != nil {
		return nil, fmt.Errorf("unmarshaling query params: %w", err)
	}

	receivedAt, err := time.Parse(time.RFC3339Nano, fields["received_at"])
	if err != nil {
		return nil, fmt.Errorf("parsing received_at: %w", err)
	}

	return &domain.Webhook{
		ID:          id,
		Body:        json.RawMessage(fields["body"]),
		Headers:     headers,
		QueryParams: query,
		ReceivedAt:  receivedAt,
	}, nil
}
