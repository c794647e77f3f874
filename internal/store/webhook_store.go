package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/inspectorhq/webhook-inspector/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (s *PostgresStore) CreateWebhook(ctx context.Context, wh domain.Webhook) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO webhooks (body, headers, query_params)
		VALUES ($1, $2, $3)
		RETURNING id
	`, wh.Body, wh.Headers, wh.QueryParams).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting webhook: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetWebhook(ctx context.Context, id int64) (*domain.Webhook, error) {
	var wh domain.Webhook
	err := s.pool.QueryRow(ctx, `
		SELECT id, body, headers, query_params, received_at
		FROM webhooks WHERE id = $1
	`, id).Scan(
		&wh.ID, &wh.Body, &wh.Headers, &wh.QueryParams, &wh.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying webhook: %w", err)
	}
	return &wh, nil
}

func (s *PostgresStore) ListWebhooks(ctx context.Context) ([]domain.Webhook, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, body, headers, query_params, received_at
		FROM webhooks ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []domain.Webhook
	for rows.Next() {
		var wh domain.Webhook
		err := rows.Scan(&wh.ID, &wh.Body, &wh.Headers, &wh.QueryParams, &wh.ReceivedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning webhook: %w", err)
		}
		webhooks = append(webhooks, wh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating webhooks: %w", err)
	}

	if webhooks == nil {
		webhooks = []domain.Webhook{}
	}

	return webhooks, nil
}
