package ingest_test

import (
	"context"
	"testing"

	"github.com/inspectorhq/webhook-inspector/internal/ingest"
	"github.com/inspectorhq/webhook-inspector/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceive(t *testing.T) {
	ctx := context.Background()

	t.Run("valid JSON is persisted with assigned id", func(t *testing.T) {
		svc := ingest.NewService(store.NewMemory())

		id, err := svc.Receive(ctx, []byte(`{"event":"test","value":123}`),
			map[string]string{"Content-Type": "application/json"},
			map[string]string{"source": "github"},
		)

		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		stored, err := svc.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.JSONEq(t, `{"event":"test","value":123}`, string(stored.Body))
		assert.Equal(t, "application/json", stored.Headers["Content-Type"])
		assert.Equal(t, "github", stored.QueryParams["source"])
	})

	t.Run("invalid UTF-8 is rejected and nothing persisted", func(t *testing.T) {
		svc := ingest.NewService(store.NewMemory())

		_, err := svc.Receive(ctx, []byte{0xff, 0xfe}, nil, nil)

		require.ErrorIs(t, err, ingest.ErrInvalidUTF8)

		webhooks, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, webhooks)
	})

	t.Run("invalid JSON is rejected and nothing persisted", func(t *testing.T) {
		svc := ingest.NewService(store.NewMemory())

		_, err := svc.Receive(ctx, []byte("not json at all"), nil, nil)

		require.ErrorIs(t, err, ingest.ErrInvalidJSON)

		webhooks, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, webhooks)
	})

	t.Run("encoding failure is reported before JSON failure", func(t *testing.T) {
		svc := ingest.NewService(store.NewMemory())

		// Invalid as UTF-8 and therefore also invalid as JSON
		_, err := svc.Receive(ctx, []byte{'{', 0xff, '}'}, nil, nil)

		require.ErrorIs(t, err, ingest.ErrInvalidUTF8)
		assert.NotErrorIs(t, err, ingest.ErrInvalidJSON)
	})

	t.Run("nil maps are stored as empty maps", func(t *testing.T) {
		svc := ingest.NewService(store.NewMemory())

		id, err := svc.Receive(ctx, []byte(`"bare string"`), nil, nil)
		require.NoError(t, err)

		stored, err := svc.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.NotNil(t, stored.Headers)
		assert.NotNil(t, stored.QueryParams)
		assert.Empty(t, stored.Headers)
		assert.Empty(t, stored.QueryParams)
	})

	t.Run("JSON scalars and arrays are accepted", func(t *testing.T) {
		svc := ingest.NewService(store.NewMemory())

		for _, body := range []string{`null`, `true`, `42`, `"text"`, `[1,2,3]`, `{}`} {
			_, err := svc.Receive(ctx, []byte(body), nil, nil)
			require.NoError(t, err, "body %s", body)
		}

		webhooks, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, webhooks, 6)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store yields empty non-nil slice", func(t *testing.T) {
		svc := ingest.NewService(store.NewMemory())

		webhooks, err := svc.List(ctx)

		require.NoError(t, err)
		require.NotNil(t, webhooks)
		assert.Empty(t, webhooks)
	})

	t.Run("records come back in creation order", func(t *testing.T) {
		svc := ingest.NewService(store.NewMemory())

		for i := 0; i < 5; i++ {
			_, err := svc.Receive(ctx, []byte(`{"n":`+string(rune('0'+i))+`}`), nil, nil)
			require.NoError(t, err)
		}

		webhooks, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, webhooks, 5)
		for i, wh := range webhooks {
			assert.Equal(t, int64(i+1), wh.ID)
		}
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("absent id is nil, not an error", func(t *testing.T) {
		svc := ingest.NewService(store.NewMemory())

		wh, err := svc.Get(ctx, 9999)

		require.NoError(t, err)
		assert.Nil(t, wh)
	})
}
