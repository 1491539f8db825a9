package nonce

import (
	"context"
	"testing"

	"events-backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIsSingleUse(t *testing.T) {
	svc := NewService(cache.NewMemory())
	ctx := context.Background()

	token, err := svc.Issue(ctx, "delete-event", 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ok, err := svc.Verify(ctx, "delete-event", 7, token)
	require.NoError(t, err)
	assert.True(t, ok)

	// Replay fails.
	ok, err = svc.Verify(ctx, "delete-event", 7, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenBoundToActionAndActor(t *testing.T) {
	svc := NewService(cache.NewMemory())
	ctx := context.Background()

	token, err := svc.Issue(ctx, "delete-event", 7)
	require.NoError(t, err)

	ok, err := svc.Verify(ctx, "create-event", 7, token)
	require.NoError(t, err)
	assert.False(t, ok, "token must not be valid for another action")

	ok, err = svc.Verify(ctx, "delete-event", 8, token)
	require.NoError(t, err)
	assert.False(t, ok, "token must not be valid for another actor")

	// Still usable for the pair it was issued to.
	ok, err = svc.Verify(ctx, "delete-event", 7, token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyEmptyToken(t *testing.T) {
	svc := NewService(cache.NewMemory())

	ok, err := svc.Verify(context.Background(), "delete-event", 7, "")
	require.NoError(t, err)
	assert.False(t, ok)
}
