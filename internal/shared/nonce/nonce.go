package nonce

import (
	"context"
	"fmt"
	"time"

	"events-backend/pkg/cache"

	"github.com/google/uuid"
)

// Service issues single-use action tokens. A token is bound to the action
// name and the actor it was issued to; verifying it consumes it, so a
// replayed request always fails.
type Service struct {
	cache cache.Cache
	ttl   time.Duration
}

const defaultTTL = 10 * time.Minute

// Actions that require a token.
const (
	ActionCreateEvent    = "create-event"
	ActionDeleteEvent    = "delete-event"
	ActionAddTranslation = "add-translation"
)

// KnownAction reports whether tokens may be issued for the named action.
func KnownAction(action string) bool {
	switch action {
	case ActionCreateEvent, ActionDeleteEvent, ActionAddTranslation:
		return true
	}
	return false
}

func NewService(c cache.Cache) *Service {
	return &Service{cache: c, ttl: defaultTTL}
}

func key(action string, actorID int64, token string) string {
	return fmt.Sprintf("nonce:%s:%d:%s", action, actorID, token)
}

// Issue creates a token for one use of the named action by the actor.
func (s *Service) Issue(ctx context.Context, action string, actorID int64) (string, error) {
	token := uuid.NewString()

	if err := s.cache.Set(ctx, key(action, actorID, token), true, s.ttl); err != nil {
		return "", fmt.Errorf("store action token: %w", err)
	}
	return token, nil
}

// Verify consumes the token. It returns true exactly once per issued token;
// unknown, expired, and already-used tokens all return false.
func (s *Service) Verify(ctx context.Context, action string, actorID int64, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	var marker bool
	found, err := s.cache.GetDel(ctx, key(action, actorID, token), &marker)
	if err != nil {
		return false, fmt.Errorf("consume action token: %w", err)
	}
	return found, nil
}
