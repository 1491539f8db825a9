package actor

import "context"

// Actor is the authenticated principal performing a request.
type Actor struct {
	ID           int64
	Capabilities []string
}

// CanPublish reports whether the actor may create and delete events.
func (a Actor) CanPublish() bool {
	for _, name := range a.Capabilities {
		if name == CapPublishEvents {
			return true
		}
	}
	return false
}

// CapPublishEvents gates every state-changing admin action.
const CapPublishEvents = "publish_events"

// CapManageOptions gates site administration, the schema failure notice
// included.
const CapManageOptions = "manage_options"

type contextKey struct{}

// WithActor attaches the actor to the request context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the actor for ctx. The zero Actor (ID 0) is returned
// when no authentication happened, matching "no current user".
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(contextKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}
