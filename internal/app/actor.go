package app

import (
	"context"
	"strings"

	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// MutationActor carries normalized caller identity for activity attribution.
type MutationActor struct {
	ActorID   string
	ActorType domain.ActorType
}

// defaultActor is used when a command arrives without caller identity.
var defaultActor = MutationActor{ActorID: "local", ActorType: domain.ActorTypeUser}

// WithMutationActor attaches a normalized mutation actor to context.
func WithMutationActor(ctx context.Context, actor MutationActor) context.Context {
	return context.WithValue(ctx, mutationActorContextKey{}, normalizeMutationActor(actor))
}

// MutationActorFromContext returns the mutation actor when present.
func MutationActorFromContext(ctx context.Context) (MutationActor, bool) {
	actor, ok := ctx.Value(mutationActorContextKey{}).(MutationActor)
	if !ok || actor.ActorID == "" {
		return MutationActor{}, false
	}
	return actor, true
}

// mutationActorContextKey stores context keys for mutation actor metadata.
type mutationActorContextKey struct{}

func actorFromContext(ctx context.Context) MutationActor {
	if actor, ok := MutationActorFromContext(ctx); ok {
		return actor
	}
	return defaultActor
}

func normalizeMutationActor(actor MutationActor) MutationActor {
	actor.ActorID = strings.TrimSpace(actor.ActorID)
	actor.ActorType = domain.NormalizeActorType(actor.ActorType)
	return actor
}
