package custos

import (
	"context"

	"github.com/xraph/forge"
)

// systemActor is recorded in the audit log when no acting user can be
// determined from the context.
const systemActor = "system"

// actorFromContext extracts the acting user for audit attribution.
// Priority: explicit WithActor, then the Forge-authenticated user,
// then "system" (standalone callers without an actor).
func actorFromContext(ctx context.Context) string {
	if actor := actorValueFromContext(ctx); actor != "" {
		return actor
	}
	if userID := forge.UserIDFromContext(ctx); userID != "" {
		return userID
	}
	return systemActor
}
