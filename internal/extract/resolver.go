package extract

import (
	"context"
	"log/slog"

	"github.com/mantle-data/genesys-export/internal/genesys"
)

// Resolver maps wrap-up-code and user identifiers to display values. Both
// lookups degrade to the raw identifier on failure: one unresolvable code or
// agent must not abort an otherwise healthy extraction.
type Resolver interface {
	WrapUpCodeName(ctx context.Context, id string) string
	UserEmail(ctx context.Context, id string) string
}

// lookupResolver resolves against the Genesys API, memoizing per run.
// Resolution is a pure function of the identifier within a run, so repeated
// IDs cost a single remote call.
type lookupResolver struct {
	client *genesys.Client
	logger *slog.Logger

	wrapUpCodes map[string]string
	users       map[string]string
}

func NewResolver(client *genesys.Client, logger *slog.Logger) Resolver {
	return &lookupResolver{
		client:      client,
		logger:      logger,
		wrapUpCodes: make(map[string]string),
		users:       make(map[string]string),
	}
}

func (r *lookupResolver) WrapUpCodeName(ctx context.Context, id string) string {
	if name, ok := r.wrapUpCodes[id]; ok {
		return name
	}
	name, err := r.client.GetWrapUpCode(ctx, id)
	if err != nil {
		r.logger.Warn("wrapup code lookup failed, keeping raw id", "code_id", id, "error", err)
		name = id
	}
	r.wrapUpCodes[id] = name
	return name
}

func (r *lookupResolver) UserEmail(ctx context.Context, id string) string {
	if email, ok := r.users[id]; ok {
		return email
	}
	email, err := r.client.GetUser(ctx, id)
	if err != nil {
		r.logger.Warn("user lookup failed, keeping raw id", "user_id", id, "error", err)
		email = id
	}
	r.users[id] = email
	return email
}
