// Package bootstrap seeds the baseline records the application expects to
// exist: a root user owning at least one flow.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"kroknodes/internal/models"
	"kroknodes/internal/repository"
)

const (
	// RootUsername is the reserved username of the seeded root user.
	RootUsername = "root"

	rootEmail = "root@krok-mvp.local"
)

// EnsureRootUser guarantees that a user named "root" exists and owns at least
// one flow. It is idempotent: rerunning it against an already-seeded store
// changes nothing. Callers run it exactly once at startup, before the server
// accepts connections.
func EnsureRootUser(ctx context.Context, users repository.UserRepository, flows repository.FlowRepository) error {
	root, err := users.GetByUsername(ctx, RootUsername)
	if err != nil {
		if !models.IsCode(err, models.CodeNotFound) {
			return fmt.Errorf("look up root user: %w", err)
		}

		email := rootEmail
		root, err = users.Create(ctx, &models.UserCreate{
			Username: RootUsername,
			Email:    &email,
		})
		if err != nil {
			return fmt.Errorf("create root user: %w", err)
		}
		slog.Info("created root user", "id", root.ID)

		flow, err := flows.CreateDefault(ctx, root.ID)
		if err != nil {
			return fmt.Errorf("create default flow for root user: %w", err)
		}
		slog.Info("created default flow for root user", "flow_id", flow.FlowID)
		return nil
	}

	slog.Info("root user already exists", "id", root.ID)

	count, err := flows.CountByUser(ctx, root.ID)
	if err != nil {
		return fmt.Errorf("count root user flows: %w", err)
	}
	if count > 0 {
		return nil
	}

	flow, err := flows.CreateDefault(ctx, root.ID)
	if err != nil {
		return fmt.Errorf("create default flow for root user: %w", err)
	}
	slog.Info("created default flow for root user", "flow_id", flow.FlowID)
	return nil
}
