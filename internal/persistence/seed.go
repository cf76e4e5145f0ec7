package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
)

type seedProfile struct {
	name        string
	description string
	permissions domain.PermissionMap
}

type seedUser struct {
	name     string
	username string
	profile  string
}

// SeedDefaults inserts the default profiles and operator accounts when they
// are absent. Default accounts ship with password "123".
func SeedDefaults(ctx context.Context, pool *pgxpool.Pool, bcryptCost int, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping seed data")
		return nil
	}

	profiles := []seedProfile{
		{
			name:        "Administrador",
			description: "Acesso total ao sistema",
			permissions: domain.GrantAll(),
		},
		{
			name:        "Atendente",
			description: "Atendimento de pedidos e chat",
			permissions: domain.PermissionMap{
				domain.PermViewDashboard:     true,
				domain.PermViewOrders:        true,
				domain.PermViewCustomers:     true,
				domain.PermViewMenu:          true,
				domain.PermViewChat:          true,
				domain.PermSendChat:          true,
				domain.PermPrintOrder:        true,
				domain.PermViewOrderTotal:    true,
				domain.PermChangeOrderStatus: true,
			},
		},
		{
			name:        "Entregador",
			description: "Acompanhamento de entregas",
			permissions: domain.PermissionMap{
				domain.PermViewOrders:      true,
				domain.PermViewAddress:     true,
				domain.PermTrackDeliveries: true,
			},
		},
	}

	users := []seedUser{
		{name: "Administrador", username: "admin", profile: "Administrador"},
		{name: "Atendente", username: "atendente", profile: "Atendente"},
		{name: "Entregador", username: "entregador", profile: "Entregador"},
	}

	for _, p := range profiles {
		perms, err := json.Marshal(p.permissions)
		if err != nil {
			return fmt.Errorf("marshal permissions for %s: %w", p.name, err)
		}
		const query = `
            INSERT INTO profiles (name, description, permissions)
            VALUES ($1, $2, $3)
            ON CONFLICT (name) DO NOTHING`
		if _, err := pool.Exec(ctx, query, p.name, p.description, perms); err != nil {
			return fmt.Errorf("seed profile %s: %w", p.name, err)
		}
	}

	hash, err := auth.HashPassword("123", bcryptCost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	for _, u := range users {
		const query = `
            INSERT INTO users (name, username, password_hash, profile_id, active)
            SELECT $1, $2, $3, p.id, TRUE FROM profiles p WHERE p.name = $4
            ON CONFLICT (username) DO NOTHING`
		if _, err := pool.Exec(ctx, query, u.name, u.username, hash, u.profile); err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	logger.Info("seed data ensured",
		zap.Int("profiles", len(profiles)),
		zap.Int("users", len(users)))
	return nil
}
