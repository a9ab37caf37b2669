// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valforet/valforet-go/internal/auth"
	"github.com/valforet/valforet-go/internal/model"
)

// Seed creates the initial admin account, the six service offerings and the
// default site configuration when the database is empty. Running it against
// a populated database is a no-op.
func Seed(ctx context.Context, q *Queries, adminEmail, adminPassword string) error {
	users, err := q.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if users > 0 {
		return nil
	}

	now := time.Now().UTC()

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin, err := q.CreateUser(ctx, CreateUserParams{
		Email:        adminEmail,
		PasswordHash: hash,
		Name:         "Administrateur",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	if err := q.SetUserRole(ctx, admin.ID, model.RoleAdmin, now); err != nil {
		return fmt.Errorf("assigning admin role: %w", err)
	}

	services := []CreateServiceParams{
		{Title: "Gestion forestière", Slug: "gestion-forestiere", Icon: model.IconTree,
			Summary: "Plans simples de gestion, suivi sylvicole et valorisation durable de vos parcelles boisées."},
		{Title: "Bornage et délimitation", Slug: "bornage-delimitation", Icon: model.IconMap,
			Summary: "Délimitation contradictoire de propriétés et matérialisation des limites foncières."},
		{Title: "Expertise foncière", Slug: "expertise-fonciere", Icon: model.IconClipboard,
			Summary: "Évaluation de biens ruraux et forestiers, conseil en transactions et successions."},
		{Title: "Études environnementales", Slug: "etudes-environnementales", Icon: model.IconLeaf,
			Summary: "Diagnostics écologiques, dossiers réglementaires et mesures compensatoires."},
		{Title: "Topographie", Slug: "topographie", Icon: model.IconRuler,
			Summary: "Levés topographiques, plans de division et implantations sur le terrain."},
		{Title: "Conseil réglementaire", Slug: "conseil-reglementaire", Icon: model.IconShield,
			Summary: "Accompagnement dans vos démarches administratives et obligations légales."},
	}
	for i, s := range services {
		s.DisplayOrder = int64(i + 1)
		s.Published = true
		s.CreatedAt = now
		s.UpdatedAt = now
		if _, err := q.CreateService(ctx, s); err != nil {
			return fmt.Errorf("creating service %q: %w", s.Slug, err)
		}
	}

	defaults := map[string]string{
		model.ConfigKeySiteName:        model.DefaultSiteName,
		model.ConfigKeySiteDescription: "Cabinet de conseil en gestion foncière et forestière",
		model.ConfigKeyContactEmail:    "contact@valforet.fr",
	}
	for key, value := range defaults {
		if err := q.SetConfig(ctx, SetConfigParams{Key: key, Value: value, UpdatedAt: now}); err != nil {
			return fmt.Errorf("setting config %q: %w", key, err)
		}
	}

	slog.Info("database seeded", "admin", adminEmail, "services", len(services))
	return nil
}
