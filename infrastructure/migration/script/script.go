package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/migration"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/log"
	"github.com/vfg2006/traffic-manager-ads/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Uso: script [projects.json]
//
// Aplica o schema e, quando um arquivo é informado, cadastra ou atualiza os
// projetos listados nele (os rótulos são criados sob demanda pela API).
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Setup(cfg.App.LogLevel, cfg.App.Env)

	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("migration: failed to connect to postgres")
	}
	defer conn.Close()

	var projects []domain.Project
	if len(os.Args) > 1 {
		projects, err = readProjects(os.Args[1])
		if err != nil {
			logrus.WithError(err).Fatal("migration: failed to read projects file")
		}
	}

	startTime := time.Now()

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, migration.Schema); err != nil {
			return errors.Wrap(err, "failed to apply schema")
		}
		logrus.Info("migration: schema applied")

		for i := range projects {
			if err := upsertProject(ctx, tx, &projects[i]); err != nil {
				return errors.Wrapf(err, "failed to seed project %s", projects[i].BusinessID)
			}
			logrus.WithField("business_id", projects[i].BusinessID).Info("migration: project seeded")
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).Fatal("migration: aborted")
	}

	logrus.WithFields(logrus.Fields{
		"projects": len(projects),
		"elapsed":  time.Since(startTime).String(),
	}).Info("migration: finished")
}

func readProjects(path string) ([]domain.Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var projects []domain.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		return nil, errors.Wrap(err, "invalid projects file")
	}

	for _, p := range projects {
		if p.BusinessID == "" || p.AdAccountID == "" || p.PageID == "" {
			return nil, errors.Errorf("project %q requires business_id, ad_account_id and page_id", p.Name)
		}
	}

	return projects, nil
}

func upsertProject(ctx context.Context, tx postgres.Queryer, project *domain.Project) error {
	id, err := utils.GenerateID()
	if err != nil {
		return errors.Wrap(err, "failed to generate id")
	}

	sqlQuery, args, err := squirrel.
		Insert("projects").
		Columns("id", "business_id", "name", "remote_business_id", "ad_account_id", "page_id", "instagram_actor_id", "pixel_id").
		Values(id, project.BusinessID, project.Name, project.RemoteBusinessID, project.AdAccountID, project.PageID,
			project.InstagramActorID, project.PixelID).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			name = EXCLUDED.name,
			remote_business_id = EXCLUDED.remote_business_id,
			ad_account_id = EXCLUDED.ad_account_id,
			page_id = EXCLUDED.page_id,
			instagram_actor_id = EXCLUDED.instagram_actor_id,
			pixel_id = EXCLUDED.pixel_id,
			updated_at = NOW()`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	_, err = tx.ExecContext(ctx, sqlQuery, args...)
	return err
}
