package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/anonto42/nano-social/backend/internal/repositories/mongostore"
	"github.com/anonto42/nano-social/backend/internal/repositories/pgstore"
	"github.com/anonto42/nano-social/backend/pkg/config"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create tables (postgres) or indexes (mongo) for the configured store",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.SetupLogging()

			log.Info("Running migrations...", "store", cfg.StoreBackend)
			switch cfg.StoreBackend {
			case config.BackendPostgres:
				db, err := config.InitPostgres(cfg.PostgresConnStr)
				if err != nil {
					return err
				}
				defer config.ClosePostgres(db)
				if err := pgstore.Migrate(db); err != nil {
					return fmt.Errorf("postgres auto-migration failed: %w", err)
				}
			case config.BackendMongo:
				client, err := config.InitMongo(ctx, cfg.MongoURI)
				if err != nil {
					return err
				}
				defer config.CloseMongo(client)
				if err := mongostore.New(client, cfg.MongoDatabase).EnsureIndexes(ctx); err != nil {
					return err
				}
			default:
				log.Info("Nothing to migrate; Firestore indexes are deployed from firestore.indexes.json.")
				return nil
			}
			log.Info("All migrations completed successfully")
			return nil
		},
	}
}
