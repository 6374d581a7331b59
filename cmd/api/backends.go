package main

import (
	"context"
	"database/sql"
	"fmt"

	"vet-clinic/internal/adapters/storage/mongodb"
	"vet-clinic/internal/adapters/storage/postgres"
	"vet-clinic/internal/config"
	"vet-clinic/internal/platform/logger"
	"vet-clinic/internal/router"

	"go.mongodb.org/mongo-driver/mongo"
)

// backends son las conexiones abiertas para el proceso; close las libera todas.
type backends struct {
	stores router.Stores

	mongoClient *mongo.Client
	pg          *sql.DB
}

func openBackends(ctx context.Context, cfg *config.Config, log logger.Logger) (*backends, error) {
	b := &backends{stores: router.MemoryStores()}

	if cfg.Storage == config.StorageMongo || (cfg.Storage == config.StoragePostgres && cfg.MongoURI != "") {
		client, db, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		b.mongoClient = client
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			b.close(ctx)
			return nil, err
		}

		b.stores = router.Stores{
			Clients:        mongodb.NewClientsRepo(db),
			Pets:           mongodb.NewPetsRepo(db),
			Awards:         mongodb.NewAwardsRepo(db),
			Patients:       mongodb.NewPatientsRepo(db),
			Owners:         mongodb.NewOwnersRepo(db),
			MedicalRecords: mongodb.NewMedicalRecordStore(client, db),
			Invoices:       mongodb.NewInvoicesRepo(db),
			Payments:       mongodb.NewPaymentsRepo(db),
		}
		log.Info("mongo connected", map[string]any{"db": cfg.MongoDB})
	}

	// Postgres reemplaza sólo clients/pets/awards.
	if cfg.Storage == config.StoragePostgres {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			b.close(ctx)
			return nil, err
		}
		b.pg = db
		if err := postgres.Migrate(ctx, db); err != nil {
			b.close(ctx)
			return nil, err
		}

		b.stores.Clients = postgres.NewClientsRepo(db)
		b.stores.Pets = postgres.NewPetsRepo(db)
		b.stores.Awards = postgres.NewAwardsRepo(db)
		log.Info("postgres connected", nil)
	}

	log.Info("storage ready", map[string]any{"storage": string(cfg.Storage)})
	return b, nil
}

func (b *backends) ping(ctx context.Context) error {
	if b.mongoClient != nil {
		if err := mongodb.Ping(ctx, b.mongoClient); err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
	}
	if b.pg != nil {
		if err := postgres.Ping(ctx, b.pg); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	return nil
}

func (b *backends) close(ctx context.Context) {
	if b.mongoClient != nil {
		_ = mongodb.Close(ctx, b.mongoClient)
	}
	if b.pg != nil {
		_ = b.pg.Close()
	}
}
