package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vet-clinic/internal/platform/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Nombres de colecciones.
const (
	colClients       = "clients"
	colPets          = "pets"
	colAwards        = "awards"
	colPatients      = "patients"
	colOwners        = "owners"
	colRecords       = "medical_records"
	colDiagnoses     = "diagnoses"
	colTreatments    = "treatments"
	colPrescriptions = "prescriptions"
	colInvoices      = "invoices"
	colPayments      = "payments"
)

// Open conecta, hace ping y devuelve el cliente y la base. El cliente es único por proceso.
func Open(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	if uri == "" {
		return nil, nil, fmt.Errorf("mongo uri is empty")
	}

	opts := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, 2*time.Second)
	defer pcancel()
	if err := client.Ping(pctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, client.Database(dbName), nil
}

func Close(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// EnsureIndexes es idempotente; se corre al arrancar.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		colClients: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "createdAt", Value: 1}}},
		},
		colPets:     {{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: 1}}}},
		colAwards:   {{Keys: bson.D{{Key: "petId", Value: 1}, {Key: "isValid", Value: 1}, {Key: "awardedAt", Value: -1}}}},
		colPatients: {{Keys: bson.D{{Key: "ownerId", Value: 1}}}},
		colRecords:  {{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "visitDate", Value: -1}}}},
		colDiagnoses: {
			{Keys: bson.D{{Key: "recordId", Value: 1}}},
		},
		colTreatments: {
			{Keys: bson.D{{Key: "recordId", Value: 1}}},
		},
		colPrescriptions: {
			{Keys: bson.D{{Key: "recordId", Value: 1}}},
		},
		colInvoices: {
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		colPayments: {{Keys: bson.D{{Key: "invoiceId", Value: 1}, {Key: "createdAt", Value: 1}}}},
	}

	for col, models := range specs {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", col, err)
		}
	}
	return nil
}

// mapErr traduce errores del driver a la taxonomía de apperr.
func mapErr(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.NotFound(entity, id)
	case mongo.IsDuplicateKeyError(err):
		return apperr.Duplicate("%s %s already exists", entity, id)
	}
	return apperr.Wrap(err, entity+" store")
}

func byID(id string) bson.M {
	return bson.M{"_id": id}
}

// Ping lo usa el comando "store ping" y el health check.
func Ping(ctx context.Context, client *mongo.Client) error {
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(pctx, nil)
}
