package mongodb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"vet-clinic/internal/domain/clients"
	"vet-clinic/internal/domain/medicalrecords"
	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/eventbus"
	"vet-clinic/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Necesitan un Mongo real: MONGO_URI=mongodb://localhost:27017 go test ./...
func openTestDB(t *testing.T) (*MedicalRecordStore, *ClientsRepo) {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	client, db, err := Open(ctx, uri, "vetclinic_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = Close(context.Background(), client)
	})
	require.NoError(t, EnsureIndexes(ctx, db))

	return NewMedicalRecordStore(client, db), NewClientsRepo(db)
}

func TestClientsRepo_DuplicateEmail(t *testing.T) {
	_, repo := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	a, err := clients.New("c-1", clients.Input{FirstName: "Ana", LastName: "Gómez", Email: "ana@example.com", Phone: "+5491122223333"}, now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, a))

	b, err := clients.New("c-2", clients.Input{FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com", Phone: "+5491122224444"}, now)
	require.NoError(t, err)
	err = repo.Create(ctx, b)
	assert.True(t, errors.Is(err, apperr.ErrDuplicate), "got %v", err)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestMedicalRecordStore_SaveAndPopulate(t *testing.T) {
	store, _ := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	saver := medicalrecords.NewSaver(store, eventbus.Discard, logger.Nop())

	rec, err := medicalrecords.New("rec-1", medicalrecords.Input{
		PatientID:      "patient-1",
		VeterinarianID: "vet-1",
		VisitDate:      now,
		Reason:         "Control anual",
	}, now)
	require.NoError(t, err)

	for _, code := range []string{"A01", "B02"} {
		d, err := medicalrecords.NewDiagnosis(medicalrecords.DiagnosisInput{Code: code, Description: "Otitis externa"}, now)
		require.NoError(t, err)
		rec, err = rec.WithDiagnosis(d, now)
		require.NoError(t, err)
	}

	saved, err := saver.Save(ctx, rec)
	require.NoError(t, err)
	require.Len(t, saved.DiagnosisIDs, 2)

	got, err := store.GetByID(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, got.Diagnoses, 2)
	assert.Equal(t, "A01", got.Diagnoses[0].Code)
	assert.Equal(t, "B02", got.Diagnoses[1].Code)

	require.NoError(t, store.Delete(ctx, "rec-1"))
	_, err = store.GetByID(ctx, "rec-1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
