package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"vet-clinic/internal/platform/apperr"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(_ context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperr.NotFound("pet", p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, apperr.NotFound("pet", id)
	}
	return p, nil
}

func (r *testRepo) ListByClient(_ context.Context, clientID string) ([]Pet, error) {
	out := []Pet{}
	for _, p := range r.byID {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("pet", id)
	}
	delete(r.byID, id)
	return nil
}

type fakeClients map[string]bool

func (f fakeClients) Exists(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

var fixedNow = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	svc := NewService(repo, fakeClients{"client-1": true})
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "pet-1" }
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_RequiresExistingClient(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), Input{ClientID: "ghost", Name: "Toby", Species: "dog"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for unknown client, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("nothing should be persisted")
	}

	p, err := svc.Create(context.Background(), Input{ClientID: "client-1", Name: " Toby ", Species: "DOG"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Toby" || p.Species != SpeciesDog || p.Sex != SexUnknown {
		t.Fatalf("unexpected pet %#v", p)
	}
}

func TestService_Create_Validation(t *testing.T) {
	future := fixedNow.Add(48 * time.Hour)
	cases := map[string]Input{
		"unknown species": {ClientID: "client-1", Name: "Toby", Species: "dragon"},
		"empty name":      {ClientID: "client-1", Name: " ", Species: "cat"},
		"negative weight": {ClientID: "client-1", Name: "Toby", Species: "cat", WeightKg: -1},
		"future birth":    {ClientID: "client-1", Name: "Toby", Species: "cat", BirthDate: &future},
		"bad sex":         {ClientID: "client-1", Name: "Toby", Species: "cat", Sex: "x"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(newTestRepo())
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_UpdateProfile_ClearsBirthDate(t *testing.T) {
	svc := newTestService(newTestRepo())
	bd := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := svc.Create(context.Background(), Input{ClientID: "client-1", Name: "Toby", Species: "dog", BirthDate: &bd})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), p.ID, Patch{BirthDate: BirthDatePatch{Present: true}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.BirthDate != nil {
		t.Fatalf("expected birth date cleared, got %v", updated.BirthDate)
	}

	// sin Present no se toca
	name := "Max"
	again, err := svc.UpdateProfile(context.Background(), p.ID, Patch{Name: &name})
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if again.Name != "Max" || again.Species != SpeciesDog {
		t.Fatalf("unexpected pet %#v", again)
	}
}

func TestService_AddVaccinationAndHistory(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	p, err := svc.Create(context.Background(), Input{ClientID: "client-1", Name: "Toby", Species: "dog"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	at := fixedNow.Add(-24 * time.Hour)
	withVac, err := svc.AddVaccination(context.Background(), p.ID, Vaccination{Name: "Rabia", AdministeredAt: at})
	if err != nil {
		t.Fatalf("add vaccination: %v", err)
	}
	if len(withVac.Vaccinations) != 1 {
		t.Fatalf("expected 1 vaccination, got %d", len(withVac.Vaccinations))
	}

	before := at.Add(-time.Hour)
	_, err = svc.AddVaccination(context.Background(), p.ID, Vaccination{Name: "Rabia", AdministeredAt: at, NextDueAt: &before})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for next due date, got %v", err)
	}

	withHist, err := svc.AddHistoryEntry(context.Background(), p.ID, HistoryEntry{Description: "Control anual"})
	if err != nil {
		t.Fatalf("add history: %v", err)
	}
	if len(withHist.MedicalHistory) != 1 || !withHist.MedicalHistory[0].RecordedAt.Equal(fixedNow) {
		t.Fatalf("unexpected history %#v", withHist.MedicalHistory)
	}
	if len(withHist.Vaccinations) != 1 {
		t.Fatalf("history entry must keep previous vaccinations")
	}
	if len(repo.byID[p.ID].MedicalHistory) != 1 {
		t.Fatalf("history not persisted")
	}
}

func TestService_ListByClient(t *testing.T) {
	svc := newTestService(newTestRepo())
	if _, err := svc.ListByClient(context.Background(), ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.ListByClient(context.Background(), "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	items, err := svc.ListByClient(context.Background(), "client-1")
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty list, got %v %v", items, err)
	}
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(newTestRepo())
	p, _ := svc.Create(context.Background(), Input{ClientID: "client-1", Name: "Toby", Species: "dog"})

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err := svc.Exists(context.Background(), p.ID)
	if err != nil || ok {
		t.Fatalf("expected pet gone, got %v %v", ok, err)
	}
	if err := svc.Delete(context.Background(), p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
