package patients

import (
	"context"
	"errors"
	"testing"
	"time"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/eventbus"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Patient
}

func (r *testRepo) Create(_ context.Context, p Patient) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Patient) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return Patient{}, apperr.NotFound("patient", id)
	}
	return p, nil
}

func (r *testRepo) List(_ context.Context, ownerID string) ([]Patient, error) {
	out := []Patient{}
	for _, p := range r.byID {
		if ownerID == "" || p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type testOwners struct {
	byID map[string]Owner
}

func (r *testOwners) Upsert(_ context.Context, o Owner) error {
	r.byID[o.ID] = o
	return nil
}

func (r *testOwners) GetByID(_ context.Context, id string) (Owner, error) {
	o, ok := r.byID[id]
	if !ok {
		return Owner{}, apperr.NotFound("owner", id)
	}
	return o, nil
}

func (r *testOwners) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("owner", id)
	}
	delete(r.byID, id)
	return nil
}

var fixedNow = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

func newTestService() (*Service, *testRepo, *testOwners) {
	repo := &testRepo{byID: map[string]Patient{}}
	owners := &testOwners{byID: map[string]Owner{}}
	svc := NewService(repo, owners, nil)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "patient-1" }
	return svc, repo, owners
}

func clientEvent(t *testing.T, typ, id, first, email string) eventbus.Event {
	t.Helper()
	e, err := eventbus.New(typ, id, fixedNow, map[string]string{
		"id": id, "firstName": first, "lastName": "Gómez", "email": email,
	})
	if err != nil {
		t.Fatalf("build event: %v", err)
	}
	return e
}

// -------------------------
// Tests
// -------------------------

func TestReplication_CreatedUpdatedDeleted(t *testing.T) {
	svc, _, owners := newTestService()
	d := eventbus.NewDispatcher(nil)
	RegisterEventHandlers(d, svc)
	ctx := context.Background()

	d.Dispatch(ctx, clientEvent(t, EventClientCreated, "c-1", "Ana", "ANA@example.com"))
	o, err := svc.GetOwner(ctx, "c-1")
	if err != nil {
		t.Fatalf("owner not replicated: %v", err)
	}
	if o.FullName != "Ana Gómez" || o.Email != "ana@example.com" {
		t.Fatalf("unexpected owner %#v", o)
	}

	d.Dispatch(ctx, clientEvent(t, EventClientUpdated, "c-1", "Anabel", "ana@example.com"))
	if owners.byID["c-1"].FullName != "Anabel Gómez" {
		t.Fatalf("update not applied: %#v", owners.byID["c-1"])
	}

	d.Dispatch(ctx, clientEvent(t, EventClientDeleted, "c-1", "Anabel", "ana@example.com"))
	if _, err := svc.GetOwner(ctx, "c-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected owner removed, got %v", err)
	}

	// un delete repetido no es error
	if err := svc.HandleClientDeleted(ctx, clientEvent(t, EventClientDeleted, "c-1", "", "")); err != nil {
		t.Fatalf("repeated delete: %v", err)
	}
}

func TestReplication_UpdatedWithoutCreated(t *testing.T) {
	svc, _, owners := newTestService()
	if err := svc.HandleClientUpdated(context.Background(), clientEvent(t, EventClientUpdated, "c-9", "Luis", "l@x.io")); err != nil {
		t.Fatalf("handle updated: %v", err)
	}
	if _, ok := owners.byID["c-9"]; !ok {
		t.Fatalf("expected replica created from update")
	}
}

func TestReplication_MalformedPayload(t *testing.T) {
	svc, _, _ := newTestService()
	e := eventbus.Event{Type: EventClientCreated, Payload: []byte(`{"id":`)}
	if err := svc.HandleClientCreated(context.Background(), e); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_Create_RequiresOwnerReplica(t *testing.T) {
	svc, repo, owners := newTestService()
	ctx := context.Background()
	in := Input{OwnerID: "c-1", Name: "Toby", Species: "Dog", Allergies: []string{" polen ", "Polen", ""}}

	if _, err := svc.Create(ctx, in); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found without replica, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("nothing should be persisted")
	}

	owners.byID["c-1"] = Owner{ID: "c-1"}
	p, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Species != "dog" || p.Status != StatusActive || len(p.Allergies) != 1 || p.Allergies[0] != "polen" {
		t.Fatalf("unexpected patient %#v", p)
	}
}

func TestService_Update(t *testing.T) {
	svc, _, owners := newTestService()
	owners.byID["c-1"] = Owner{ID: "c-1"}
	ctx := context.Background()

	p, err := svc.Create(ctx, Input{OwnerID: "c-1", Name: "Toby", Species: "dog"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	st := "deceased"
	updated, err := svc.Update(ctx, p.ID, Patch{Status: &st})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusDeceased {
		t.Fatalf("unexpected status %s", updated.Status)
	}

	bad := "zombie"
	if _, err := svc.Update(ctx, p.ID, Patch{Status: &bad}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Update(ctx, "missing", Patch{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
