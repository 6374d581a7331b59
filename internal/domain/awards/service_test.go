package awards

import (
	"context"
	"sort"
	"testing"
	"time"

	"vet-clinic/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID map[string]Award
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Award{}} }

func (r *testRepo) Create(_ context.Context, a Award) error {
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(_ context.Context, a Award) error {
	if _, ok := r.byID[a.ID]; !ok {
		return apperr.NotFound("award", a.ID)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Award, error) {
	a, ok := r.byID[id]
	if !ok {
		return Award{}, apperr.NotFound("award", id)
	}
	return a, nil
}

func (r *testRepo) ListByPet(_ context.Context, petID string, onlyValid bool) ([]Award, error) {
	out := []Award{}
	for _, a := range r.byID {
		if a.PetID != petID || (onlyValid && !a.IsValid) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type fakePets map[string]bool

func (f fakePets) Exists(_ context.Context, id string) (bool, error) { return f[id], nil }

var fixedNow = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	svc := NewService(repo, fakePets{"pet-1": true})
	svc.now = func() time.Time { return fixedNow }
	n := 0
	svc.newID = func() string {
		n++
		return "award-" + string(rune('0'+n))
	}
	return svc
}

func TestService_Create(t *testing.T) {
	svc := newTestService(newTestRepo())

	a, err := svc.Create(context.Background(), Input{PetID: "pet-1", Title: "Best in show", Category: "Competition"})
	require.NoError(t, err)
	assert.Equal(t, CategoryCompetition, a.Category)
	assert.True(t, a.IsValid)
	assert.Equal(t, fixedNow, a.AwardedAt)

	_, err = svc.Create(context.Background(), Input{PetID: "ghost", Title: "Best in show"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_Create_Validation(t *testing.T) {
	cases := map[string]Input{
		"short title":      {PetID: "pet-1", Title: "x"},
		"unknown category": {PetID: "pet-1", Title: "Agility", Category: "magic"},
		"future date":      {PetID: "pet-1", Title: "Agility", AwardedAt: fixedNow.Add(time.Hour)},
		"missing pet":      {Title: "Agility"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newTestRepo()
			_, err := newTestService(repo).Create(context.Background(), in)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.Empty(t, repo.byID)
		})
	}
}

func TestService_Revoke_ExcludesFromActive(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	first, err := svc.Create(ctx, Input{PetID: "pet-1", Title: "Agility"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{PetID: "pet-1", Title: "Obedience"})
	require.NoError(t, err)

	revoked, err := svc.Revoke(ctx, first.ID, "  duplicated  ")
	require.NoError(t, err)
	assert.False(t, revoked.IsValid)
	require.NotNil(t, revoked.RevokedAt)
	assert.Equal(t, "duplicated", revoked.RevokeReason)

	active, err := svc.ListActiveByPet(ctx, "pet-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Obedience", active[0].Title)

	all, err := svc.ListByPet(ctx, "pet-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Revoke(ctx, first.ID, "again")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	a, err := svc.Create(ctx, Input{PetID: "pet-1", Title: "Agility"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, a.ID))

	_, err = svc.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), apperr.ErrNotFound)
}
