package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_IssueAndVerify(t *testing.T) {
	v := NewVerifier("s3cret", "vet-clinic")

	tok, err := v.Issue("vet-7", "vet@clinic.test", []string{"veterinarian"}, time.Minute)
	require.NoError(t, err)

	c, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "vet-7", c.UserID)
	assert.Equal(t, "vet@clinic.test", c.Email)
	assert.True(t, c.HasRole("veterinarian"))
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("s3cret", "vet-clinic")
	ctx := context.Background()

	_, err := v.Verify(ctx, "  ")
	assert.ErrorIs(t, err, ErrTokenEmpty)

	expired, err := v.Issue("u-1", "", nil, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(ctx, expired)
	assert.Error(t, err)

	other, err := NewVerifier("another", "vet-clinic").Issue("u-1", "", nil, time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(ctx, other)
	assert.Error(t, err)

	wrongIssuer, err := NewVerifier("s3cret", "someone-else").Issue("u-1", "", nil, time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(ctx, wrongIssuer)
	assert.Error(t, err)

	var nilV *Verifier
	_, err = nilV.Verify(ctx, "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
