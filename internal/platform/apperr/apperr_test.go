package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := NotFound("client", "c-1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))

	wrapped := fmt.Errorf("lookup: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestWrap_KeepsTaxonomyErrors(t *testing.T) {
	dup := Duplicate("email already registered")
	assert.Same(t, dup, Wrap(dup, "create client"))

	raw := errors.New("connection reset")
	w := Wrap(raw, "create client")
	assert.True(t, errors.Is(w, ErrInternal))
	assert.True(t, errors.Is(w, raw))
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		Validation("bad"):           http.StatusBadRequest,
		NotFound("pet", "p-1"):      http.StatusNotFound,
		Duplicate("dup"):            http.StatusConflict,
		errors.New("boom"):          http.StatusInternalServerError,
		Wrap(errors.New("x"), "op"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
}

func TestPublicMessage_HidesInternalDetails(t *testing.T) {
	assert.Equal(t, "internal error", PublicMessage(Wrap(errors.New("dial tcp 10.0.0.1"), "ping")))
	assert.Equal(t, "pet p-1 not found", PublicMessage(NotFound("pet", "p-1")))
}
