package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vet-clinic/internal/ports/auth"

	"github.com/stretchr/testify/assert"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return auth.Claims{UserID: "vet-1"}, nil
}

func run(t *testing.T, v auth.AuthVerifier, headers map[string]string) string {
	t.Helper()
	var seen string
	h := AuthContext(v)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, val := range headers {
		req.Header.Set(k, val)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return seen
}

func TestAuthContext_DevHeader(t *testing.T) {
	assert.Equal(t, "dev-1", run(t, nil, map[string]string{DebugUserHeader: " dev-1 "}))
	assert.Equal(t, "", run(t, nil, nil))
}

func TestAuthContext_Verifier(t *testing.T) {
	v := stubVerifier{}
	assert.Equal(t, "vet-1", run(t, v, map[string]string{"Authorization": "Bearer good"}))
	assert.Equal(t, "", run(t, v, map[string]string{"Authorization": "Bearer bad"}))
	assert.Equal(t, "", run(t, v, map[string]string{"Authorization": "Basic good"}))
	// con verifier el header de debug no vale
	assert.Equal(t, "", run(t, v, map[string]string{DebugUserHeader: "dev-1"}))
}
