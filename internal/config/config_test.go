package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_DefaultsToMemoryInDev(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "vet_clinic", cfg.MongoDB)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
}

func TestLoad_InfersMongoFromURI(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"memory dev", Config{Port: "8080", Storage: StorageMemory}, true},
		{"mongo without uri", Config{Port: "8080", Storage: StorageMongo}, false},
		{"postgres without dsn", Config{Port: "8080", Storage: StoragePostgres}, false},
		{"unknown storage", Config{Port: "8080", Storage: "cassandra"}, false},
		{"prod without secret", Config{Port: "8080", Storage: StorageMemory, Env: "production"}, false},
		{"prod with secret", Config{Port: "8080", Storage: StorageMemory, Env: "production", JWTSecret: "s"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
