//go:build integration
// +build integration

package app

import (
	"testing"

	"github.com/AastromSecurity/Crypto/internal/domain/keys"
	"github.com/AastromSecurity/Crypto/internal/infrastructure/cryptography"
	"github.com/AastromSecurity/Crypto/internal/infrastructure/persistence"
	"github.com/AastromSecurity/Crypto/internal/pkg/config"
	"github.com/AastromSecurity/Crypto/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	KeyGenerationService keys.KeyGenerationService
	CipherService        keys.CipherService

	// Infrastructure
	DBContext *persistence.TestContext
}

// SetupTestServices initializes the application services over a database key store
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	settings := config.DefaultRSASettings()
	rsaProcessor, err := cryptography.NewDefaultRSAProcessor(&settings, logger)
	require.NoError(t, err, "Failed to create RSA processor")

	keyGenerationService, err := NewKeyGenerationService(rsaProcessor, dbContext.Store, &settings, logger)
	require.NoError(t, err, "Failed to create key generation service")

	cipherService, err := NewCipherService(rsaProcessor, dbContext.Store, logger)
	require.NoError(t, err, "Failed to create cipher service")

	return &TestServices{
		KeyGenerationService: keyGenerationService,
		CipherService:        cipherService,
		DBContext:            dbContext,
	}
}
