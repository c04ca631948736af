//go:build integration
// +build integration

package persistence

import (
	"context"
	"math/big"
	"testing"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
	"github.com/AastromSecurity/Crypto/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPairPostgresStore_SaveAndLoad(t *testing.T) {
	ctx := SetupTestDB(t, config.PostgresDbType)
	keyPair := CreateTestKeyPair(t)

	require.NoError(t, ctx.Store.Save(context.Background(), keyPair))

	publicKey, err := ctx.Store.LoadPublicKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, keyPair.N.Cmp(publicKey.N))
	assert.Equal(t, 0, keyPair.E.Cmp(publicKey.E))

	privateKey, err := ctx.Store.LoadPrivateKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, keyPair.D.Cmp(privateKey.D))
}

func TestKeyPairPostgresStore_SaveOverwrites(t *testing.T) {
	ctx := SetupTestDB(t, config.PostgresDbType)

	require.NoError(t, ctx.Store.Save(context.Background(), CreateTestKeyPair(t)))
	require.NoError(t, ctx.Store.Save(context.Background(), &cryptoalg.KeyPair{
		N: big.NewInt(3337),
		E: big.NewInt(79),
		D: big.NewInt(1019),
	}))

	publicKey, err := ctx.Store.LoadPublicKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3337), publicKey.N.Int64())
	assert.Equal(t, int64(79), publicKey.E.Int64())
}

func TestKeyPairPostgresStore_Empty(t *testing.T) {
	ctx := SetupTestDB(t, config.PostgresDbType)

	_, err := ctx.Store.LoadPrivateKey(context.Background())
	assert.ErrorIs(t, err, cryptoalg.ErrMissingKeys)
}
