package utils

import (
	"context"
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"edu-choropleth/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSelfSignedCert(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "certs", "server.crt")
	key := filepath.Join(dir, "certs", "server.key")
	require.NoError(t, EnsureSelfSignedCert(cert, key, "choropleth.local"))
	_, err := tls.LoadX509KeyPair(cert, key)
	require.NoError(t, err)

	before, err := os.ReadFile(cert)
	require.NoError(t, err)
	require.NoError(t, EnsureSelfSignedCert(cert, key, "other"))
	after, err := os.ReadFile(cert)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOpenRedis(t *testing.T) {
	assert.Nil(t, OpenRedis("", "", 0))
	rc := OpenRedis("127.0.0.1:6379", "", 2)
	require.NotNil(t, rc)
	assert.Equal(t, 2, rc.Options().DB)
	_ = rc.Close()
}

func TestOpenRedisFromConfig_Disabled(t *testing.T) {
	assert.Nil(t, OpenRedisFromConfig(context.Background(), config.Redis{}))
}
