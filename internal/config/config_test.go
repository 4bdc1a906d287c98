package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.Chain.ContractAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	return cfg
}

func TestDefaultsValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "banana"
	cfg.Chain.RPCURL = ""
	cfg.Redis.PoolSize = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "rpc_url")
	assert.Contains(t, err.Error(), "pool_size")
}

func TestValidateKeyfileNeedsPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Wallet.KeyfilePath = "/etc/vaultbond/key.json"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key_password")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VAULTBOND_CHAIN_RPC_URL", "https://rpc.example.test")
	t.Setenv("VAULTBOND_CHAIN_ID", "11155111")
	t.Setenv("VAULTBOND_SERVER_CORS_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("VAULTBOND_READMODEL_CACHE_TTL", "90s")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, "https://rpc.example.test", cfg.Chain.RPCURL)
	assert.Equal(t, int64(11155111), cfg.Chain.ChainID)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 90*time.Second, cfg.ReadModel.CacheTTL.Duration)
}

func TestRedactedConfigHidesSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Wallet.PrivateKey = "deadbeef"
	cfg.Postgres.Password = "hunter2"
	cfg.Server.APIKey = "key"

	red := RedactedConfig(&cfg)

	assert.Equal(t, "***", red.Wallet.PrivateKey)
	assert.Equal(t, "***", red.Postgres.Password)
	assert.Equal(t, "***", red.Server.APIKey)
	assert.Equal(t, "deadbeef", cfg.Wallet.PrivateKey, "original stays intact")
}
