package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies VAULTBOND_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known VAULTBOND_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Wallet ──
	setStr(&cfg.Wallet.PrivateKey, "VAULTBOND_WALLET_PRIVATE_KEY")
	setStr(&cfg.Wallet.KeyfilePath, "VAULTBOND_WALLET_KEYFILE_PATH")
	setStr(&cfg.Wallet.KeyPassword, "VAULTBOND_WALLET_KEY_PASSWORD")

	// ── Chain ──
	setStr(&cfg.Chain.RPCURL, "VAULTBOND_CHAIN_RPC_URL")
	setInt64(&cfg.Chain.ChainID, "VAULTBOND_CHAIN_ID")
	setStr(&cfg.Chain.ContractAddress, "VAULTBOND_CHAIN_CONTRACT_ADDRESS")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "VAULTBOND_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "VAULTBOND_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "VAULTBOND_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "VAULTBOND_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "VAULTBOND_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "VAULTBOND_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "VAULTBOND_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "VAULTBOND_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "VAULTBOND_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "VAULTBOND_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "VAULTBOND_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "VAULTBOND_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "VAULTBOND_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "VAULTBOND_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "VAULTBOND_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "VAULTBOND_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "VAULTBOND_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "VAULTBOND_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "VAULTBOND_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "VAULTBOND_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "VAULTBOND_S3_REGION")
	setStr(&cfg.S3.Bucket, "VAULTBOND_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "VAULTBOND_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "VAULTBOND_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "VAULTBOND_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "VAULTBOND_S3_FORCE_PATH_STYLE")
	setDuration(&cfg.S3.ArchiveInterval, "VAULTBOND_S3_ARCHIVE_INTERVAL")

	// ── Read model ──
	setDuration(&cfg.ReadModel.CacheTTL, "VAULTBOND_READMODEL_CACHE_TTL")

	// ── Server ──
	setInt(&cfg.Server.Port, "VAULTBOND_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "VAULTBOND_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "VAULTBOND_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "VAULTBOND_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "VAULTBOND_SERVER_RATE_WINDOW")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "VAULTBOND_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "VAULTBOND_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "VAULTBOND_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "VAULTBOND_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "VAULTBOND_MODE")
	setStr(&cfg.LogLevel, "VAULTBOND_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
