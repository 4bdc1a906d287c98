package app

import (
	"context"
	"fmt"
	"log/slog"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	s3blob "github.com/vaultbond/vaultbond/internal/blob/s3"
	"github.com/vaultbond/vaultbond/internal/cache/redis"
	"github.com/vaultbond/vaultbond/internal/chain"
	"github.com/vaultbond/vaultbond/internal/config"
	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/enc"
	"github.com/vaultbond/vaultbond/internal/notify"
	"github.com/vaultbond/vaultbond/internal/readmodel"
	"github.com/vaultbond/vaultbond/internal/store/postgres"
	"github.com/vaultbond/vaultbond/internal/trade"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Chain   *chain.Client
	Backend enc.Backend

	// Persistence (nil when postgres is disabled)
	TradeStore domain.TradeStore
	AuditStore domain.AuditStore

	// Redis-backed (nil when redis is disabled)
	SnapshotCache domain.SnapshotCache
	SignalBus     domain.SignalBus
	RateLimiter   domain.RateLimiter

	// Object storage (nil when s3 is disabled)
	Archiver *s3blob.Archiver

	Sessions *trade.Manager
	Notifier *notify.Notifier

	// Read models
	Market    *readmodel.MarketStatsAdapter
	Portfolio *readmodel.PortfolioAdapter
	Bonds     *readmodel.BondInfoAdapter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Signing key ---
	keyHex, err := enc.ResolveKey(enc.KeySource{
		RawHex:      cfg.Wallet.PrivateKey,
		KeyfilePath: cfg.Wallet.KeyfilePath,
		Password:    cfg.Wallet.KeyPassword,
	})
	if err != nil {
		// Reads still work without a signer; submissions will resolve as
		// wallet rejections.
		logger.Warn("no signer key configured, running read-only",
			slog.String("reason", err.Error()),
		)
		keyHex = ""
	}

	// --- Chain client ---
	chainClient, err := chain.New(ctx, chain.Config{
		RPCURL:          cfg.Chain.RPCURL,
		ChainID:         cfg.Chain.ChainID,
		ContractAddress: cfg.Chain.ContractAddress,
		PrivateKeyHex:   keyHex,
	}, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: chain: %w", err)
	}
	closers = append(closers, chainClient.Close)
	deps.Chain = chainClient

	// --- Encryption backend ---
	// The placeholder binds artifacts to the signer key. Without one, an
	// ephemeral key keeps the pipeline intact; the chain layer rejects the
	// eventual submission anyway.
	signerKey := chainClient.Key()
	if signerKey == nil {
		signerKey, err = ethcrypto.GenerateKey()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: ephemeral key: %w", err)
		}
	}
	deps.Backend = enc.NewPlaceholder(signerKey)

	// --- PostgreSQL ---
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.TradeStore = postgres.NewTradeStore(pool)
		deps.AuditStore = postgres.NewAuditStore(pool)
	}

	// --- Redis ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.SnapshotCache = redis.NewSnapshotCache(redisClient)
		deps.SignalBus = redis.NewSignalBus(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
	}

	// --- S3 archiver ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		if deps.TradeStore != nil {
			deps.Archiver = s3blob.NewArchiver(s3blob.NewWriter(s3Client), deps.TradeStore, deps.AuditStore)
		}
	}

	// --- Trade sessions ---
	deps.Sessions = trade.NewManager(chainClient, deps.Backend, deps.TradeStore, deps.SignalBus, logger)

	// --- Read models ---
	ttl := cfg.ReadModel.CacheTTL.Duration
	deps.Market = readmodel.NewMarketStatsAdapter(chainClient, deps.SnapshotCache, ttl, logger)
	deps.Portfolio = readmodel.NewPortfolioAdapter(chainClient, deps.SnapshotCache, ttl, logger)
	deps.Bonds = readmodel.NewBondInfoAdapter(chainClient, deps.SnapshotCache, ttl, logger)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
