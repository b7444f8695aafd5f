package config

import (
	"context"
	"log/slog"

	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/service/kvstore"
	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Cache holds CLI flags for the response cache snapshot store
type Cache struct {
	backend       string
	badgerPath    string
	redisAddr     string
	redisPassword string
	key           string
}

func (x *Cache) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cache-backend",
			Usage:       "Response cache store (memory, badger, redis, firestore)",
			Category:    "Cache",
			Value:       "memory",
			Sources:     cli.EnvVars("DOCFORGE_CACHE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "cache-badger-path",
			Usage:       "Badger directory (in-memory when empty)",
			Category:    "Cache",
			Sources:     cli.EnvVars("DOCFORGE_CACHE_BADGER_PATH"),
			Destination: &x.badgerPath,
		},
		&cli.StringFlag{
			Name:        "cache-redis-addr",
			Usage:       "Redis address (host:port)",
			Category:    "Cache",
			Sources:     cli.EnvVars("DOCFORGE_CACHE_REDIS_ADDR"),
			Destination: &x.redisAddr,
		},
		&cli.StringFlag{
			Name:        "cache-redis-password",
			Usage:       "Redis password",
			Category:    "Cache",
			Sources:     cli.EnvVars("DOCFORGE_CACHE_REDIS_PASSWORD"),
			Destination: &x.redisPassword,
		},
		&cli.StringFlag{
			Name:        "cache-key",
			Usage:       "Key under which the cache snapshot is stored",
			Category:    "Cache",
			Value:       "ai-cache",
			Sources:     cli.EnvVars("DOCFORGE_CACHE_KEY"),
			Destination: &x.key,
		},
	}
}

func (x Cache) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("badger_path", x.badgerPath),
		slog.String("redis_addr", x.redisAddr),
		slog.Int("redis_password.len", len(x.redisPassword)),
		slog.String("key", x.key),
	)
}

func (x *Cache) Key() string {
	return x.key
}

// Configure opens the snapshot store. The firestore backend shares the
// repository's project and database.
func (x *Cache) Configure(ctx context.Context, repo *Repository) (interfaces.KVStore, error) {
	switch x.backend {
	case "", "memory":
		logging.Default().Info("Using in-memory cache store")
		return kvstore.NewMemory(), nil

	case "badger":
		store, err := kvstore.NewBadger(x.badgerPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open badger cache store")
		}
		logging.Default().Info("Using badger cache store", "path", x.badgerPath)
		return store, nil

	case "redis":
		if x.redisAddr == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "cache-redis-addr is required when using redis backend")
		}
		store, err := kvstore.NewRedis(ctx, x.redisAddr, x.redisPassword)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to connect redis cache store")
		}
		logging.Default().Info("Using redis cache store", "addr", x.redisAddr)
		return store, nil

	case "firestore":
		if repo == nil || repo.ProjectID() == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "firestore-project-id is required when using firestore cache backend")
		}
		store, err := kvstore.NewFirestore(ctx, repo.ProjectID(), repo.DatabaseID())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore cache store")
		}
		logging.Default().Info("Using firestore cache store", "project_id", repo.ProjectID())
		return store, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "invalid cache backend", goerr.V(BackendKey, x.backend))
	}
}
