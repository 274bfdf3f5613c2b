package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/GoSim-25-26J-441/price-bati-backend/config"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/store"
)

// OpenStore opens the record store selected by STORE_BACKEND.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	collection := cfg.Store.Collection

	switch cfg.Store.Backend {
	case config.BackendFirestore:
		s, err := store.OpenFirestore(ctx, store.FirestoreOptions{
			CredentialsPath: cfg.Firebase.CredentialsPath,
			ProjectID:       cfg.Firebase.ProjectID,
			Collection:      collection,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("collection", collection).Msg("connected to firestore")
		return s, nil

	case config.BackendRedis:
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		s, err := store.OpenRedis(cctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, collection)
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Str("collection", collection).Msg("connected to redis")
		return s, nil

	case config.BackendPostgres:
		s, err := store.OpenPostgres(ctx, store.PostgresOptions{
			DSN:        cfg.Database.DSN,
			Collection: collection,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("table", collection).Msg("connected to postgres")
		return s, nil

	case config.BackendMemory:
		log.Warn().Msg("using in-memory record store, data is lost on restart")
		return store.NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
