package preferences

import (
	"context"
	"fmt"

	"github.com/konstantinfoerster/card-printings-go/internal/config"
	"github.com/konstantinfoerster/card-printings-go/internal/postgres"
	"github.com/rs/zerolog/log"
)

// Open creates the store selected by the preferences driver. The returned function releases the
// underlying connection.
func Open(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch driver := cfg.Preferences.DriverOrDefault(); driver {
	case config.DriverMemory:
		return NewMemoryStore(), noop, nil
	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.Preferences.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		store, err := NewSQLiteStore(ctx, db)
		if err != nil {
			cErr := db.Close()
			if cErr != nil {
				log.Error().Err(cErr).Msg("failed to close sqlite database")
			}

			return nil, noop, err
		}
		log.Info().Msgf("preferences are stored in sqlite database %s", cfg.Preferences.SQLitePath)

		return store, db.Close, nil
	case config.DriverPostgres:
		conn, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to the preference database, %w", err)
		}
		store, err := NewPostgresStore(ctx, conn)
		if err != nil {
			if cErr := conn.Close(); cErr != nil {
				log.Error().Err(cErr).Msg("failed to close preference database")
			}

			return nil, noop, err
		}
		log.Info().Msgf("preferences are stored in postgres database %s", cfg.Database.Database)

		return store, conn.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported preferences driver %s", driver)
	}
}
