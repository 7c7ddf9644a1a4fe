package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/konstantinfoerster/card-printings-go/internal/config"
	"github.com/rs/zerolog/log"
)

type DBConnection struct {
	Conn   DBConn
	pgxCon *pgxpool.Pool
}

func Connect(ctx context.Context, cfg config.Database) (*DBConnection, error) {
	c, err := pgxpool.ParseConfig(cfg.ConnectionURL())
	if err != nil {
		return nil, err
	}
	c.MaxConnLifetime = time.Minute * 5
	c.MaxConnIdleTime = time.Second * 30
	c.HealthCheckPeriod = time.Second * 30
	c.MaxConns = cfg.MaxConnectionsOrDefault()
	log.Debug().Msgf("max database connection is set to %d", c.MaxConns)

	pool, err := pgxpool.ConnectConfig(ctx, c)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, err
	}

	return &DBConnection{
		Conn:   pool,
		pgxCon: pool,
	}, nil
}

func (d *DBConnection) Close() error {
	d.pgxCon.Close()

	return nil
}

// Truncate empties the given tables.
func (d *DBConnection) Truncate(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	_, err := d.Conn.Exec(ctx, fmt.Sprintf("TRUNCATE %s", strings.Join(tables, ",")))

	return err
}

// DBConn implemented by pgxpool.Pool and pgx.Tx
type DBConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgx.Row
}
