package postgres

import (
	"context"
	"io"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/konstantinfoerster/card-printings-go/internal/aio"
	"github.com/konstantinfoerster/card-printings-go/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func NewRunner(tables ...string) *DatabaseRunner {
	return &DatabaseRunner{tables: tables}
}

// DatabaseRunner starts a postgres container with the schema from testdata/db.
type DatabaseRunner struct {
	conn   *DBConnection
	tables []string
}

func (r *DatabaseRunner) Run(t *testing.T, runTests func(t *testing.T)) {
	t.Helper()

	ctx := context.Background()
	err := r.runPostgresContainer(ctx, func(cfg config.Database) (err error) {
		conn, err := Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer aio.CloseWithErr(conn, &err)
		r.conn = conn

		runTests(t)

		return err
	})

	if err != nil {
		t.Fatalf("failed to start container %v", err)
	}
}

func (r *DatabaseRunner) Connection() *DBConnection {
	return r.conn
}

func (r *DatabaseRunner) Cleanup(t *testing.T) func() {
	t.Helper()

	return func() {
		if cErr := r.conn.Truncate(context.Background(), r.tables...); cErr != nil {
			t.Fatalf("failed to cleanup database %v", cErr)
		}
	}
}

func (r *DatabaseRunner) runPostgresContainer(ctx context.Context, f func(c config.Database) error) (err error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("failed to get current dir")
	}

	dbDir, err := filepath.EvalSymlinks(filepath.Join(filepath.Dir(file), "testdata", "db"))
	if err != nil {
		return err
	}

	username := "tester"
	password := "tester"
	database := "cardprintings"

	var initScriptPermissions int64 = 0755
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine3.20",
		ExposedPorts: []string{"5432/tcp"},
		Files: []testcontainers.ContainerFile{
			{
				HostFilePath:      filepath.Join(dbDir, "01-create-tables.sql"),
				ContainerFilePath: "/docker-entrypoint-initdb.d/01-create-tables.sql",
				FileMode:          initScriptPermissions,
			},
		},
		Env: map[string]string{
			"POSTGRES_DB":       database,
			"POSTGRES_USER":     username,
			"POSTGRES_PASSWORD": password,
		},
		// the server restarts once after running the init scripts
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return err
	}
	defer func(toClose testcontainers.Container) {
		if cErr := toClose.Terminate(ctx); cErr != nil && err == nil {
			err = cErr
		}
	}(postgresC)

	if e := log.Debug(); e.Enabled() {
		logs, err := postgresC.Logs(ctx)
		if err != nil {
			return err
		}
		defer aio.Close(logs)

		b, err := io.ReadAll(logs)
		if err != nil {
			return err
		}

		e.Msg(string(b))
	}

	ip, err := postgresC.Host(ctx)
	if err != nil {
		return err
	}

	mappedPort, err := postgresC.MappedPort(ctx, "5432")
	if err != nil {
		return err
	}

	return f(config.Database{
		Username: username,
		Password: password,
		Host:     ip,
		Port:     mappedPort.Port(),
		Database: database,
	})
}
