package db

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/smolnikov/readhub/internal/server/migrations"
	"github.com/smolnikov/readhub/internal/server/profiles"
	"github.com/smolnikov/readhub/internal/server/refreshtokens"
	"github.com/smolnikov/readhub/internal/server/users"
)

type PostgresRepositoryManager struct {
	db *sqlx.DB
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &PostgresRepositoryManager{db: db}, nil
}

func (m *PostgresRepositoryManager) Conn() *sqlx.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users(ext sqlx.ExtContext) users.Repository {
	return users.NewPostgresRepository(ext)
}

func (m *PostgresRepositoryManager) Profiles(ext sqlx.ExtContext) profiles.Repository {
	return profiles.NewPostgresRepository(ext)
}

func (m *PostgresRepositoryManager) RefreshTokens(ext sqlx.ExtContext) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(ext)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db.DB, ".")
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
