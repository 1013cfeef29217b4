// Package db wires the server repositories to a database handle.
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/smolnikov/readhub/internal/server/profiles"
	"github.com/smolnikov/readhub/internal/server/refreshtokens"
	"github.com/smolnikov/readhub/internal/server/users"
)

// RepositoryManager hands out repositories bound to a handle. Passing a
// *sqlx.Tx binds the repository to that transaction; passing the manager's
// own connection binds it to the pool.
type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sqlx.DB
	Users(ext sqlx.ExtContext) users.Repository
	Profiles(ext sqlx.ExtContext) profiles.Repository
	RefreshTokens(ext sqlx.ExtContext) refreshtokens.Repository
	Close() error
}
