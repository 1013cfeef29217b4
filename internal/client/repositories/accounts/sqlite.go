package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smolnikov/readhub/internal/client/models"
	"github.com/smolnikov/readhub/internal/common"
	"github.com/smolnikov/readhub/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert creates or replaces the account row keyed by username. The profile
// is stored as a JSON snapshot; salt and verifier are stored as blobs.
func (r *SQLiteRepository) Upsert(ctx context.Context, account *models.Account) error {
	profile, err := json.Marshal(account.Profile)
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}

	var salt, verifier []byte
	if account.Credential != nil {
		salt = account.Credential.Salt
		verifier = account.Credential.Verifier
	}

	query := `INSERT INTO accounts (username, user_id, display_id, salt, verifier, profile)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			user_id = excluded.user_id,
			display_id = excluded.display_id,
			salt = excluded.salt,
			verifier = excluded.verifier,
			profile = excluded.profile
	`
	_, err = r.db.ExecContext(ctx, query,
		account.Profile.Username, account.Profile.ID, account.Profile.DisplayID, salt, verifier, profile)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

// GetByUsername returns the account stored under username.
func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT salt, verifier, profile FROM accounts WHERE username = ?`, username)
	return scanAccount(row)
}

// GetByID scans the repository for the account whose profile id matches.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT salt, verifier, profile FROM accounts WHERE user_id = ?`, id)
	return scanAccount(row)
}

// DisplayIDExists reports whether any account already carries displayID.
func (r *SQLiteRepository) DisplayIDExists(ctx context.Context, displayID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE display_id = ?`, displayID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check display id: %w", err)
	}
	return n > 0, nil
}

// Delete removes the account row for username, if present.
func (r *SQLiteRepository) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var salt, verifier, profile []byte
	if err := row.Scan(&salt, &verifier, &profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to scan account row: %w", err)
	}

	account := &models.Account{Kind: models.AccountLocalShadow}
	if err := json.Unmarshal(profile, &account.Profile); err != nil {
		return nil, fmt.Errorf("failed to deserialize profile: %w", err)
	}
	if len(salt) > 0 || len(verifier) > 0 {
		account.Credential = &models.CredentialRecord{Salt: salt, Verifier: verifier}
	}
	return account, nil
}
