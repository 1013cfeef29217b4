package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smolnikov/readhub/internal/common"
	"github.com/smolnikov/readhub/internal/server/models"
)

type PostgresRepository struct {
	db sqlx.ExtContext
}

func NewPostgresRepository(db sqlx.ExtContext) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateDefaults(ctx context.Context, userID string) error {

	query :=
		`INSERT INTO profiles (user_id)
         VALUES ($1)
		 `
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	query =
		`INSERT INTO privacy_settings (user_id, comments_global)
         VALUES ($1, TRUE)
		 `
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*models.ProfileRecord, error) {
	query :=
		`SELECT user_id, first_name, last_name, bio, avatar_url, cover_image_url,
		        subscriptions, subscribers, blocked_users, published_books, updated_at
		 FROM profiles
		 WHERE user_id = $1
		 `

	record := &models.ProfileRecord{}
	if err := sqlx.GetContext(ctx, r.db, record, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return record, nil
}

func (r *PostgresRepository) SaveProfile(ctx context.Context, record *models.ProfileRecord) error {
	query :=
		`UPDATE profiles
		 SET first_name = $2, last_name = $3, bio = $4, avatar_url = $5,
		     cover_image_url = $6, subscriptions = $7, subscribers = $8,
		     blocked_users = $9, published_books = $10, updated_at = now()
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		record.UserID, record.FirstName, record.LastName, record.Bio,
		record.AvatarURL, record.CoverImageURL, record.Subscriptions,
		record.Subscribers, record.BlockedUsers, record.PublishedBooks)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return checkAffected(res)
}

func (r *PostgresRepository) GetPrivacy(ctx context.Context, userID string) (*models.PrivacyRecord, error) {
	query :=
		`SELECT user_id, hide_subscriptions, prevent_copying, comments_global,
		        comments_per_book, updated_at
		 FROM privacy_settings
		 WHERE user_id = $1
		 `

	record := &models.PrivacyRecord{}
	if err := sqlx.GetContext(ctx, r.db, record, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return record, nil
}

func (r *PostgresRepository) SavePrivacy(ctx context.Context, record *models.PrivacyRecord) error {
	query :=
		`UPDATE privacy_settings
		 SET hide_subscriptions = $2, prevent_copying = $3, comments_global = $4,
		     comments_per_book = $5, updated_at = now()
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		record.UserID, record.HideSubscriptions, record.PreventCopying,
		record.CommentsGlobal, record.CommentsPerBook)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
