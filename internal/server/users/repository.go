// Package users stores and authenticates backend identities.
package users

import (
	"context"

	"github.com/smolnikov/readhub/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills in its generated id. Uniqueness
	// violations on address or username come back as common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByAddress returns the user for address, or common.ErrorNotFound.
	GetByAddress(ctx context.Context, address string) (*models.User, error)

	// GetByID returns the user for id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
