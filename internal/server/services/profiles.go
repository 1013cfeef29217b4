package services

import (
	"context"

	"github.com/smolnikov/readhub/internal/server/models"
	"github.com/smolnikov/readhub/internal/server/shared/db"
)

// ProfileService reads and writes the profile and privacy tables.
type ProfileService struct {
	manager db.RepositoryManager
}

func NewProfileService(manager db.RepositoryManager) *ProfileService {
	return &ProfileService{manager: manager}
}

// Get returns the user, profile and privacy records for userID.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, *models.ProfileRecord, *models.PrivacyRecord, error) {
	conn := s.manager.Conn()

	user, err := s.manager.Users(conn).GetByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	profile, err := s.manager.Profiles(conn).GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	privacy, err := s.manager.Profiles(conn).GetPrivacy(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	return user, profile, privacy, nil
}

// SaveProfile replaces the profile row.
func (s *ProfileService) SaveProfile(ctx context.Context, record *models.ProfileRecord) error {
	return s.manager.Profiles(s.manager.Conn()).SaveProfile(ctx, record)
}

// SavePrivacy replaces the privacy row.
func (s *ProfileService) SavePrivacy(ctx context.Context, record *models.PrivacyRecord) error {
	return s.manager.Profiles(s.manager.Conn()).SavePrivacy(ctx, record)
}
