package services

import (
	"context"
	"fmt"

	"github.com/smolnikov/readhub/internal/client/models"
	"github.com/smolnikov/readhub/internal/netx"
)

// Media kinds accepted by the backend.
const (
	MediaKindAvatar = "avatar"
	MediaKindCover  = "cover"
)

// UploadMedia asks the backend for a presigned URL, PUTs the image bytes
// there and stores the resulting public URL on the profile. Returns the
// public URL. Only remote accounts can upload media.
func (s *AuthService) UploadMedia(ctx context.Context, kind string, contentType string, data []byte) (string, error) {
	if _, err := s.requireSession(); err != nil {
		return "", err
	}
	if !s.kind.PersistsRemotely() {
		return "", fmt.Errorf("media uploads need an online account")
	}
	if kind != MediaKindAvatar && kind != MediaKindCover {
		return "", fmt.Errorf("unknown media kind: %s", kind)
	}

	uploadURL, publicURL, err := s.backend.MediaUploadURL(ctx, kind)
	if err != nil {
		return "", err
	}

	if err := netx.UploadToPresignedURL(uploadURL, contentType, data); err != nil {
		return "", err
	}

	patch := &models.ProfilePatch{}
	if kind == MediaKindAvatar {
		patch.AvatarURL = models.Ptr(publicURL)
	} else {
		patch.CoverImageURL = models.Ptr(publicURL)
	}
	if err := s.UpdateProfile(ctx, patch); err != nil {
		return "", err
	}

	return publicURL, nil
}
