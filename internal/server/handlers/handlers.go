// Package handlers exposes the identity backend's JSON API over echo.
package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smolnikov/readhub/internal/common"
	"github.com/smolnikov/readhub/internal/logging"
	"github.com/smolnikov/readhub/internal/server/config"
	"github.com/smolnikov/readhub/internal/server/services"
)

type Handlers struct {
	users     *services.UserService
	profiles  *services.ProfileService
	media     *services.MediaService
	secretKey []byte
	logger    logging.Logger
}

func New(users *services.UserService, profiles *services.ProfileService, media *services.MediaService, cfg *config.Config, logger logging.Logger) *Handlers {
	return &Handlers{
		users:     users,
		profiles:  profiles,
		media:     media,
		secretKey: []byte(cfg.SecretKey),
		logger:    logger,
	}
}

// Register mounts all API routes on e.
func (h *Handlers) Register(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/ping", h.ping)
	api.POST("/register", h.register)
	api.GET("/salt", h.getSalt)
	api.POST("/login", h.login)
	api.POST("/token/refresh", h.refreshToken)

	authed := api.Group("", h.requireAuth)
	authed.POST("/logout", h.logout)
	authed.GET("/users/:id/profile", h.getProfile)
	authed.PUT("/users/:id/profile", h.saveProfile)
	authed.GET("/users/:id/privacy", h.getPrivacy)
	authed.PUT("/users/:id/privacy", h.savePrivacy)
	authed.POST("/media/upload-url", h.mediaUploadURL)
}

func (h *Handlers) ping(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *Handlers) register(c echo.Context) error {
	req := &registerRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request"})
	}
	if req.Address == "" || req.Username == "" || len(req.Salt) == 0 || len(req.Verifier) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "missing required fields"})
	}

	ctx := c.Request().Context()
	user, pair, err := h.users.Register(ctx, req.Address, req.Username, req.DisplayID, req.Salt, req.Verifier)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return c.JSON(http.StatusConflict, errorResponse{Error: common.ErrorAlreadyExists.Error()})
		}
		h.logger.Error(ctx, "registration failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}

	h.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return c.JSON(http.StatusOK, identityResponse{
		UserID:       user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handlers) getSalt(c echo.Context) error {
	address := c.QueryParam("address")
	if address == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "missing address"})
	}

	salt, err := h.users.GetSalt(c.Request().Context(), address)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}

	return c.JSON(http.StatusOK, saltResponse{Salt: salt})
}

func (h *Handlers) login(c echo.Context) error {
	req := &loginRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request"})
	}

	ctx := c.Request().Context()
	userID, pair, err := h.users.Login(ctx, req.Address, req.Verifier)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: common.ErrorUnauthorized.Error()})
		}
		h.logger.Error(ctx, "login failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}

	return c.JSON(http.StatusOK, identityResponse{
		UserID:       userID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handlers) refreshToken(c echo.Context) error {
	req := &refreshRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request"})
	}

	pair, err := h.users.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: common.ErrRefreshTokenExpired.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}

	return c.JSON(http.StatusOK, identityResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handlers) logout(c echo.Context) error {
	if err := h.users.Logout(c.Request().Context(), authUserID(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handlers) getProfile(c echo.Context) error {
	ctx := c.Request().Context()

	user, profile, privacy, err := h.profiles.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: common.ErrorNotFound.Error()})
		}
		h.logger.Error(ctx, "profile read failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}

	return c.JSON(http.StatusOK, buildProfileDoc(user, profile, privacy))
}

func (h *Handlers) saveProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID != authUserID(c) {
		return c.JSON(http.StatusForbidden, errorResponse{Error: "profile belongs to another user"})
	}

	doc := &profileDoc{}
	if err := c.Bind(doc); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request"})
	}

	ctx := c.Request().Context()
	if err := h.profiles.SaveProfile(ctx, doc.toProfileRecord(userID)); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: common.ErrorNotFound.Error()})
		}
		h.logger.Error(ctx, "profile save failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}

	return c.NoContent(http.StatusOK)
}

func (h *Handlers) getPrivacy(c echo.Context) error {
	ctx := c.Request().Context()

	_, _, privacy, err := h.profiles.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: common.ErrorNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}

	return c.JSON(http.StatusOK, buildPrivacyDoc(privacy))
}

func (h *Handlers) savePrivacy(c echo.Context) error {
	userID := c.Param("id")
	if userID != authUserID(c) {
		return c.JSON(http.StatusForbidden, errorResponse{Error: "settings belong to another user"})
	}

	doc := &privacyDoc{}
	if err := c.Bind(doc); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request"})
	}

	ctx := c.Request().Context()
	if err := h.profiles.SavePrivacy(ctx, doc.toPrivacyRecord(userID)); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: common.ErrorNotFound.Error()})
		}
		h.logger.Error(ctx, "privacy save failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}

	return c.NoContent(http.StatusOK)
}

func (h *Handlers) mediaUploadURL(c echo.Context) error {
	req := &uploadURLRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request"})
	}
	if req.Kind != "avatar" && req.Kind != "cover" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown media kind"})
	}

	ctx := c.Request().Context()
	uploadURL, publicURL, err := h.media.GetPresignedPutURL(ctx, authUserID(c), req.Kind)
	if err != nil {
		h.logger.Error(ctx, "presign failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}

	return c.JSON(http.StatusOK, uploadURLResponse{UploadURL: uploadURL, PublicURL: publicURL})
}
