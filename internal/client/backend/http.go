package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/smolnikov/readhub/internal/client/models"
	"github.com/smolnikov/readhub/internal/common"
)

// HTTPClient implements Client against the identityd JSON API.
//
// It keeps the current access/refresh token pair. When a request fails with
// 401 "token expired" and a refresh token is held, the pair is rotated via
// the refresh endpoint and the request retried once.
//
// Safe for concurrent use: the REPL and the connectivity watcher share one
// instance, so the token pair is guarded by a mutex.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

func (c *HTTPClient) setTokens(access, refresh string) {
	c.mu.Lock()
	c.accessToken = access
	c.refreshToken = refresh
	c.mu.Unlock()
}

func (c *HTTPClient) tokens() (access, refresh string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken, c.refreshToken
}

// NewHTTPClient returns a client for the backend at baseURL
// (e.g. "http://127.0.0.1:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type identityResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) SignUp(ctx context.Context, address string, salt, verifier []byte, meta SignUpMetadata) (*Identity, error) {
	body := map[string]any{
		"address":    address,
		"username":   meta.Username,
		"display_id": meta.DisplayID,
		"salt":       salt,
		"verifier":   verifier,
	}

	var resp identityResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", body, &resp); err != nil {
		return nil, err
	}

	c.setTokens(resp.AccessToken, resp.RefreshToken)
	return &Identity{UserID: resp.UserID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

func (c *HTTPClient) GetSalt(ctx context.Context, address string) ([]byte, error) {
	var resp struct {
		Salt []byte `json:"salt"`
	}
	path := "/api/salt?address=" + url.QueryEscape(address)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Salt, nil
}

func (c *HTTPClient) SignIn(ctx context.Context, address string, verifierCandidate []byte) (*Identity, error) {
	body := map[string]any{
		"address":  address,
		"verifier": verifierCandidate,
	}

	var resp identityResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return nil, err
	}

	c.setTokens(resp.AccessToken, resp.RefreshToken)
	return &Identity{UserID: resp.UserID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.setTokens("", "")
	return err
}

func (c *HTTPClient) FetchProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile := &models.Profile{}
	path := "/api/users/" + url.PathEscape(userID) + "/profile"
	if err := c.do(ctx, http.MethodGet, path, nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *HTTPClient) SaveProfile(ctx context.Context, profile *models.Profile) error {
	path := "/api/users/" + url.PathEscape(profile.ID) + "/profile"
	return c.do(ctx, http.MethodPut, path, profile, nil)
}

func (c *HTTPClient) SavePrivacy(ctx context.Context, userID string, privacy *models.PrivacySettings) error {
	path := "/api/users/" + url.PathEscape(userID) + "/privacy"
	return c.do(ctx, http.MethodPut, path, privacy, nil)
}

func (c *HTTPClient) MediaUploadURL(ctx context.Context, kind string) (string, string, error) {
	var resp struct {
		UploadURL string `json:"upload_url"`
		PublicURL string `json:"public_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/media/upload-url", map[string]any{"kind": kind}, &resp); err != nil {
		return "", "", err
	}
	return resp.UploadURL, resp.PublicURL, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/ping", nil, nil)
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// do executes one JSON request. On 401 "token expired" it rotates the token
// pair through the refresh endpoint and retries the request once.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	status, respBody, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}

	if _, refresh := c.tokens(); status == http.StatusUnauthorized && refresh != "" && isTokenExpired(respBody) {
		if err := c.refresh(ctx); err != nil {
			return err
		}
		status, respBody, err = c.roundTrip(ctx, method, path, body)
		if err != nil {
			return err
		}
	}

	if err := mapStatus(status, respBody); err != nil {
		return err
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if access, _ := c.tokens(); access != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+access)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	_, refresh := c.tokens()
	status, body, err := c.roundTrip(ctx, http.MethodPost, "/api/token/refresh",
		map[string]any{"refresh_token": refresh})
	if err != nil {
		return err
	}
	if err := mapStatus(status, body); err != nil {
		return err
	}

	var resp identityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to decode refresh response: %w", err)
	}
	c.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func isTokenExpired(body []byte) bool {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return false
	}
	return er.Error == common.ErrTokenExpired.Error()
}

func mapStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return common.ErrorNotFound
	case status == http.StatusConflict:
		return ErrConflict
	default:
		var er errorResponse
		if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
			return fmt.Errorf("backend error (%d): %s", status, er.Error)
		}
		return fmt.Errorf("backend error (%d)", status)
	}
}
