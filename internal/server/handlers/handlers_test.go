package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolnikov/readhub/internal/common"
	"github.com/smolnikov/readhub/internal/logging"
	"github.com/smolnikov/readhub/internal/server/auth"
	"github.com/smolnikov/readhub/internal/server/config"
	"github.com/smolnikov/readhub/internal/server/models"
	profilesrepo "github.com/smolnikov/readhub/internal/server/profiles"
	refreshtokensrepo "github.com/smolnikov/readhub/internal/server/refreshtokens"
	"github.com/smolnikov/readhub/internal/server/services"
	usersrepo "github.com/smolnikov/readhub/internal/server/users"
)

const testSecret = "test-secret"

// memManager is an in-memory db.RepositoryManager so handler tests can run
// the real services end to end. The sqlmock connection only serves the
// transaction frames around registration.
type memManager struct {
	db     *sqlx.DB
	users  *memUsers
	tokens *memTokens
	data   *memProfiles
}

func (m *memManager) RunMigrations(context.Context) error { return nil }
func (m *memManager) Conn() *sqlx.DB { return m.db }
func (m *memManager) Users(ext sqlx.ExtContext) usersrepo.Repository {
	return m.users
}
func (m *memManager) Profiles(ext sqlx.ExtContext) profilesrepo.Repository {
	return m.data
}
func (m *memManager) RefreshTokens(ext sqlx.ExtContext) refreshtokensrepo.Repository {
	return m.tokens
}
func (m *memManager) Close() error { return nil }

type memUsers struct {
	seq     int
	byAddr  map[string]*models.User
	byID    map[string]*models.User
	byLogin map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{
		byAddr:  map[string]*models.User{},
		byID:    map[string]*models.User{},
		byLogin: map[string]*models.User{},
	}
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := m.byAddr[u.Address]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := m.byLogin[u.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	m.seq++
	u.ID = fmt.Sprintf("u-%d", m.seq)
	u.CreatedAt = time.Now()
	m.byAddr[u.Address] = u
	m.byID[u.ID] = u
	m.byLogin[u.Username] = u
	return u, nil
}

func (m *memUsers) GetByAddress(ctx context.Context, address string) (*models.User, error) {
	u, ok := m.byAddr[address]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type memProfiles struct {
	profiles map[string]*models.ProfileRecord
	privacy  map[string]*models.PrivacyRecord
}

func newMemProfiles() *memProfiles {
	return &memProfiles{
		profiles: map[string]*models.ProfileRecord{},
		privacy:  map[string]*models.PrivacyRecord{},
	}
}

func (m *memProfiles) CreateDefaults(ctx context.Context, userID string) error {
	m.profiles[userID] = &models.ProfileRecord{UserID: userID}
	m.privacy[userID] = &models.PrivacyRecord{UserID: userID, CommentsGlobal: true}
	return nil
}

func (m *memProfiles) GetProfile(ctx context.Context, userID string) (*models.ProfileRecord, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (m *memProfiles) SaveProfile(ctx context.Context, record *models.ProfileRecord) error {
	if _, ok := m.profiles[record.UserID]; !ok {
		return common.ErrorNotFound
	}
	m.profiles[record.UserID] = record
	return nil
}

func (m *memProfiles) GetPrivacy(ctx context.Context, userID string) (*models.PrivacyRecord, error) {
	p, ok := m.privacy[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (m *memProfiles) SavePrivacy(ctx context.Context, record *models.PrivacyRecord) error {
	if _, ok := m.privacy[record.UserID]; !ok {
		return common.ErrorNotFound
	}
	m.privacy[record.UserID] = record
	return nil
}

type memTokens struct {
	tokens map[string]*models.RefreshToken
}

func newMemTokens() *memTokens { return &memTokens{tokens: map[string]*models.RefreshToken{}} }

func (m *memTokens) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	m.tokens[token] = &models.RefreshToken{Token: token, UserID: userID, ExpiresAt: time.Now().Add(validity)}
	return nil
}

func (m *memTokens) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (m *memTokens) Delete(ctx context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func (m *memTokens) DeleteForUser(ctx context.Context, userID string) error {
	for k, v := range m.tokens {
		if v.UserID == userID {
			delete(m.tokens, k)
		}
	}
	return nil
}

type testAPI struct {
	e    *echo.Echo
	mock sqlmock.Sqlmock
	mgr  *memManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mgr := &memManager{
		db:     sqlx.NewDb(db, "sqlmock"),
		users:  newMemUsers(),
		tokens: newMemTokens(),
		data:   newMemProfiles(),
	}

	cfg := &config.Config{
		SecretKey:            testSecret,
		AccessTokenValidity:  time.Hour,
		RefreshTokenValidity: 24 * time.Hour,
		S3RootUser:           "minio",
		S3RootPassword:       "minio123",
		S3Bucket:             "readhub-media",
		S3Region:             "us-east-1",
		S3BaseEndpoint:       "http://localhost:9000",
		S3PublicBaseURL:      "http://localhost:9000/readhub-media",
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := New(
		services.NewUserService(mgr, cfg),
		services.NewProfileService(mgr),
		services.NewMediaService(cfg),
		cfg, logger,
	)

	e := echo.New()
	h.Register(e)
	return &testAPI{e: e, mock: mock, mgr: mgr}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// registerUser runs the full registration round trip and returns the
// identity payload.
func (a *testAPI) registerUser(t *testing.T, address, username string) identityResponse {
	t.Helper()
	a.mock.ExpectBegin()
	a.mock.ExpectCommit()

	rec := a.do(t, http.MethodPost, "/api/register", "", registerRequest{
		Address:   address,
		Username:  username,
		DisplayID: "123456",
		Salt:      []byte("salt"),
		Verifier:  []byte("verifier"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp identityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestPing(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(t, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_ReturnsIdentity(t *testing.T) {
	a := newTestAPI(t)

	resp := a.registerUser(t, "alice@example.com", "alice")
	assert.Equal(t, "u-1", resp.UserID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestRegister_MissingFields(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/register", "", registerRequest{Address: "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_Conflict(t *testing.T) {
	a := newTestAPI(t)
	a.registerUser(t, "alice@example.com", "alice")

	a.mock.ExpectBegin()
	a.mock.ExpectRollback()
	rec := a.do(t, http.MethodPost, "/api/register", "", registerRequest{
		Address:  "alice@example.com",
		Username: "alice2",
		Salt:     []byte("s"),
		Verifier: []byte("v"),
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetSalt_KnownAndUnknown(t *testing.T) {
	a := newTestAPI(t)
	a.registerUser(t, "alice@example.com", "alice")

	rec := a.do(t, http.MethodGet, "/api/salt?address=alice@example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp saltResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []byte("salt"), resp.Salt)

	rec = a.do(t, http.MethodGet, "/api/salt?address=ghost@example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ghost saltResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ghost))
	assert.Len(t, ghost.Salt, 32)
}

func TestLogin_SuccessAndFailure(t *testing.T) {
	a := newTestAPI(t)
	a.registerUser(t, "alice@example.com", "alice")

	rec := a.do(t, http.MethodPost, "/api/login", "", loginRequest{
		Address:  "alice@example.com",
		Verifier: []byte("verifier"),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp identityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u-1", resp.UserID)

	rec = a.do(t, http.MethodPost, "/api/login", "", loginRequest{
		Address:  "alice@example.com",
		Verifier: []byte("wrong"),
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/login", "", loginRequest{
		Address:  "ghost@example.com",
		Verifier: []byte("verifier"),
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_RotationInvalidatesOldToken(t *testing.T) {
	a := newTestAPI(t)
	id := a.registerUser(t, "alice@example.com", "alice")

	rec := a.do(t, http.MethodPost, "/api/token/refresh", "", refreshRequest{RefreshToken: id.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	var fresh identityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fresh))
	assert.NotEqual(t, id.RefreshToken, fresh.RefreshToken)

	rec = a.do(t, http.MethodPost, "/api/token/refresh", "", refreshRequest{RefreshToken: id.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	a := newTestAPI(t)
	a.registerUser(t, "alice@example.com", "alice")

	rec := a.do(t, http.MethodGet, "/api/users/u-1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/users/u-1/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := auth.GenerateToken("u-1", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	rec = a.do(t, http.MethodGet, "/api/users/u-1/profile", expired, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token expired", resp.Error)
}

func TestProfile_GetAndSave(t *testing.T) {
	a := newTestAPI(t)
	id := a.registerUser(t, "alice@example.com", "alice")

	rec := a.do(t, http.MethodGet, "/api/users/u-1/profile", id.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doc profileDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "alice", doc.Username)
	assert.Equal(t, "123456", doc.DisplayID)
	assert.True(t, doc.Privacy.Comments.Global)

	doc.FirstName = "Alice"
	doc.Bio = "writes things"
	rec = a.do(t, http.MethodPut, "/api/users/u-1/profile", id.AccessToken, doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/api/users/u-1/profile", id.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated profileDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "writes things", updated.Bio)
}

func TestProfile_SaveForeignProfileForbidden(t *testing.T) {
	a := newTestAPI(t)
	id := a.registerUser(t, "alice@example.com", "alice")
	a.registerUser(t, "bob@example.com", "bob")

	rec := a.do(t, http.MethodPut, "/api/users/u-2/profile", id.AccessToken, profileDoc{FirstName: "Hacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProfile_UnknownUser(t *testing.T) {
	a := newTestAPI(t)
	id := a.registerUser(t, "alice@example.com", "alice")

	rec := a.do(t, http.MethodGet, "/api/users/ghost/profile", id.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPrivacy_RoundTrip(t *testing.T) {
	a := newTestAPI(t)
	id := a.registerUser(t, "alice@example.com", "alice")

	rec := a.do(t, http.MethodGet, "/api/users/u-1/privacy", id.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doc privacyDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.True(t, doc.Comments.Global)
	assert.False(t, doc.HideSubscriptions)

	doc.HideSubscriptions = true
	doc.Comments.PerBook = map[string]bool{"book-1": false}
	rec = a.do(t, http.MethodPut, "/api/users/u-1/privacy", id.AccessToken, doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/api/users/u-1/privacy", id.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated privacyDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.HideSubscriptions)
	assert.Equal(t, map[string]bool{"book-1": false}, updated.Comments.PerBook)

	rec = a.do(t, http.MethodPut, "/api/users/u-2/privacy", id.AccessToken, doc)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogout_InvalidatesRefreshTokens(t *testing.T) {
	a := newTestAPI(t)
	id := a.registerUser(t, "alice@example.com", "alice")

	rec := a.do(t, http.MethodPost, "/api/logout", id.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/token/refresh", "", refreshRequest{RefreshToken: id.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMediaUploadURL(t *testing.T) {
	a := newTestAPI(t)
	id := a.registerUser(t, "alice@example.com", "alice")

	rec := a.do(t, http.MethodPost, "/api/media/upload-url", id.AccessToken, uploadURLRequest{Kind: "banner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/media/upload-url", id.AccessToken, uploadURLRequest{Kind: "avatar"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp uploadURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.UploadURL, "media/u-1/avatar/")
	assert.Contains(t, resp.PublicURL, "http://localhost:9000/readhub-media/media/u-1/avatar/")
}
