package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"celebra/internal/handlers"
	"celebra/internal/middleware"
	"celebra/internal/models"
	"celebra/internal/repositories"
	"celebra/internal/services"
	"celebra/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv bundles the app and the collaborators tests need to arrange state.
type testEnv struct {
	app             *fiber.App
	authService     *services.AuthService
	userRepo        repositories.UserRepository
	celebrationRepo repositories.CelebrationRepository
	occasionRepo    repositories.OccasionRepository
	uploadDir       string
}

// setupApp builds a full Fiber app over an in-memory SQLite database and a
// local asset store rooted in a temp directory.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Occasion{}, &models.CelebrationRequest{})
	require.NoError(t, err)

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	assets := storage.NewLocalStore(uploadDir, "/uploads")

	userRepo := repositories.NewGORMUserRepository(db)
	celebrationRepo := repositories.NewGORMCelebrationRepository(db)
	occasionRepo := repositories.NewGORMOccasionRepository(db)

	celebrationService := services.NewCelebrationService(celebrationRepo, occasionRepo, assets, nil)
	userService := services.NewUserService(userRepo, celebrationService)
	occasionService := services.NewOccasionService(occasionRepo)
	authService := services.NewAuthService(userRepo, "test_jwt_secret")

	require.NoError(t, userService.EnsureSuperAdmin())

	app := fiber.New()

	authRequired := middleware.AuthRequired(authService, userService)
	handlers.NewAuthHandler(authService, handlers.AuthConfig{
		FrontendURL: "http://localhost:5173",
		BackendURL:  "http://localhost:8080",
	}).RegisterRoutes(app, authRequired)
	handlers.NewCelebrationHandler(celebrationService).RegisterRoutes(app, authRequired)
	handlers.NewUserHandler(userService).RegisterRoutes(app, authRequired)
	handlers.NewOccasionHandler(occasionService).RegisterRoutes(app)

	return &testEnv{
		app:             app,
		authService:     authService,
		userRepo:        userRepo,
		celebrationRepo: celebrationRepo,
		occasionRepo:    occasionRepo,
		uploadDir:       uploadDir,
	}
}

// createUser stores a user and returns it with a valid session token.
func (env *testEnv) createUser(t *testing.T, email, role string, maxRequests *int) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Email:       email,
		Name:        "Test User",
		Role:        role,
		Status:      models.StatusActive,
		MaxRequests: maxRequests,
	}
	require.NoError(t, env.userRepo.Create(user))
	token, err := env.authService.Login(user)
	require.NoError(t, err)
	return user, token
}

// multipartBody builds a multipart form from string fields, optionally with a
// PNG payload in the "image" file field.
func multipartBody(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if withImage {
		part, err := writer.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		img := image.NewRGBA(image.Rect(0, 0, 10, 10))
		img.Set(0, 0, color.RGBA{R: 255, A: 255})
		require.NoError(t, png.Encode(part, img))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestCreateCelebration_QuotaOverHTTP(t *testing.T) {
	env := setupApp(t)
	one := 1
	_, token := env.createUser(t, "limited@example.com", models.RoleUser, &one)

	body, contentType := multipartBody(t, map[string]string{"partnerName": "Ana"}, false)
	req := httptest.NewRequest(http.MethodPost, "/celebration", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// The quota of one is spent; the next create is rejected with the
	// user-facing quota message.
	body, contentType = multipartBody(t, map[string]string{"partnerName": "Ana"}, false)
	req = httptest.NewRequest(http.MethodPost, "/celebration", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload map[string]any
	decodeBody(t, resp, &payload)
	assert.Contains(t, payload["message"], "maximum number of requests")
}

func TestCreateCelebration_RequiresToken(t *testing.T) {
	env := setupApp(t)

	body, contentType := multipartBody(t, map[string]string{"partnerName": "Ana"}, false)
	req := httptest.NewRequest(http.MethodPost, "/celebration", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateCelebration_WithImageUpload(t *testing.T) {
	env := setupApp(t)
	_, token := env.createUser(t, "painter@example.com", models.RoleUser, nil)

	body, contentType := multipartBody(t, map[string]string{"partnerName": "Ana"}, true)
	req := httptest.NewRequest(http.MethodPost, "/celebration", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.CelebrationRequest
	decodeBody(t, resp, &created)
	require.NotNil(t, created.ImagePath)
	assert.True(t, strings.HasPrefix(*created.ImagePath, "/uploads/celebration-"))

	// The normalized JPEG landed in the upload directory.
	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".jpg"))
}

func TestPublicSlugLookup(t *testing.T) {
	env := setupApp(t)
	owner, _ := env.createUser(t, "owner@example.com", models.RoleUser, nil)

	request := &models.CelebrationRequest{
		UserID:      owner.ID,
		PartnerName: "Ana",
		Slug:        "known-slug",
		Response:    models.ResponsePending,
	}
	require.NoError(t, env.celebrationRepo.Create(request))

	// No token needed: the slug is the capability.
	resp := doJSON(t, env.app, http.MethodGet, "/celebration/slug/known-slug", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var fetched models.CelebrationRequest
	decodeBody(t, resp, &fetched)
	assert.Equal(t, "Ana", fetched.PartnerName)
	assert.Equal(t, "owner@example.com", fetched.User.Email)

	resp = doJSON(t, env.app, http.MethodGet, "/celebration/slug/missing-slug", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPublicResponseUpdate(t *testing.T) {
	env := setupApp(t)
	owner, _ := env.createUser(t, "owner@example.com", models.RoleUser, nil)

	request := &models.CelebrationRequest{
		UserID:      owner.ID,
		PartnerName: "Ana",
		Slug:        "respond-here",
		Response:    models.ResponsePending,
	}
	require.NoError(t, env.celebrationRepo.Create(request))

	resp := doJSON(t, env.app, http.MethodPatch, "/celebration/slug/respond-here/response", "",
		map[string]string{"response": "accepted"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored, err := env.celebrationRepo.GetBySlug("respond-here")
	require.NoError(t, err)
	assert.Equal(t, models.ResponseAccepted, stored.Response)

	// Values outside the enum are rejected.
	resp = doJSON(t, env.app, http.MethodPatch, "/celebration/slug/respond-here/response", "",
		map[string]string{"response": "maybe"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateCelebration_NonOwnerGetsNotFound(t *testing.T) {
	env := setupApp(t)
	owner, _ := env.createUser(t, "owner@example.com", models.RoleUser, nil)
	_, intruderToken := env.createUser(t, "intruder@example.com", models.RoleUser, nil)

	request := &models.CelebrationRequest{
		UserID:      owner.ID,
		PartnerName: "Ana",
		Slug:        "private",
	}
	require.NoError(t, env.celebrationRepo.Create(request))

	// A foreign record and a missing id yield the same status.
	body, contentType := multipartBody(t, map[string]string{"partnerName": "Hacked"}, false)
	req := httptest.NewRequest(http.MethodPatch, "/celebration/"+request.ID, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+intruderToken)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body, contentType = multipartBody(t, map[string]string{"partnerName": "Hacked"}, false)
	req = httptest.NewRequest(http.MethodPatch, "/celebration/does-not-exist", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+intruderToken)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	stored, err := env.celebrationRepo.GetByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.PartnerName)
}

func TestAdminEndpoints_RequireAdminRole(t *testing.T) {
	env := setupApp(t)
	_, userToken := env.createUser(t, "plain@example.com", models.RoleUser, nil)
	_, adminToken := env.createUser(t, "boss@example.com", models.RoleAdmin, nil)

	resp := doJSON(t, env.app, http.MethodGet, "/celebration/admin/all", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = doJSON(t, env.app, http.MethodGet, "/users", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodGet, "/celebration/admin/all", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, env.app, http.MethodGet, "/users", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUserRoleUpdate_SelfAndSuperAdminBlocked(t *testing.T) {
	env := setupApp(t)
	admin, adminToken := env.createUser(t, "boss@example.com", models.RoleAdmin, nil)
	target, _ := env.createUser(t, "target@example.com", models.RoleUser, nil)

	// Self-mutation fails regardless of role.
	resp := doJSON(t, env.app, http.MethodPatch, "/users/"+admin.ID+"/role", adminToken,
		map[string]string{"role": "user"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// The seeded super admin is immune.
	superAdmin, err := env.userRepo.GetByEmail(services.SuperAdminEmail)
	require.NoError(t, err)
	resp = doJSON(t, env.app, http.MethodPatch, "/users/"+superAdmin.ID+"/role", adminToken,
		map[string]string{"role": "user"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp = doJSON(t, env.app, http.MethodPatch, "/users/"+superAdmin.ID+"/status", adminToken,
		map[string]string{"status": "inactive"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp = doJSON(t, env.app, http.MethodDelete, "/users/"+superAdmin.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// A regular target still works.
	resp = doJSON(t, env.app, http.MethodPatch, "/users/"+target.ID+"/role", adminToken,
		map[string]string{"role": "admin"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteSelf_CascadesRequestsAndAssets(t *testing.T) {
	env := setupApp(t)
	user, token := env.createUser(t, "leaving@example.com", models.RoleUser, nil)

	store := storage.NewLocalStore(env.uploadDir, "/uploads")
	ref, err := store.Store("celebration-keep.jpg", []byte("pic"))
	require.NoError(t, err)

	request := &models.CelebrationRequest{
		UserID:      user.ID,
		PartnerName: "Ana",
		Slug:        "doomed",
		ImagePath:   &ref,
	}
	require.NoError(t, env.celebrationRepo.Create(request))

	resp := doJSON(t, env.app, http.MethodDelete, "/users/me", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// User gone, request gone, asset gone.
	_, err = env.userRepo.GetByID(user.ID)
	assert.Error(t, err)
	remaining, err := env.celebrationRepo.GetAllByUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	_, err = os.Stat(filepath.Join(env.uploadDir, "celebration-keep.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestAuthMe_ReportsAccess(t *testing.T) {
	env := setupApp(t)

	inactive := &models.User{Email: "waiting@example.com", Name: "Waiting", Role: models.RoleUser, Status: models.StatusInactive}
	require.NoError(t, env.userRepo.Create(inactive))
	token, err := env.authService.Login(inactive)
	require.NoError(t, err)

	resp := doJSON(t, env.app, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var profile map[string]any
	decodeBody(t, resp, &profile)
	assert.Equal(t, "waiting@example.com", profile["email"])
	assert.Equal(t, false, profile["hasAccess"])

	_, adminToken := env.createUser(t, "boss@example.com", models.RoleAdmin, nil)
	resp = doJSON(t, env.app, http.MethodGet, "/auth/me", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &profile)
	assert.Equal(t, true, profile["hasAccess"])
}

func TestOccasionCatalog(t *testing.T) {
	env := setupApp(t)

	active := &models.Occasion{Name: "Aniversario", Slug: "aniversario", Icon: "rings", PrimaryColor: "#4f46e5", IsActive: true, SortOrder: 2}
	also := &models.Occasion{Name: "Navidad", Slug: "navidad", Icon: "tree", PrimaryColor: "#16a34a", IsActive: true, SortOrder: 1}
	hidden := &models.Occasion{Name: "Oculta", Slug: "oculta", Icon: "ghost", PrimaryColor: "#000000", IsActive: false, SortOrder: 3}
	for _, o := range []*models.Occasion{active, also, hidden} {
		require.NoError(t, env.occasionRepo.Create(o))
	}

	// The inactive flag must survive the insert.
	stored, err := env.occasionRepo.GetByID(hidden.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	resp := doJSON(t, env.app, http.MethodGet, "/occasions", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var occasions []models.Occasion
	decodeBody(t, resp, &occasions)
	require.Len(t, occasions, 2)
	// Ordered by sortOrder; the inactive one never shows.
	assert.Equal(t, "navidad", occasions[0].Slug)
	assert.Equal(t, "aniversario", occasions[1].Slug)

	resp = doJSON(t, env.app, http.MethodGet, "/occasions/oculta", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminListUsers_IncludesRequestCounts(t *testing.T) {
	env := setupApp(t)
	owner, _ := env.createUser(t, "prolific@example.com", models.RoleUser, nil)
	_, adminToken := env.createUser(t, "boss@example.com", models.RoleAdmin, nil)

	for i := 0; i < 2; i++ {
		require.NoError(t, env.celebrationRepo.Create(&models.CelebrationRequest{
			UserID:      owner.ID,
			PartnerName: "Ana",
			Slug:        fmt.Sprintf("slug-%d", i),
		}))
	}

	resp := doJSON(t, env.app, http.MethodGet, "/users", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var users []models.User
	decodeBody(t, resp, &users)

	var found *models.User
	for i := range users {
		if users[i].Email == "prolific@example.com" {
			found = &users[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, int64(2), found.RequestsCount)
}
