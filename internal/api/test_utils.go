package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/service"
)

// fakeImageService stands in for S3 during handler tests. It still refuses
// non-image payloads so upload validation is exercised end to end.
type fakeImageService struct {
	uploads int
}

func (f *fakeImageService) UploadRecipeImage(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &service.ValidationError{Field: "image", Message: "empty upload"}
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return "", &service.ValidationError{Field: "image", Message: "payload is not an image"}
	}
	f.uploads++
	return fmt.Sprintf("https://test-bucket.s3.amazonaws.com/recipe-images/%d.png", f.uploads), nil
}

// testEnv bundles everything a handler test touches.
type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
	images *fakeImageService
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	authService := service.NewAuthService(db, "test-jwt-secret")
	images := &fakeImageService{}

	authHandler := NewAuthHandler(authService)
	recipeHandler := NewRecipeHandler(service.NewRecipeService(db), images)
	tagHandler := NewTagHandler(service.NewTagService(db))
	ingredientHandler := NewIngredientHandler(service.NewIngredientService(db))

	// Mirrors router.SetupRouter; wired inline to avoid importing the router
	// package from its own dependency.
	engine := gin.New()
	v1 := engine.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	protected.GET("/me", authHandler.Me)
	protected.GET("/recipes", recipeHandler.ListRecipes)
	protected.GET("/recipes/:id", recipeHandler.GetRecipe)
	protected.POST("/recipes", recipeHandler.CreateRecipe)
	protected.PUT("/recipes/:id", recipeHandler.UpdateRecipe)
	protected.PATCH("/recipes/:id", recipeHandler.UpdateRecipe)
	protected.DELETE("/recipes/:id", recipeHandler.DeleteRecipe)
	protected.POST("/recipes/:id/image", recipeHandler.UploadImage)
	protected.GET("/tags", tagHandler.ListTags)
	protected.PUT("/tags/:id", tagHandler.UpdateTag)
	protected.DELETE("/tags/:id", tagHandler.DeleteTag)
	protected.GET("/ingredients", ingredientHandler.ListIngredients)
	protected.PUT("/ingredients/:id", ingredientHandler.UpdateIngredient)
	protected.DELETE("/ingredients/:id", ingredientHandler.DeleteIngredient)

	return &testEnv{router: engine, db: db, auth: authService, images: images}
}

// registerUser creates an account through the API and returns its token.
func (e *testEnv) registerUser(t *testing.T, email string) string {
	t.Helper()

	w := e.do(t, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, 201, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

// do performs a JSON request against the test router.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// itoa renders a JSON-decoded numeric id as a path segment.
func itoa(id float64) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
