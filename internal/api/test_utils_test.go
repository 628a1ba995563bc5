package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/models"
)

// setupTestRouter builds the full API against an in-memory sqlite
// database. No image store and no redis: uploads are skipped and recipe
// creation is unthrottled.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.New(&config.Config{DBDriver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	router := gin.New()
	SetupAPI(router, db, &config.Config{JWTSecret: "test-secret"}, nil, nil)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// registerAndLogin creates an account through the API and returns the
// auth token.
func registerAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/users", "", gin.H{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/token/login", "", gin.H{
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AuthToken string `json:"auth_token"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.AuthToken)
	return resp.AuthToken
}

func seedCatalog(t *testing.T, db *gorm.DB) (salt, milk models.Ingredient, dinner models.Tag) {
	t.Helper()

	salt = models.Ingredient{Name: "salt", MeasurementUnit: "g"}
	milk = models.Ingredient{Name: "milk", MeasurementUnit: "ml"}
	dinner = models.Tag{Name: "Dinner", Color: "#8775D2", Slug: "dinner"}
	require.NoError(t, db.Create(&salt).Error)
	require.NoError(t, db.Create(&milk).Error)
	require.NoError(t, db.Create(&dinner).Error)
	return salt, milk, dinner
}

// createRecipeViaAPI posts a minimal recipe and returns its id.
func createRecipeViaAPI(t *testing.T, router *gin.Engine, token, name string, ingredients []gin.H, tags []uint) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"name":         name,
		"text":         "Instructions for " + name,
		"cooking_time": 25,
		"ingredients":  ingredients,
		"tags":         tags,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func recipePath(id string, parts ...string) string {
	path := "/api/v1/recipes/" + id
	for _, p := range parts {
		path += "/" + p
	}
	return path
}
