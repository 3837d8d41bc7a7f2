package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-share-api/config"
	"github.com/oksasatya/recipe-share-api/internal/container"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/blob"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/records"
	"github.com/oksasatya/recipe-share-api/internal/router"
	"github.com/oksasatya/recipe-share-api/pkg/validation"
)

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newServer(t *testing.T) (*gin.Engine, *blob.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mem := blob.NewMemory()
	container.SetConfig(config.Load())
	container.SetLogger(logger)
	container.SetBlob(mem)
	container.SetRecords(records.New(mem, logger))
	container.SetRedis(nil) // limiter passes through without redis

	engine := gin.New()
	reg := router.NewRegistry(engine)
	router.InitModules(reg)
	reg.RegisterAll()
	return engine, mem
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestRegisterAndLoginFlow(t *testing.T) {
	engine, _ := newServer(t)

	// register bob
	rec, env := doJSON(t, engine, http.MethodPost, "/api/register", gin.H{
		"username": "bob", "email": "b@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, "b@x.com", profile.Email)

	// same username again
	rec, env = doJSON(t, engine, http.MethodPost, "/api/register", gin.H{
		"username": "bob", "email": "other@x.com", "password": "pw456",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already exists", env.Message)

	// same email, different username
	rec, env = doJSON(t, engine, http.MethodPost, "/api/register", gin.H{
		"username": "robert", "email": "b@x.com", "password": "pw456",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists", env.Message)

	// wrong password
	rec, env = doJSON(t, engine, http.MethodPost, "/api/login", gin.H{
		"username": "bob", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Incorrect password", env.Message)

	// unknown username
	rec, env = doJSON(t, engine, http.MethodPost, "/api/login", gin.H{
		"username": "alice", "password": "pw123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User not found", env.Message)

	// correct credentials
	rec, env = doJSON(t, engine, http.MethodPost, "/api/login", gin.H{
		"username": "bob", "password": "pw123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "bob", profile.Username)
}

func TestRegister_InvalidPayload(t *testing.T) {
	engine, _ := newServer(t)

	rec, env := doJSON(t, engine, http.MethodPost, "/api/register", gin.H{
		"username": "bob", "email": "not-an-email", "password": "pw123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestLogin_NoUsersCollection(t *testing.T) {
	engine, _ := newServer(t)

	rec, env := doJSON(t, engine, http.MethodPost, "/api/login", gin.H{
		"username": "bob", "password": "pw123",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", env.Message)
}

func recipeForm(t *testing.T, username string, overrides map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	fields := map[string]string{
		"name":                "Spaghetti Carbonara",
		"username":            username,
		"ingredients":         `[{"name":"spaghetti","amount":"200g"}]`,
		"steps":               "Boil pasta. Combine.",
		"duration":            "25",
		"servings":            "2",
		"dietaryPreferences":  "none",
		"calories":            "650",
		"fat":                 "22",
		"carbohydrates":       "80",
		"protein":             "25",
		"finalIngredientList": `["spaghetti"]`,
	}
	for k, v := range overrides {
		fields[k] = v
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if withImage {
		part, err := writer.CreateFormFile("image", "pie.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func postRecipe(t *testing.T, engine *gin.Engine, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestRecipeLifecycle(t *testing.T) {
	engine, _ := newServer(t)

	// listing before anything exists
	rec, _ := doJSON(t, engine, http.MethodGet, "/api/recipes", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// create with image
	body, contentType := recipeForm(t, "alice", nil, true)
	rec, env := postRecipe(t, engine, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.ImageURL, "recipes/images/")

	// second recipe, no image, other owner
	body, contentType = recipeForm(t, "bob", nil, false)
	rec, _ = postRecipe(t, engine, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	// list all
	rec, env = doJSON(t, engine, http.MethodGet, "/api/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 2)

	// list by owner
	rec, env = doJSON(t, engine, http.MethodGet, "/api/recipes/user/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 1)

	// owner without recipes
	rec, _ = doJSON(t, engine, http.MethodGet, "/api/recipes/user/carol", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// delete alice's recipe
	rec, _ = doJSON(t, engine, http.MethodDelete, "/api/recipes/user/alice", gin.H{
		"ids": []string{created.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, engine, http.MethodGet, "/api/recipes/user/alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// bob's recipe survives
	rec, env = doJSON(t, engine, http.MethodGet, "/api/recipes/user/bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 1)
}

func TestCreateRecipe_BadInput(t *testing.T) {
	engine, _ := newServer(t)

	body, contentType := recipeForm(t, "alice", map[string]string{"ingredients": "not json"}, false)
	rec, env := postRecipe(t, engine, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ingredients must be valid JSON", env.Message)

	body, contentType = recipeForm(t, "alice", map[string]string{"duration": "abc"}, false)
	rec, env = postRecipe(t, engine, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "duration must be a positive integer", env.Message)
}

func TestDeleteRecipes_EmptyIDs(t *testing.T) {
	engine, _ := newServer(t)

	// create so the collection exists
	body, contentType := recipeForm(t, "alice", nil, false)
	rec, _ := postRecipe(t, engine, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, engine, http.MethodDelete, "/api/recipes/user/alice", gin.H{
		"ids": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}
