package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/application"
	"github.com/oksasatya/recipe-share-api/pkg/apperr"
	"github.com/oksasatya/recipe-share-api/pkg/response"
	"github.com/oksasatya/recipe-share-api/pkg/validation"
)

// maxImageBytes caps uploaded recipe images at 8 MiB.
const maxImageBytes = 8 << 20

type RecipeHandler struct {
	Svc    *application.RecipeService
	Logger *logrus.Logger
}

func NewRecipeHandler(svc *application.RecipeService, logger *logrus.Logger) *RecipeHandler {
	return &RecipeHandler{Svc: svc, Logger: logger}
}

type deleteRecipesRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// Create handles POST /recipes as a multipart form: the recipe fields as
// form values plus an optional "image" file part.
func (h *RecipeHandler) Create(c *gin.Context) {
	in := application.CreateRecipeInput{
		Name:                c.PostForm("name"),
		Username:            c.PostForm("username"),
		Ingredients:         c.PostForm("ingredients"),
		Steps:               c.PostForm("steps"),
		Duration:            c.PostForm("duration"),
		Servings:            c.PostForm("servings"),
		DietaryPreferences:  c.PostForm("dietaryPreferences"),
		Calories:            c.PostForm("calories"),
		Fat:                 c.PostForm("fat"),
		Carbohydrates:       c.PostForm("carbohydrates"),
		Protein:             c.PostForm("protein"),
		FinalIngredientList: c.PostForm("finalIngredientList"),
	}

	var image *application.ImageUpload
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		if fh.Size > maxImageBytes {
			response.Error[any](c, http.StatusBadRequest, "image too large", nil)
			return
		}
		f, err := fh.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "could not read image", nil)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "could not read image", nil)
			return
		}
		image = &application.ImageUpload{
			Data:        data,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		}
	}

	recipe, err := h.Svc.Create(c.Request.Context(), in, image)
	if err != nil {
		h.fail(c, err, "create recipe failed")
		return
	}
	response.Success(c, http.StatusOK, recipe, "Recipe created successfully", nil)
}

// List handles GET /recipes.
func (h *RecipeHandler) List(c *gin.Context) {
	recipes, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "list recipes failed")
		return
	}
	response.Success(c, http.StatusOK, recipes, "Recipes fetched successfully", map[string]any{"count": len(recipes)})
}

// ListByUser handles GET /recipes/user/:username.
func (h *RecipeHandler) ListByUser(c *gin.Context) {
	username := c.Param("username")
	recipes, err := h.Svc.ListByOwner(c.Request.Context(), username)
	if err != nil {
		h.fail(c, err, "list recipes by user failed")
		return
	}
	response.Success(c, http.StatusOK, recipes, "Recipes fetched successfully", map[string]any{"count": len(recipes)})
}

// DeleteByUser handles DELETE /recipes/user/:username with the recipe
// ids to remove in the JSON body.
func (h *RecipeHandler) DeleteByUser(c *gin.Context) {
	username := c.Param("username")
	var req deleteRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.DeleteByOwner(c.Request.Context(), username, req.IDs); err != nil {
		h.fail(c, err, "delete recipes failed")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "Recipes deleted successfully", nil)
}

func (h *RecipeHandler) fail(c *gin.Context, err error, msg string) {
	status := apperr.StatusCode(err)
	if status == http.StatusInternalServerError && h.Logger != nil {
		h.Logger.WithError(err).Error(msg)
	}
	response.Error[any](c, status, err.Error(), nil)
}
