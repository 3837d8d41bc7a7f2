package application

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/blob"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/records"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/tabular"
	"github.com/oksasatya/recipe-share-api/pkg/apperr"
)

// RecipesKey is the collection blob holding all recipes.
const RecipesKey = "recipes/recipe.csv"

// imagePrefix is the key namespace for uploaded recipe images.
const imagePrefix = "recipes/images/"

var recipeColumns = []string{
	"id", "name", "username", "ingredients", "steps", "duration", "servings",
	"dietaryPreferences", "calories", "fat", "carbohydrates", "protein",
	"likeCount", "dislikeCount", "finalIngredientList", "uploadDate", "imageUrl",
}

// CreateRecipeInput carries the raw string fields of a create request as
// the HTTP layer extracted them from the multipart form. Numeric and
// structured fields are validated here, not in the transport.
type CreateRecipeInput struct {
	Name                string
	Username            string
	Ingredients         string
	Steps               string
	Duration            string
	Servings            string
	DietaryPreferences  string
	Calories            string
	Fat                 string
	Carbohydrates       string
	Protein             string
	FinalIngredientList string
}

// ImageUpload is an optional image payload attached to a create request.
type ImageUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// RecipeService implements recipe CRUD on top of the record store, with
// image uploads going straight to the blob store.
type RecipeService struct {
	Records *records.Store
	Blob    blob.Store
	Logger  *logrus.Logger
}

func NewRecipeService(store *records.Store, b blob.Store, logger *logrus.Logger) *RecipeService {
	return &RecipeService{Records: store, Blob: b, Logger: logger}
}

func recipeToRecord(r *entity.Recipe) tabular.Record {
	rec := tabular.New(recipeColumns...)
	rec.Set("id", r.ID)
	rec.Set("name", r.Name)
	rec.Set("username", r.Username)
	rec.Set("ingredients", r.Ingredients)
	rec.Set("steps", r.Steps)
	rec.Set("duration", strconv.Itoa(r.Duration))
	rec.Set("servings", strconv.Itoa(r.Servings))
	rec.Set("dietaryPreferences", r.DietaryPreferences)
	rec.Set("calories", strconv.FormatFloat(r.Calories, 'f', -1, 64))
	rec.Set("fat", strconv.FormatFloat(r.Fat, 'f', -1, 64))
	rec.Set("carbohydrates", strconv.FormatFloat(r.Carbohydrates, 'f', -1, 64))
	rec.Set("protein", strconv.FormatFloat(r.Protein, 'f', -1, 64))
	rec.Set("likeCount", strconv.Itoa(r.LikeCount))
	rec.Set("dislikeCount", strconv.Itoa(r.DislikeCount))
	rec.Set("finalIngredientList", r.FinalIngredientList)
	rec.Set("uploadDate", r.UploadDate.UTC().Format(time.RFC3339))
	rec.Set("imageUrl", r.ImageURL)
	return rec
}

func recipeFromRecord(rec tabular.Record) entity.Recipe {
	duration, _ := strconv.Atoi(rec.Get("duration"))
	servings, _ := strconv.Atoi(rec.Get("servings"))
	calories, _ := strconv.ParseFloat(rec.Get("calories"), 64)
	fat, _ := strconv.ParseFloat(rec.Get("fat"), 64)
	carbs, _ := strconv.ParseFloat(rec.Get("carbohydrates"), 64)
	protein, _ := strconv.ParseFloat(rec.Get("protein"), 64)
	likes, _ := strconv.Atoi(rec.Get("likeCount"))
	dislikes, _ := strconv.Atoi(rec.Get("dislikeCount"))
	uploadDate, _ := time.Parse(time.RFC3339, rec.Get("uploadDate"))
	return entity.Recipe{
		ID:                  rec.Get("id"),
		Name:                rec.Get("name"),
		Username:            rec.Get("username"),
		Ingredients:         rec.Get("ingredients"),
		Steps:               rec.Get("steps"),
		Duration:            duration,
		Servings:            servings,
		DietaryPreferences:  rec.Get("dietaryPreferences"),
		Calories:            calories,
		Fat:                 fat,
		Carbohydrates:       carbs,
		Protein:             protein,
		LikeCount:           likes,
		DislikeCount:        dislikes,
		FinalIngredientList: rec.Get("finalIngredientList"),
		UploadDate:          uploadDate,
		ImageURL:            rec.Get("imageUrl"),
	}
}

func (in *CreateRecipeInput) validate() (*entity.Recipe, error) {
	required := []struct{ name, value string }{
		{"name", in.Name},
		{"username", in.Username},
		{"ingredients", in.Ingredients},
		{"steps", in.Steps},
		{"duration", in.Duration},
		{"servings", in.Servings},
		{"dietaryPreferences", in.DietaryPreferences},
		{"calories", in.Calories},
		{"fat", in.Fat},
		{"carbohydrates", in.Carbohydrates},
		{"protein", in.Protein},
		{"finalIngredientList", in.FinalIngredientList},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, apperr.New(apperr.Validation, f.name+" is required")
		}
	}
	if !json.Valid([]byte(in.Ingredients)) {
		return nil, apperr.New(apperr.Validation, "ingredients must be valid JSON")
	}
	duration, err := strconv.Atoi(in.Duration)
	if err != nil || duration <= 0 {
		return nil, apperr.New(apperr.Validation, "duration must be a positive integer")
	}
	servings, err := strconv.Atoi(in.Servings)
	if err != nil || servings <= 0 {
		return nil, apperr.New(apperr.Validation, "servings must be a positive integer")
	}
	floats := make(map[string]float64, 4)
	for name, raw := range map[string]string{
		"calories":      in.Calories,
		"fat":           in.Fat,
		"carbohydrates": in.Carbohydrates,
		"protein":       in.Protein,
	} {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, apperr.New(apperr.Validation, name+" must be a non-negative number")
		}
		floats[name] = v
	}
	return &entity.Recipe{
		Name:                in.Name,
		Username:            in.Username,
		Ingredients:         in.Ingredients,
		Steps:               in.Steps,
		Duration:            duration,
		Servings:            servings,
		DietaryPreferences:  in.DietaryPreferences,
		Calories:            floats["calories"],
		Fat:                 floats["fat"],
		Carbohydrates:       floats["carbohydrates"],
		Protein:             floats["protein"],
		FinalIngredientList: in.FinalIngredientList,
	}, nil
}

// sanitizeFilename keeps the key namespace flat and URL-safe.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, base)
}

// Create validates the input, optionally uploads the image, and appends
// the recipe to the collection.
func (s *RecipeService) Create(ctx context.Context, in CreateRecipeInput, image *ImageUpload) (*entity.Recipe, error) {
	recipe, err := in.validate()
	if err != nil {
		return nil, err
	}
	recipe.ID = uuid.NewString()
	recipe.UploadDate = time.Now().UTC()

	if image != nil && len(image.Data) > 0 {
		key := fmt.Sprintf("%s%d-%s", imagePrefix, time.Now().UnixNano(), sanitizeFilename(image.Filename))
		if err := s.Blob.Write(ctx, key, image.Data, image.ContentType); err != nil {
			return nil, apperr.Wrap(apperr.Store, "could not store image", err)
		}
		recipe.ImageURL = s.Blob.URL(key)
	}

	err = s.Records.Mutate(ctx, RecipesKey, func(recs []tabular.Record) ([]tabular.Record, error) {
		return append(recs, recipeToRecord(recipe)), nil
	})
	if err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"id": recipe.ID, "username": recipe.Username}).Info("recipe created")
	}
	return recipe, nil
}

// List returns every recipe in the collection.
func (s *RecipeService) List(ctx context.Context) ([]entity.Recipe, error) {
	recs, exists, err := s.Records.Load(ctx, RecipesKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.New(apperr.NotFound, "No recipes found")
	}
	recipes := make([]entity.Recipe, 0, len(recs))
	for _, rec := range recs {
		recipes = append(recipes, recipeFromRecord(rec))
	}
	return recipes, nil
}

// ListByOwner returns the recipes owned by username. An empty result is
// NotFound, matching the collection-absent case for callers.
func (s *RecipeService) ListByOwner(ctx context.Context, username string) ([]entity.Recipe, error) {
	recs, exists, err := s.Records.Load(ctx, RecipesKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.New(apperr.NotFound, "No recipes found")
	}
	var recipes []entity.Recipe
	for _, rec := range recs {
		if rec.Get("username") == username {
			recipes = append(recipes, recipeFromRecord(rec))
		}
	}
	if len(recipes) == 0 {
		return nil, apperr.New(apperr.NotFound, "No recipes found for user")
	}
	return recipes, nil
}

// DeleteByOwner removes the recipes in ids that belong to username and
// rewrites the collection, even when nothing matched.
func (s *RecipeService) DeleteByOwner(ctx context.Context, username string, ids []string) error {
	if username == "" {
		return apperr.New(apperr.Validation, "username is required")
	}
	if len(ids) == 0 {
		return apperr.New(apperr.Validation, "ids is required")
	}
	_, exists, err := s.Records.Load(ctx, RecipesKey)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.New(apperr.NotFound, "No recipes found")
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	err = s.Records.Mutate(ctx, RecipesKey, func(recs []tabular.Record) ([]tabular.Record, error) {
		kept := recs[:0]
		for _, rec := range recs {
			_, requested := wanted[rec.Get("id")]
			if rec.Get("username") != username || !requested {
				kept = append(kept, rec)
			}
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"username": username, "ids": len(ids)}).Info("recipes deleted")
	}
	return nil
}
