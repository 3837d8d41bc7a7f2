package entity

import (
	"time"
)

// Recipe is a user-submitted recipe. Ingredients and
// FinalIngredientList hold JSON documents as submitted by the client;
// the backend validates that they parse but does not interpret them.
type Recipe struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Username            string    `json:"username"`
	Ingredients         string    `json:"ingredients"`
	Steps               string    `json:"steps"`
	Duration            int       `json:"duration"`
	Servings            int       `json:"servings"`
	DietaryPreferences  string    `json:"dietaryPreferences"`
	Calories            float64   `json:"calories"`
	Fat                 float64   `json:"fat"`
	Carbohydrates       float64   `json:"carbohydrates"`
	Protein             float64   `json:"protein"`
	LikeCount           int       `json:"likeCount"`
	DislikeCount        int       `json:"dislikeCount"`
	FinalIngredientList string    `json:"finalIngredientList"`
	UploadDate          time.Time `json:"uploadDate"`
	ImageURL            string    `json:"imageUrl,omitempty"`
}
