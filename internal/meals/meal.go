package meals

import "time"

type Meal struct {
	ID           int       `json:"id"`
	UserID       int       `json:"userId"`
	Name         string    `json:"name"`
	MealType     string    `json:"mealType"`
	Calories     int       `json:"calories"`
	ProteinGrams float64   `json:"proteinGrams"`
	CarbsGrams   float64   `json:"carbsGrams"`
	FatGrams     float64   `json:"fatGrams"`
	Notes        string    `json:"notes,omitempty"`
	EatenAt      time.Time `json:"eatenAt"`
}

// MealParams filters meal queries by date range and meal types.
// Empty Types means all types.
type MealParams struct {
	UserID int
	From   *time.Time
	To     *time.Time
	Types  []string
}

var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

func IsValidMealType(mealType string) bool {
	return validMealTypes[mealType]
}
