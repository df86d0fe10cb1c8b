package safety

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biostack/models"
)

func TestMealContextAdviceFatSoluble(t *testing.T) {
	t.Parallel()

	key := "fat_soluble"
	vitaminD := &models.SupplementProfile{ID: uuid.New(), Name: "Vitamin D3", TimingRationaleKey: &key}

	best := MealContextAdvice(vitaminD, MealWithFat)
	require.NotNil(t, best)
	assert.True(t, best.Optimal)
	assert.Equal(t, 1.3, best.Multiplier)

	fasted := MealContextAdvice(vitaminD, MealFasted)
	require.NotNil(t, fasted)
	assert.False(t, fasted.Optimal)
	assert.Less(t, fasted.Multiplier, best.Multiplier)
	assert.Contains(t, fasted.Message, "fat-containing meal")
}

func TestMealContextAdviceFallsBackToCategory(t *testing.T) {
	t.Parallel()

	category := "iron"
	iron := &models.SupplementProfile{ID: uuid.New(), Name: "Iron Bisglycinate", SafetyCategory: &category}

	advice := MealContextAdvice(iron, MealFasted)
	require.NotNil(t, advice)
	assert.True(t, advice.Optimal)
}

func TestMealContextAdviceUnknown(t *testing.T) {
	t.Parallel()

	plain := &models.SupplementProfile{ID: uuid.New(), Name: "Glycine"}
	assert.Nil(t, MealContextAdvice(plain, MealFasted), "no rule covers the profile")

	key := "fat_soluble"
	vitaminD := &models.SupplementProfile{ID: uuid.New(), Name: "Vitamin D3", TimingRationaleKey: &key}
	assert.Nil(t, MealContextAdvice(vitaminD, "second_breakfast"), "unknown context")
	assert.Nil(t, MealContextAdvice(nil, MealFasted))
}
