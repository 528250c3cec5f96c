package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/petit-bac/internal/model"
)

func TestSemanticValidator(t *testing.T) {
	disabled := NewSemanticValidator(false)
	assert.False(t, disabled.IsAvailable())
	assert.Equal(t, "AI", disabled.SourceName())
	got := disabled.Validate(context.Background(), "chien", model.CategoryAnimal)
	assert.True(t, got.IsUncertain())
	assert.Equal(t, "Semantic validation unavailable", got.Details)

	enabled := NewSemanticValidator(true)
	assert.True(t, enabled.IsAvailable())
	got = enabled.Validate(context.Background(), "chien", model.CategoryAnimal)
	assert.True(t, got.IsUncertain())
	assert.Zero(t, got.Confidence)
}

func TestAnchors(t *testing.T) {
	for _, c := range model.Categories() {
		assert.NotEmpty(t, Anchors(c), c)
	}
	assert.Contains(t, Anchors(model.CategoryAnimal), "mammifere")

	a := Anchors(model.CategoryPays)
	a[0] = "changed"
	assert.Equal(t, "nation", Anchors(model.CategoryPays)[0])
}

func TestKeywords(t *testing.T) {
	assert.Contains(t, Keywords(model.CategoryAnimal), "mammal")
	assert.Contains(t, Keywords(model.CategoryVille), "city")
	assert.Nil(t, Keywords(model.CategoryPrenom))
	assert.Nil(t, Keywords(model.CategoryMetier))
	assert.Nil(t, Keywords(model.CategoryObjet))
	assert.Nil(t, Keywords(model.CategoryCelebrite))
}
