package validator

import (
	"context"

	"github.com/Veraticus/petit-bac/internal/model"
)

// semanticAnchors are reference words describing each category, used to
// place a word near or far from the category in an embedding space.
var semanticAnchors = map[model.Category][]string{
	model.CategoryPays:      {"nation", "territoire", "etat", "republique", "royaume", "continent", "frontiere", "capitale"},
	model.CategoryVille:     {"metropole", "commune", "agglomeration", "banlieue", "centre-ville", "quartier", "avenue", "place"},
	model.CategoryAnimal:    {"mammifere", "oiseau", "reptile", "poisson", "insecte", "domestique", "sauvage", "predateur", "herbivore"},
	model.CategoryMetier:    {"profession", "travail", "emploi", "carriere", "competence", "salaire", "formation", "expertise"},
	model.CategoryPrenom:    {"nom", "identite", "bapteme", "naissance", "masculin", "feminin", "traditionnel", "moderne"},
	model.CategoryFruit:     {"nutrition", "vitamine", "sucre", "jus", "verger", "recolte", "saveur", "legume", "potager"},
	model.CategoryObjet:     {"materiel", "outil", "utile", "fabrique", "plastique", "metal", "bois", "quotidien", "maison"},
	model.CategoryCelebrite: {"celebre", "connu", "personnalite", "star", "artiste", "histoire", "media", "renommee"},
}

// Anchors returns the semantic anchor words for category.
func Anchors(category model.Category) []string {
	a := semanticAnchors[category]
	out := make([]string, len(a))
	copy(out, a)
	return out
}

// SemanticValidator is the slot for a future embedding model. It never
// reaches a verdict.
type SemanticValidator struct {
	enabled bool
}

// NewSemanticValidator creates the semantic slot.
func NewSemanticValidator(enabled bool) *SemanticValidator {
	return &SemanticValidator{enabled: enabled}
}

// Validate always abstains.
func (v *SemanticValidator) Validate(_ context.Context, _ string, _ model.Category) model.ValidationOutcome {
	if !v.enabled {
		return model.Uncertain(0, model.SourceSemantic, "Semantic validation unavailable")
	}
	return model.Uncertain(0, model.SourceSemantic, "Semantic validation not yet implemented")
}

// SourceName returns AI.
func (v *SemanticValidator) SourceName() string { return model.SourceSemantic }

// IsAvailable mirrors the enabled flag.
func (v *SemanticValidator) IsAvailable() bool { return v.enabled }
