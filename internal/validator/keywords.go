package validator

import "github.com/Veraticus/petit-bac/internal/model"

// categoryKeywords are the English terms searched for in dictionary
// definitions. Categories without an entry are not covered by the
// dictionary lookup.
var categoryKeywords = map[model.Category][]string{
	model.CategoryAnimal: {
		"animal", "mammal", "bird", "fish", "reptile", "insect", "creature",
		"pet", "domesticated", "wildlife", "species", "vertebrate", "invertebrate",
	},
	model.CategoryFruit: {
		"fruit", "berry", "citrus", "tropical", "edible", "sweet", "juicy",
		"vitamin", "nutritious", "organic", "fresh", "ripe",
	},
	model.CategoryPays: {
		"country", "nation", "republic", "kingdom", "state", "territory",
		"sovereign", "government", "capital", "continent", "border", "citizenship",
	},
	model.CategoryVille: {
		"city", "town", "municipality", "urban", "metropolitan", "capital",
		"district", "borough", "settlement", "population", "downtown", "suburb",
	},
}

// Keywords returns the dictionary keywords for category, or nil when the
// category is not covered.
func Keywords(category model.Category) []string {
	kw := categoryKeywords[category]
	if len(kw) == 0 {
		return nil
	}
	out := make([]string, len(kw))
	copy(out, kw)
	return out
}
