package model

import "strings"

// Category is one of the fixed semantic domains a word is checked against.
type Category string

// Category constants, in game order.
const (
	CategoryPays      Category = "PAYS"
	CategoryVille     Category = "VILLE"
	CategoryAnimal    Category = "ANIMAL"
	CategoryMetier    Category = "METIER"
	CategoryPrenom    Category = "PRENOM"
	CategoryFruit     Category = "FRUIT"
	CategoryObjet     Category = "OBJET"
	CategoryCelebrite Category = "CELEBRITE"
)

type categoryInfo struct {
	label string
	icon  string
	hint  string
}

var categoryOrder = []Category{
	CategoryPays,
	CategoryVille,
	CategoryAnimal,
	CategoryMetier,
	CategoryPrenom,
	CategoryFruit,
	CategoryObjet,
	CategoryCelebrite,
}

var categoryInfos = map[Category]categoryInfo{
	CategoryPays:      {label: "Pays", icon: "🌍", hint: "Un pays du monde"},
	CategoryVille:     {label: "Ville", icon: "🏙️", hint: "Une ville"},
	CategoryAnimal:    {label: "Animal", icon: "🐾", hint: "Un animal"},
	CategoryMetier:    {label: "Métier", icon: "👔", hint: "Une profession"},
	CategoryPrenom:    {label: "Prénom", icon: "👤", hint: "Un prénom"},
	CategoryFruit:     {label: "Fruit/Légume", icon: "🍎", hint: "Un fruit ou légume"},
	CategoryObjet:     {label: "Objet", icon: "📦", hint: "Un objet du quotidien"},
	CategoryCelebrite: {label: "Célébrité", icon: "⭐", hint: "Une personne célèbre"},
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// IsKnown reports whether c is one of the declared categories.
func (c Category) IsKnown() bool {
	_, ok := categoryInfos[c]
	return ok
}

// Key is the lowercase identifier used for cache keys and word list lookups.
func (c Category) Key() string {
	return strings.ToLower(string(c))
}

// Label is the display name shown to players.
func (c Category) Label() string {
	if info, ok := categoryInfos[c]; ok {
		return info.label
	}
	return string(c)
}

// Icon returns the emoji shown next to the label.
func (c Category) Icon() string {
	return categoryInfos[c].icon
}

// Hint is a short description of what belongs in the category.
func (c Category) Hint() string {
	return categoryInfos[c].hint
}

func (c Category) String() string {
	return string(c)
}

// CategoryFromKey maps a cache key or identifier back to its category.
func CategoryFromKey(key string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(key)))
	if !c.IsKnown() {
		return "", false
	}
	return c, true
}
