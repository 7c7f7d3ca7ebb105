package lists

import "strings"

// Uncategorized is returned when no keyword matches.
const Uncategorized = "uncategorized"

type category struct {
	name     string
	keywords []string
}

// categories is scanned in order; the first category with a matching keyword
// wins.
var categories = []category{
	{"produce", []string{
		"apple", "apfel", "banana", "banane", "lemons", "zitrone", "limes", "orange", "grape", "traube",
		"berry", "berries", "beere", "strawberr", "erdbeer", "melon", "avocado", "tomato", "tomate",
		"potato", "kartoffel", "onion", "zwiebel", "garlic", "knoblauch", "carrot", "karotte", "möhre",
		"cucumber", "gurke", "paprika", "lettuce", "salad", "salat", "spinach", "spinat", "mushroom",
		"champignon", "pilz", "zucchini", "broccoli", "brokkoli", "fruit", "obst", "gemüse", "vegetable",
	}},
	{"dairy", []string{
		"milk", "milch", "cheese", "käse", "yogurt", "yoghurt", "joghurt", "butter", "cream", "sahne",
		"quark", "eggs", "eier", "mozzarella", "parmesan",
	}},
	{"bakery", []string{
		"bread", "brot", "rolls", "brötchen", "bagel", "croissant", "toast", "baguette", "cake", "kuchen",
	}},
	{"meat & fish", []string{
		"chicken", "hähnchen", "huhn", "beef", "rind", "pork", "schwein", "steak", "ham", "schinken",
		"sausage", "wurst", "bacon", "speck", "salami", "mince", "hackfleisch", "fish", "fisch",
		"salmon", "lachs", "tuna", "thunfisch", "shrimp", "garnele",
	}},
	{"pantry", []string{
		"pasta", "nudel", "spaghetti", "rice", "reis", "flour", "mehl", "sugar", "zucker", "salt", "salz",
		"oil", "öl", "vinegar", "essig", "sauce", "soße", "honey", "honig", "jam", "marmelade", "cereal",
		"müsli", "oat", "hafer", "beans", "bohnen", "lentil", "linsen",
	}},
	{"frozen", []string{
		"frozen", "tiefkühl", "ice cream", "pizza", "fries", "pommes",
	}},
	{"beverages", []string{
		"water", "wasser", "juice", "saft", "coffee", "kaffee", "tea", "beer", "bier", "wine", "wein",
		"cola", "soda", "lemonade", "limonade",
	}},
	{"household", []string{
		"toilet paper", "klopapier", "paper towel", "küchenrolle", "detergent", "waschmittel",
		"dish soap", "spülmittel", "trash bag", "müllbeutel", "sponge", "schwamm", "battery", "batterie",
	}},
	{"personal care", []string{
		"shampoo", "soap", "seife", "toothpaste", "zahnpasta", "deodorant", "deo", "lotion", "razor", "rasierer",
	}},
}

// Categorize assigns a shopping item name to a category by keyword.
func Categorize(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return Uncategorized
	}
	for _, category := range categories {
		for _, keyword := range category.keywords {
			if strings.Contains(normalized, keyword) {
				return category.name
			}
		}
	}
	return Uncategorized
}

// Categories lists the category names in match order, Uncategorized last.
func Categories() []string {
	names := make([]string, 0, len(categories)+1)
	for _, category := range categories {
		names = append(names, category.name)
	}
	return append(names, Uncategorized)
}
