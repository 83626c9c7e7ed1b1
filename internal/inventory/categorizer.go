package inventory

import (
	"strings"

	"pantrypilot/internal/models"
)

// categoryRule pairs a category with the keywords that imply it. Rules are
// evaluated in order; the first keyword hit wins.
type categoryRule struct {
	category models.ItemCategory
	keywords []string
}

// categoryRules is the ordered keyword table used to infer a category when
// the caller omits one. "frozen" is checked first so that "frozen peas" does
// not land in produce.
var categoryRules = []categoryRule{
	{models.CategoryFrozen, []string{"frozen", "ice cream"}},
	{models.CategoryDairy, []string{"milk", "cheese", "yogurt", "yoghurt", "butter", "cream"}},
	{models.CategoryProtein, []string{"chicken", "beef", "pork", "lamb", "fish", "salmon", "tuna", "egg", "tofu", "mince", "sausage", "ham", "beans", "lentil"}},
	{models.CategoryBakery, []string{"bread", "bagel", "roll", "bun", "croissant", "tortilla", "wrap"}},
	{models.CategoryGrains, []string{"pasta", "rice", "oats", "noodle", "flour", "couscous", "quinoa", "cereal"}},
	{models.CategoryProduce, []string{"apple", "banana", "orange", "berry", "grape", "tomato", "onion", "garlic", "potato", "carrot", "pepper", "lettuce", "spinach", "broccoli", "cucumber", "mushroom", "pea", "avocado", "lemon", "lime"}},
	{models.CategoryBeverages, []string{"juice", "coffee", "tea", "soda", "cola", "water", "squash"}},
	{models.CategorySnacks, []string{"crisps", "chips", "chocolate", "biscuit", "cookie", "nuts", "popcorn"}},
	{models.CategoryCondiments, []string{"sauce", "oil", "vinegar", "ketchup", "mayo", "mustard", "salt", "sugar", "spice", "herb", "stock", "honey", "jam"}},
}

// Categorize infers an item category from its name using the ordered keyword
// table. Unrecognized names fall through to "other". The classifier is pure
// and stateless.
func Categorize(name string) models.ItemCategory {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return models.CategoryOther
}
