package interpret

import "strings"

// CategoryOther is the fallback when no rule matches.
const CategoryOther = "Other"

// CategoryRule maps a category name to lowercase keyword substrings
type CategoryRule struct {
	Category string
	Keywords []string
}

// CategoryRules drives category inference. Rules are evaluated in slice
// order and the first keyword hit wins, so ordering is part of the
// configuration. The zero value categorizes everything as Other.
type CategoryRules struct {
	Merchants []CategoryRule
	Items     []CategoryRule
}

// DefaultCategoryRules returns the built-in keyword tables
func DefaultCategoryRules() CategoryRules {
	return CategoryRules{
		Merchants: []CategoryRule{
			{Category: "Groceries", Keywords: []string{"walmart", "target", "safeway", "kroger", "whole foods"}},
			{Category: "Gas", Keywords: []string{"shell", "exxon", "chevron", "bp", "mobil"}},
			{Category: "Dining", Keywords: []string{"restaurant", "cafe", "pizza", "subway", "mcdonald"}},
			{Category: "Shopping", Keywords: []string{"amazon", "best buy", "macy", "nike", "apple store"}},
			{Category: "Transport", Keywords: []string{"uber", "lyft", "taxi", "metro", "bus"}},
			{Category: "Banking", Keywords: []string{"bank", "gcash", "gotyme", "transfer"}},
		},
		Items: []CategoryRule{
			{Category: "Groceries", Keywords: []string{"milk", "bread", "eggs", "vegetables", "fruit"}},
			{Category: "Dining", Keywords: []string{"burger", "pizza", "coffee", "drink", "meal"}},
			{Category: "Gas", Keywords: []string{"gasoline", "fuel", "diesel"}},
			{Category: "Healthcare", Keywords: []string{"pharmacy", "medicine", "prescription"}},
		},
	}
}

// Categorize infers a spending category from the merchant name, falling back
// to the concatenated item names, then to Other
func (r CategoryRules) Categorize(merchant string, items []Item) string {
	merchantLower := strings.ToLower(merchant)
	for _, rule := range r.Merchants {
		for _, keyword := range rule.Keywords {
			if strings.Contains(merchantLower, keyword) {
				return rule.Category
			}
		}
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, strings.ToLower(item.Name))
	}
	itemNames := strings.Join(names, " ")
	for _, rule := range r.Items {
		for _, keyword := range rule.Keywords {
			if strings.Contains(itemNames, keyword) {
				return rule.Category
			}
		}
	}

	return CategoryOther
}
