package services

import (
	"sort"
	"strings"
)

// Expense categories offered by the expense form.
var ExpenseCategories = []string{
	"Food", "Groceries", "Rent", "Transportation", "Utilities", "Entertainment",
	"Education", "Health", "Shopping", "Travel", "Other",
}

const CategoryOther = "Other"

// --- STATIC DICTIONARY ---
var staticRules = map[string]string{
	// FOOD
	"restaurant": "Food", "cafe": "Food", "coffee": "Food", "starbucks": "Food", "pizza": "Food",
	"mcdonald": "Food", "burger": "Food", "chipotle": "Food", "subway": "Food", "uber eats": "Food",
	"doordash": "Food", "grubhub": "Food", "lunch": "Food", "dinner": "Food", "dining hall": "Food",

	// GROCERIES
	"grocery": "Groceries", "groceries": "Groceries", "supermarket": "Groceries", "walmart": "Groceries",
	"kroger": "Groceries", "aldi": "Groceries", "lidl": "Groceries", "trader joe": "Groceries",
	"whole foods": "Groceries", "safeway": "Groceries", "costco": "Groceries",

	// RENT
	"rent": "Rent", "landlord": "Rent", "lease": "Rent", "dorm": "Rent", "housing": "Rent",

	// TRANSPORTATION
	"uber": "Transportation", "lyft": "Transportation", "bus": "Transportation", "metro": "Transportation",
	"train": "Transportation", "gas station": "Transportation", "fuel": "Transportation", "shell": "Transportation",
	"parking": "Transportation", "transit": "Transportation",

	// UTILITIES
	"electric": "Utilities", "water bill": "Utilities", "internet": "Utilities", "wifi": "Utilities",
	"phone bill": "Utilities", "verizon": "Utilities", "at&t": "Utilities", "t-mobile": "Utilities",
	"comcast": "Utilities",

	// ENTERTAINMENT
	"netflix": "Entertainment", "spotify": "Entertainment", "hulu": "Entertainment", "disney": "Entertainment",
	"cinema": "Entertainment", "movie": "Entertainment", "concert": "Entertainment", "steam": "Entertainment",
	"playstation": "Entertainment", "xbox": "Entertainment",

	// EDUCATION
	"tuition": "Education", "textbook": "Education", "course": "Education", "udemy": "Education",
	"coursera": "Education", "chegg": "Education", "bookstore": "Education", "school": "Education",

	// HEALTH
	"pharmacy": "Health", "cvs": "Health", "walgreens": "Health", "doctor": "Health", "dentist": "Health",
	"gym": "Health", "clinic": "Health", "insurance": "Health",

	// SHOPPING
	"amazon": "Shopping", "target": "Shopping", "ebay": "Shopping", "ikea": "Shopping", "clothing": "Shopping",
	"h&m": "Shopping", "zara": "Shopping", "nike": "Shopping",

	// TRAVEL
	"airbnb": "Travel", "hotel": "Travel", "flight": "Travel", "airline": "Travel", "expedia": "Travel",
	"booking.com": "Travel", "hostel": "Travel",
}

// ruleKeys holds the dictionary keys longest first so "uber eats" wins over
// "uber".
var ruleKeys = func() []string {
	keys := make([]string, 0, len(staticRules))
	for k := range staticRules {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Categorize maps a free-text label (merchant or description) to an expense
// category. Unknown labels are Other.
func Categorize(rawLabel string) string {
	normalized := strings.ToLower(strings.TrimSpace(rawLabel))
	if normalized == "" {
		return CategoryOther
	}

	if category, ok := staticRules[normalized]; ok {
		return category
	}
	for _, key := range ruleKeys {
		if strings.Contains(normalized, key) {
			return staticRules[key]
		}
	}
	return CategoryOther
}

// CanonicalCategory returns the known spelling of category, or category
// unchanged when it is not one of ExpenseCategories.
func CanonicalCategory(category string) string {
	for _, c := range ExpenseCategories {
		if strings.EqualFold(c, category) {
			return c
		}
	}
	return category
}
