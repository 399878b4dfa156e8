// Package category implements keyword-based transaction categorization.
package category

import (
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/rules"
)

// DefaultExpense is the bucket for expenses no rule matches.
const DefaultExpense = "Other"

// DefaultIncome is the bucket for income no rule matches.
const DefaultIncome = "Other Income"

// categoryDef pairs a category name with the merchant names and generic
// nouns that identify it. Order matters: the first keyword hit in table
// order wins, so more specific categories come first (e.g. "gas bill" in
// Utilities is listed before Transportation's "gas").
type categoryDef struct {
	name     string
	keywords []string
}

// expenseCategories is the ordered expense table.
var expenseCategories = []categoryDef{
	{"Housing", []string{"rent", "apartment", "landlord", "hoa", "lease"}},
	{"Mortgage", []string{"mortgage", "escrow"}},
	{"Utilities", []string{"gas bill", "electric", "water bill", "internet", "comcast", "xfinity", "verizon", "t-mobile", "utility", "sewage", "trash"}},
	{"Groceries", []string{"grocery", "supermarket", "whole foods", "trader joe", "safeway", "kroger", "aldi", "costco", "walmart"}},
	{"Dining", []string{"restaurant", "starbucks", "coffee", "cafe", "mcdonald", "chipotle", "pizza", "burger", "doordash", "uber eats", "grubhub", "diner", "sushi", "takeout"}},
	{"Transportation", []string{"uber", "lyft", "taxi", "gas station", "gas", "shell", "chevron", "exxon", "parking", "toll", "transit", "metro", "bus fare", "train"}},
	{"Travel", []string{"flight", "airline", "hotel", "airbnb", "delta", "united", "southwest", "expedia", "cruise"}},
	{"Healthcare", []string{"pharmacy", "cvs", "walgreens", "doctor", "dentist", "hospital", "clinic", "copay", "medical"}},
	{"Insurance", []string{"insurance", "geico", "allstate", "premium"}},
	{"Fitness", []string{"gym", "fitness", "yoga", "peloton", "crossfit"}},
	{"Entertainment", []string{"movie", "cinema", "theater", "concert", "ticketmaster", "gaming", "playstation", "xbox", "steam"}},
	{"Subscriptions", []string{"netflix", "spotify", "hulu", "disney+", "hbo", "youtube premium", "subscription", "membership", "prime"}},
	{"Shopping", []string{"amazon", "target", "shopping", "mall", "clothing", "shoes", "nike", "best buy", "ikea"}},
	{"Education", []string{"tuition", "course", "udemy", "coursera", "textbook", "school"}},
	{"Personal Care", []string{"haircut", "salon", "spa", "barber", "cosmetics"}},
	{"Pets", []string{"vet", "petco", "petsmart", "chewy", "pet food"}},
	{"Kids", []string{"daycare", "babysitter", "preschool", "toys"}},
	{"Gifts & Donations", []string{"gift", "donation", "charity", "gofundme"}},
	{"Credit Card Payment", []string{"credit card", "card payment"}},
	{"Loan Payment", []string{"student loan", "loan", "sallie mae"}},
	{"Taxes", []string{"irs", "tax payment", "property tax"}},
	{"Fees & Charges", []string{"overdraft", "atm fee", "service charge", "late fee", "interest charge", "fee"}},
	{"Investments", []string{"vanguard", "fidelity", "robinhood", "brokerage", "401k", "etf"}},
}

// incomeCategories is the ordered income table. Income transactions are
// matched only against these.
var incomeCategories = []categoryDef{
	{"Salary", []string{"salary", "payroll", "paycheck", "direct deposit", "wages"}},
	{"Freelance", []string{"freelance", "invoice", "client payment", "upwork", "fiverr", "consulting"}},
	{"Investment Income", []string{"dividend", "interest", "capital gain", "investment"}},
	{"Refund", []string{"refund", "reimbursement", "rebate", "cashback"}},
}

// build flattens ordered category definitions into a rule table.
func build(defs []categoryDef) rules.Table {
	var t rules.Table
	for _, def := range defs {
		for _, kw := range def.keywords {
			t = append(t, rules.Rule{Pattern: kw, Label: def.name})
		}
	}
	return t
}

var (
	expenseTable = build(expenseCategories)
	incomeTable  = build(incomeCategories)
	// fullTable covers both directions for autocomplete suggestions.
	fullTable = append(append(rules.Table{}, expenseTable...), incomeTable...)
)

// Categorize maps a free-text transaction description to a category.
// Income transactions search only income categories; expenses search the
// full expense table in order. The first keyword hit wins; descriptions
// nothing matches land in the default bucket. Deterministic and stateless.
func Categorize(description string, _ float64, txType model.TransactionType) string {
	if txType == model.TypeIncome {
		return incomeTable.FirstMatch(description, DefaultIncome)
	}
	return expenseTable.FirstMatch(description, DefaultExpense)
}

// Confidence grades a suggestion for UI autocomplete.
type Confidence string

const (
	// ConfidenceHigh is a word-boundary keyword hit.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium is a substring-only hit.
	ConfidenceMedium Confidence = "medium"
)

// Suggestion is one ranked category match.
type Suggestion struct {
	Category   string
	Keyword    string
	Confidence Confidence
}

// SuggestCategories returns every category whose keywords appear in the
// description, exact word-boundary matches first, for UI autocomplete.
func SuggestCategories(description string) []Suggestion {
	matches := fullTable.AllMatches(description)

	suggestions := make([]Suggestion, 0, len(matches))
	for _, m := range matches {
		if m.Strength == rules.Exact {
			suggestions = append(suggestions, Suggestion{Category: m.Label, Keyword: m.Pattern, Confidence: ConfidenceHigh})
		}
	}
	for _, m := range matches {
		if m.Strength == rules.Partial {
			suggestions = append(suggestions, Suggestion{Category: m.Label, Keyword: m.Pattern, Confidence: ConfidenceMedium})
		}
	}
	return suggestions
}

// Names returns every category name, expenses first, for prompt and UI
// listings.
func Names() []string {
	names := make([]string, 0, len(expenseCategories)+len(incomeCategories)+2)
	for _, def := range expenseCategories {
		names = append(names, def.name)
	}
	names = append(names, DefaultExpense)
	for _, def := range incomeCategories {
		names = append(names, def.name)
	}
	return append(names, DefaultIncome)
}
