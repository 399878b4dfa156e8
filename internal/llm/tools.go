package llm

import "github.com/Veraticus/pennywise/internal/model"

// Catalog returns the fixed set of actions the advisor may request.
//
// Tool descriptions carry the invocation policy shown to the model: the
// informational tools may be used freely for analytical questions; the
// mutating tools only after the user has explicitly confirmed a proposal;
// the two logging tools immediately on a clear factual statement. The
// policy is additionally enforced in the advisor, which withholds mutating
// calls until a matching proposal has been affirmed.
func Catalog() []model.ToolDefinition {
	return []model.ToolDefinition{
		{
			Name:        "create_goal",
			Description: "Create a new savings goal. Only invoke after you have explained your reasoning in a previous turn and the user has explicitly confirmed they want the goal created.",
			Mutating:    true,
			Properties: map[string]model.ToolProperty{
				"title":         {Type: "string", Description: "Short name for the goal"},
				"target_amount": {Type: "number", Description: "Target amount in the user's currency"},
				"target_date":   {Type: "string", Description: "Target date in YYYY-MM-DD format"},
			},
			Required: []string{"title", "target_amount"},
		},
		{
			Name:        "create_event",
			Description: "Create an upcoming financial event or reminder. Only invoke after the user has explicitly confirmed.",
			Mutating:    true,
			Properties: map[string]model.ToolProperty{
				"title":           {Type: "string", Description: "Event title"},
				"date":            {Type: "string", Description: "Event date in YYYY-MM-DD format"},
				"estimated_value": {Type: "number", Description: "Estimated cost of the event"},
			},
			Required: []string{"title", "date"},
		},
		{
			Name:        "add_transaction",
			Description: "Log a transaction the user states as fact, such as 'I spent $40 on groceries'. May be invoked immediately without confirmation.",
			Properties: map[string]model.ToolProperty{
				"description": {Type: "string", Description: "What the money was spent on or received for"},
				"amount":      {Type: "number", Description: "Transaction amount"},
				"type":        {Type: "string", Description: "Either income or expense"},
			},
			Required: []string{"description", "amount", "type"},
		},
		{
			Name:        "create_group",
			Description: "Create a shared expense group. Only invoke after the user has explicitly confirmed.",
			Mutating:    true,
			Properties: map[string]model.ToolProperty{
				"name":    {Type: "string", Description: "Group name"},
				"purpose": {Type: "string", Description: "What the group is for"},
			},
			Required: []string{"name"},
		},
		{
			Name:        "add_crypto_holding",
			Description: "Record a crypto holding the user states as fact, such as 'I bought 0.1 BTC'. May be invoked immediately without confirmation.",
			Properties: map[string]model.ToolProperty{
				"symbol": {Type: "string", Description: "Asset ticker symbol, e.g. BTC"},
				"amount": {Type: "number", Description: "Quantity held"},
			},
			Required: []string{"symbol", "amount"},
		},
		{
			Name:        "analyze_allocation",
			Description: "Analyze the user's asset allocation against an age-based heuristic. Informational; use freely for analytical questions.",
			Properties: map[string]model.ToolProperty{
				"age": {Type: "number", Description: "User's age in years"},
			},
			Required: []string{"age"},
		},
		{
			Name:        "payoff_strategy",
			Description: "Compare avalanche and snowball debt payoff strategies. Informational; use freely for analytical questions.",
			Properties: map[string]model.ToolProperty{
				"total_debt":      {Type: "number", Description: "Total outstanding debt"},
				"monthly_payment": {Type: "number", Description: "Amount available per month"},
				"highest_rate":    {Type: "number", Description: "Highest interest rate among the debts, percent"},
			},
			Required: []string{"total_debt", "monthly_payment"},
		},
		{
			Name:        "future_value",
			Description: "Project the future value of recurring contributions. Informational; use freely for analytical questions.",
			Properties: map[string]model.ToolProperty{
				"monthly_contribution": {Type: "number", Description: "Contribution per month"},
				"annual_rate":          {Type: "number", Description: "Expected annual return, percent"},
				"years":                {Type: "number", Description: "Investment horizon in years"},
			},
			Required: []string{"monthly_contribution", "years"},
		},
		{
			Name:        "retirement_needs",
			Description: "Estimate the savings needed to retire. Informational; use freely for analytical questions.",
			Properties: map[string]model.ToolProperty{
				"current_age":      {Type: "number", Description: "User's age in years"},
				"retirement_age":   {Type: "number", Description: "Planned retirement age"},
				"monthly_expenses": {Type: "number", Description: "Expected monthly expenses in retirement"},
			},
			Required: []string{"current_age", "retirement_age", "monthly_expenses"},
		},
	}
}

// CatalogByName indexes the catalog for validation lookups.
func CatalogByName() map[string]model.ToolDefinition {
	defs := Catalog()
	byName := make(map[string]model.ToolDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}
	return byName
}
