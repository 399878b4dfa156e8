package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/Veraticus/pennywise/internal/model"
)

// insightUnavailable is returned when no deterministic rule fires and no
// completion client is configured.
const insightUnavailable = "Keep an eye on your spending this week and make sure you're putting something toward savings."

// tipCacheKey is the synthetic message the fallback tip is cached under;
// the context signature still varies the entry per financial situation.
const tipCacheKey = "ambient financial tip"

// ProactiveInsight returns one short ambient message for the given
// snapshot. It is a priority-ordered decision list: hard financial-health
// triggers short-circuit before any model call, and the LLM is consulted
// (through the cache) only when no deterministic rule fires.
func (a *Advisor) ProactiveInsight(ctx context.Context, fc *model.UserFinancialContext) string {
	rate := fc.SavingsRate()
	target := fc.EmergencyFundTarget()
	dominant := dominantCategory(fc)

	switch {
	case fc.MonthlyIncome > 0 && fc.NetMonthly() < 0:
		return fmt.Sprintf("You're spending $%.0f more than you earn each month. Cutting that gap is job one — everything else can wait.", -fc.NetMonthly())

	case fc.TotalSavings <= 0:
		return "You don't have savings yet, and that's okay — start with $25 this week. The first transfer is the hardest one."

	case target > 0 && fc.TotalSavings < target*0.5:
		monthly := fc.NetMonthly()
		if monthly > 0 {
			months := (target - fc.TotalSavings) / monthly
			return fmt.Sprintf("Your emergency fund covers under half its $%.0f target. At your current pace you'd fill it in about %.0f months — consider automating that.", target, months)
		}
		return fmt.Sprintf("Your emergency fund is under half its $%.0f target. Even a small automatic weekly transfer moves the needle.", target)

	case hasSpendingSpike(fc.RecentTransactions):
		return "One of your recent purchases is well above your usual spending. Worth a quick look to make sure it was planned."

	case dominant != "":
		return fmt.Sprintf("%s is taking more than 30%% of your income this month. A cap there frees up more than trimming anywhere else.", dominant)

	case rate > 30 && target > 0 && fc.TotalSavings >= target:
		return "Your emergency fund is full and your savings rate is strong. Money beyond the fund could be working harder in investments."

	case rate >= 20 && rate <= 30:
		return fmt.Sprintf("A %.0f%% savings rate is solid. Nudging it a few points higher — a subscription audit is an easy win — compounds dramatically.", rate)

	case fc.ActiveGoals == 0 && rate > 0:
		return "You're saving without a destination. Naming a goal, even a small one, makes the habit stick."

	case fc.ActiveGoals >= 3:
		return fmt.Sprintf("You're juggling %d goals. Funding the most important one first usually beats spreading thin.", fc.ActiveGoals)
	}

	return a.fallbackTip(ctx, fc)
}

// fallbackTip asks the model for a one-sentence tip, served through the
// response cache so ambient surfaces don't burn a completion per render.
func (a *Advisor) fallbackTip(ctx context.Context, fc *model.UserFinancialContext) string {
	if cached, ok := a.cache.Get(tipCacheKey, fc); ok {
		return cached
	}
	if a.client == nil {
		return insightUnavailable
	}

	prompt := fmt.Sprintf(
		"The user saves %.0f%% of a $%.0f monthly income and has $%.0f saved. In one encouraging sentence, give them a specific financial tip. No preamble.",
		fc.SavingsRate(), fc.MonthlyIncome, fc.TotalSavings)

	resp, err := a.client.Complete(ctx, llm.CompletionRequest{
		Messages:    []model.ChatMessage{{Role: model.RoleUser, Content: prompt}},
		Temperature: 0.9,
		MaxTokens:   80,
	})
	if err != nil {
		a.logger.Warn("ambient tip generation failed", "error", err)
		return insightUnavailable
	}

	tip := strings.TrimSpace(llm.CleanMarkdownWrapper(resp.Text))
	if tip == "" {
		return insightUnavailable
	}
	a.cache.Set(tipCacheKey, fc, tip, len(tip)/4)
	return tip
}

// hasSpendingSpike reports a single expense over three times the average
// of the snapshot's recent expenses and over $100.
func hasSpendingSpike(txns []model.Transaction) bool {
	var total float64
	var count int
	for _, t := range txns {
		if t.Type == model.TypeExpense {
			total += t.Amount
			count++
		}
	}
	if count < 2 {
		return false
	}
	average := total / float64(count)
	for _, t := range txns {
		if t.Type == model.TypeExpense && t.Amount > average*3 && t.Amount > 100 {
			return true
		}
	}
	return false
}

// dominantCategory returns the largest expense category past 30% of
// monthly income, or "". Ties break by name so the surfaced category is
// stable when several qualify.
func dominantCategory(fc *model.UserFinancialContext) string {
	if fc.MonthlyIncome <= 0 {
		return ""
	}
	totals := make(map[string]float64)
	for _, t := range fc.RecentTransactions {
		if t.Type == model.TypeExpense {
			totals[t.Category] += t.Amount
		}
	}

	var best string
	var bestAmount float64
	for category, amount := range totals {
		if amount/fc.MonthlyIncome <= 0.30 {
			continue
		}
		if amount > bestAmount || (amount == bestAmount && (best == "" || category < best)) {
			best, bestAmount = category, amount
		}
	}
	return best
}
