package memory

import (
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/rules"
)

// priorityRules map intent phrases to durable financial priorities.
var priorityRules = rules.Table{
	{Pattern: "saving for", Label: "saving"},
	{Pattern: "save for", Label: "saving"},
	{Pattern: "save up", Label: "saving"},
	{Pattern: "emergency fund", Label: "emergency fund"},
	{Pattern: "pay off", Label: "debt payoff"},
	{Pattern: "get out of debt", Label: "debt payoff"},
	{Pattern: "retire", Label: "retirement"},
	{Pattern: "buy a house", Label: "home purchase"},
	{Pattern: "down payment", Label: "home purchase"},
	{Pattern: "college fund", Label: "education"},
	{Pattern: "planning a trip", Label: "travel"},
	{Pattern: "planning", Label: "planning ahead"},
}

// investmentRules map investment-style phrases to preferences.
var investmentRules = rules.Table{
	{Pattern: "index fund", Label: "index funds"},
	{Pattern: "etf", Label: "ETFs"},
	{Pattern: "dividend", Label: "dividend investing"},
	{Pattern: "real estate", Label: "real estate"},
	{Pattern: "crypto", Label: "crypto"},
	{Pattern: "bitcoin", Label: "crypto"},
	{Pattern: "bonds", Label: "bonds"},
	{Pattern: "stocks", Label: "stocks"},
	{Pattern: "401k", Label: "retirement accounts"},
	{Pattern: "roth", Label: "retirement accounts"},
}

// habitRules map spending-habit phrases to profile entries.
var habitRules = rules.Table{
	{Pattern: "eating out", Label: "eats out frequently"},
	{Pattern: "eat out", Label: "eats out frequently"},
	{Pattern: "takeout", Label: "eats out frequently"},
	{Pattern: "impulse", Label: "impulse buying"},
	{Pattern: "online shopping", Label: "online shopping"},
	{Pattern: "too many subscriptions", Label: "many subscriptions"},
	{Pattern: "track my spending", Label: "tracks spending closely"},
	{Pattern: "stick to a budget", Label: "budget conscious"},
}

// riskRules detect the user's stated risk appetite; order matters, the
// first phrase seen wins and the tolerance is set exactly once.
var riskRules = rules.Table{
	{Pattern: "conservative", Label: string(model.RiskConservative)},
	{Pattern: "low risk", Label: string(model.RiskConservative)},
	{Pattern: "play it safe", Label: string(model.RiskConservative)},
	{Pattern: "can't afford to lose", Label: string(model.RiskConservative)},
	{Pattern: "aggressive", Label: string(model.RiskAggressive)},
	{Pattern: "high risk", Label: string(model.RiskAggressive)},
	{Pattern: "big returns", Label: string(model.RiskAggressive)},
	{Pattern: "moderate", Label: string(model.RiskModerate)},
	{Pattern: "balanced", Label: string(model.RiskModerate)},
	{Pattern: "some risk", Label: string(model.RiskModerate)},
}

// advancedVocabulary and intermediateVocabulary are the wordlists behind
// literacy-level inference.
var advancedVocabulary = rules.Keywords("advanced",
	"asset allocation", "expense ratio", "tax-loss harvesting",
	"dollar cost averaging", "rebalancing", "options trading",
	"derivative", "hedge", "roth conversion", "capital gains")

var intermediateVocabulary = rules.Keywords("intermediate",
	"diversif", "compound interest", "index fund", "mutual fund",
	"401k", "ira", "etf", "apr", "apy", "net worth")

// lifeEventPatterns detect major life changes, optionally with a
// four-digit year nearby.
var lifeEventPatterns = []struct {
	re    *regexp.Regexp
	event string
}{
	{regexp.MustCompile(`getting married|my wedding|we're engaged|got engaged`), "marriage"},
	{regexp.MustCompile(`pregnant|expecting a baby|having a baby|new baby`), "new child"},
	{regexp.MustCompile(`buying a house|house purchase|buying a home|closing on a house`), "home purchase"},
	{regexp.MustCompile(`graduat\w*`), "graduation"},
	{regexp.MustCompile(`new job|changing jobs|job change|switching jobs|got laid off|lost my job`), "job change"},
}

// yearPattern captures a plausible four-digit year.
var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// stressPatterns feed the bounded stress-indicator list.
var stressPatterns = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`stressed|stressful`), "feeling stressed about money"},
	{regexp.MustCompile(`anxious|anxiety`), "financial anxiety"},
	{regexp.MustCompile(`worried|worry`), "worried about finances"},
	{regexp.MustCompile(`overwhelmed`), "feeling overwhelmed"},
	{regexp.MustCompile(`drowning in|can't keep up`), "struggling to keep up"},
	{regexp.MustCompile(`can't sleep`), "losing sleep over money"},
}

// winPatterns feed the bounded recent-wins list.
var winPatterns = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`paid off`), "paid off a debt"},
	{regexp.MustCompile(`got a raise|got a promotion|promotion`), "career win"},
	{regexp.MustCompile(`bonus`), "received a bonus"},
	{regexp.MustCompile(`reached my goal|hit my goal`), "reached a goal"},
	{regexp.MustCompile(`debt free`), "became debt free"},
	{regexp.MustCompile(`saved \$?\d+`), "savings win"},
}

// adviceTopicRules scan the assistant's own response for what it advised on.
var adviceTopicRules = rules.Table{
	{Pattern: "emergency fund", Label: "emergency fund"},
	{Pattern: "saving", Label: "savings"},
	{Pattern: "invest", Label: "investing"},
	{Pattern: "debt", Label: "debt"},
	{Pattern: "budget", Label: "budgeting"},
	{Pattern: "retirement", Label: "retirement"},
	{Pattern: "tax", Label: "taxes"},
}

// adviceTopicCooldown suppresses duplicate advice-history entries for the
// same topic within a week.
const adviceTopicCooldown = 7 * 24 * time.Hour

// appendUnique adds value to list when absent, reporting whether it did.
func appendUnique(list []string, value string) ([]string, bool) {
	if common.ContainsString(list, value) {
		return list, false
	}
	return append(list, value), true
}

// detectPriorities appends newly seen financial priorities.
func detectPriorities(mem *model.ConversationMemory, text string) bool {
	changed := false
	for _, m := range priorityRules.AllMatches(text) {
		var added bool
		if mem.FinancialPriorities, added = appendUnique(mem.FinancialPriorities, m.Label); added {
			changed = true
		}
	}
	return changed
}

// detectInvestmentPreferences appends newly seen investment preferences.
func detectInvestmentPreferences(mem *model.ConversationMemory, text string) bool {
	changed := false
	for _, m := range investmentRules.AllMatches(text) {
		var added bool
		if mem.InvestmentPreferences, added = appendUnique(mem.InvestmentPreferences, m.Label); added {
			changed = true
		}
	}
	return changed
}

// detectSpendingHabits appends newly seen spending habits.
func detectSpendingHabits(mem *model.ConversationMemory, text string) bool {
	changed := false
	for _, m := range habitRules.AllMatches(text) {
		var added bool
		if mem.SpendingHabits, added = appendUnique(mem.SpendingHabits, m.Label); added {
			changed = true
		}
	}
	return changed
}

// detectLifeEvents appends newly seen life events, capturing a nearby
// four-digit year as the timeframe when one is present.
func detectLifeEvents(mem *model.ConversationMemory, text string) bool {
	changed := false
	for _, p := range lifeEventPatterns {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}

		exists := false
		for _, ev := range mem.LifeEvents {
			if ev.Event == p.event {
				exists = true
				break
			}
		}
		if exists {
			continue
		}

		event := model.LifeEvent{Event: p.event}
		// Look for a year within the few words after the phrase.
		window := text[loc[1]:]
		if len(window) > 40 {
			window = window[:40]
		}
		if year := yearPattern.FindString(window); year != "" {
			event.Timeframe = year
		}

		mem.LifeEvents = append(mem.LifeEvents, event)
		changed = true
	}
	return changed
}

// detectRiskTolerance sets the risk tolerance exactly once.
func detectRiskTolerance(mem *model.ConversationMemory, text string) bool {
	if mem.RiskTolerance != "" {
		return false
	}
	label := riskRules.FirstMatch(text, "")
	if label == "" {
		return false
	}
	mem.RiskTolerance = model.RiskTolerance(label)
	return true
}

// detectLiteracyLevel infers literacy from vocabulary counts. A turn with
// no finance vocabulary is no evidence either way, so it leaves the level
// unset; later turns may upgrade the level but never downgrade it.
func detectLiteracyLevel(mem *model.ConversationMemory, text string) bool {
	advanced := advancedVocabulary.CountMatches(text)
	intermediate := intermediateVocabulary.CountMatches(text)
	if advanced+intermediate == 0 {
		return false
	}

	level := model.LiteracyIntermediate
	if advanced > 0 && advanced >= intermediate {
		level = model.LiteracyAdvanced
	}
	if literacyRank(level) <= literacyRank(mem.FinancialLiteracy) {
		return false
	}
	mem.FinancialLiteracy = level
	return true
}

func literacyRank(level model.LiteracyLevel) int {
	switch level {
	case model.LiteracyAdvanced:
		return 3
	case model.LiteracyIntermediate:
		return 2
	case model.LiteracyBeginner:
		return 1
	default:
		return 0
	}
}

// detectEmotionalState appends stress and win signals to the bounded lists.
func detectEmotionalState(mem *model.ConversationMemory, text string, now time.Time) bool {
	changed := false
	for _, p := range stressPatterns {
		if !p.re.MatchString(text) {
			continue
		}
		if common.ContainsString(mem.EmotionalState.StressIndicators, p.label) {
			continue
		}
		mem.EmotionalState.StressIndicators = common.AppendBounded(mem.EmotionalState.StressIndicators, p.label, 5)
		changed = true
	}
	for _, p := range winPatterns {
		if !p.re.MatchString(text) {
			continue
		}
		if common.ContainsString(mem.EmotionalState.RecentWins, p.label) {
			continue
		}
		mem.EmotionalState.RecentWins = common.AppendBounded(mem.EmotionalState.RecentWins, p.label, 5)
		changed = true
	}
	if changed {
		mem.EmotionalState.LastAssessed = now
	}
	return changed
}

// detectAdviceTopics records what the assistant advised on, with a per-topic
// cooldown so repeat conversations do not pile up duplicate entries.
func detectAdviceTopics(mem *model.ConversationMemory, aiResponse string, now time.Time) bool {
	lower := strings.ToLower(aiResponse)
	changed := false

	for _, m := range adviceTopicRules.AllMatches(lower) {
		recent := false
		for _, rec := range mem.AdviceHistory {
			if rec.Topic == m.Label && now.Sub(rec.Date) < adviceTopicCooldown {
				recent = true
				break
			}
		}
		if recent {
			continue
		}

		mem.AdviceHistory = common.AppendBounded(mem.AdviceHistory, model.AdviceRecord{
			Topic:   m.Label,
			Summary: summarize(aiResponse),
			Date:    now,
		}, 10)
		changed = true
	}
	return changed
}

// summarize keeps the first sentence of the response, capped for storage.
func summarize(response string) string {
	response = strings.TrimSpace(response)
	if idx := strings.IndexAny(response, ".!?"); idx > 0 {
		response = response[:idx+1]
	}
	if len(response) > 160 {
		response = response[:157] + "..."
	}
	return response
}
