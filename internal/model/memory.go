package model

import "time"

// RiskTolerance is the user's stated appetite for investment risk.
type RiskTolerance string

const (
	// RiskConservative prefers capital preservation.
	RiskConservative RiskTolerance = "conservative"
	// RiskModerate accepts balanced risk.
	RiskModerate RiskTolerance = "moderate"
	// RiskAggressive accepts high volatility for growth.
	RiskAggressive RiskTolerance = "aggressive"
)

// LiteracyLevel is an inferred measure of the user's financial vocabulary.
type LiteracyLevel string

const (
	// LiteracyBeginner has little exposure to financial terms.
	LiteracyBeginner LiteracyLevel = "beginner"
	// LiteracyIntermediate is comfortable with everyday finance vocabulary.
	LiteracyIntermediate LiteracyLevel = "intermediate"
	// LiteracyAdvanced uses specialist investment vocabulary.
	LiteracyAdvanced LiteracyLevel = "advanced"
)

// LifeEvent is a detected life change with an optional timeframe
// (typically a four-digit year captured from the message).
type LifeEvent struct {
	Event     string `json:"event"`
	Timeframe string `json:"timeframe,omitempty"`
}

// EmotionalState tracks recent stress signals and wins so advice can match
// the user's mood. Both lists are bounded to the most recent five entries.
type EmotionalState struct {
	LastAssessed     time.Time `json:"lastAssessed"`
	StressIndicators []string  `json:"stressIndicators,omitempty"`
	RecentWins       []string  `json:"recentWins,omitempty"`
}

// AdviceRecord is one prior piece of advice given to the user.
type AdviceRecord struct {
	Date    time.Time `json:"date"`
	Topic   string    `json:"topic"`
	Summary string    `json:"summary"`
	Outcome string    `json:"outcome,omitempty"`
}

// ConversationMemory is the durable per-user profile accumulated from chat
// turns. Fields grow by set union; nothing here is ever silently
// overwritten, and the profile is merged (never replaced) on update.
// It is serialized as JSON into the user-preferences blob.
type ConversationMemory struct {
	EmotionalState        EmotionalState `json:"emotionalState"`
	RiskTolerance         RiskTolerance  `json:"riskTolerance,omitempty"`
	FinancialLiteracy     LiteracyLevel  `json:"financialLiteracyLevel,omitempty"`
	PreferredDetailLevel  string         `json:"preferredDetailLevel,omitempty"`
	FinancialPriorities   []string       `json:"financialPriorities,omitempty"`
	InvestmentPreferences []string       `json:"investmentPreferences,omitempty"`
	SpendingHabits        []string       `json:"spendingHabits,omitempty"`
	LifeEvents            []LifeEvent    `json:"lifeEvents,omitempty"`
	AdviceHistory         []AdviceRecord `json:"adviceHistory,omitempty"`
}

// HasSignals reports whether any profile field has been populated.
func (m *ConversationMemory) HasSignals() bool {
	return len(m.FinancialPriorities) > 0 ||
		len(m.InvestmentPreferences) > 0 ||
		len(m.SpendingHabits) > 0 ||
		len(m.LifeEvents) > 0 ||
		len(m.AdviceHistory) > 0 ||
		len(m.EmotionalState.StressIndicators) > 0 ||
		len(m.EmotionalState.RecentWins) > 0 ||
		m.RiskTolerance != "" ||
		m.FinancialLiteracy != ""
}
