package model

// FactorScore is one of the five weighted sub-scores that make up a
// composite health score.
type FactorScore struct {
	Name           string
	Label          string
	Recommendation string
	Score          float64
	Value          float64 // the raw metric the score was derived from
}

// HealthScore is the composite 0-100 financial health assessment.
// It is recomputed fresh on every call; no history is persisted.
type HealthScore struct {
	Grade       string
	Summary     string
	TopPriority string
	Breakdown   []FactorScore
	Overall     int
}
