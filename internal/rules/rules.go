// Package rules implements a generic ordered rule-table evaluator.
//
// Every keyword classifier in the engine (transaction categories, action
// intent, memory pattern detection, literacy vocabulary) is the same shape:
// an ordered list of (pattern, label) pairs where the first or every match
// wins. This package models that shape once so the detectors only supply
// their tables.
package rules

import (
	"regexp"
	"strings"
)

// MatchStrength grades how a pattern matched.
type MatchStrength int

const (
	// NoMatch means the pattern did not match.
	NoMatch MatchStrength = iota
	// Partial means the pattern matched as a substring.
	Partial
	// Exact means the pattern matched on word boundaries.
	Exact
)

// Rule is a single (pattern, label) pair. Patterns are matched
// case-insensitively as substrings; word-boundary hits are reported as
// Exact matches.
type Rule struct {
	Pattern string
	Label   string
}

// Table is an ordered list of rules. Order matters: FirstMatch returns the
// earliest rule whose pattern matches.
type Table []Rule

// Match is one rule hit with its strength.
type Match struct {
	Label    string
	Pattern  string
	Strength MatchStrength
}

// wordBoundary matches a pattern on word boundaries within text.
func wordBoundary(pattern, text string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(pattern) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// evaluate grades a single pattern against lower-cased text.
func evaluate(pattern, lower string) MatchStrength {
	p := strings.ToLower(pattern)
	if !strings.Contains(lower, p) {
		return NoMatch
	}
	if wordBoundary(p, lower) {
		return Exact
	}
	return Partial
}

// FirstMatch returns the label of the first rule whose pattern matches
// text, or fallback when nothing matches.
func (t Table) FirstMatch(text, fallback string) string {
	lower := strings.ToLower(text)
	for _, r := range t {
		if evaluate(r.Pattern, lower) != NoMatch {
			return r.Label
		}
	}
	return fallback
}

// AllMatches returns every rule hit in table order, at most one per label
// (the strongest hit for that label wins).
func (t Table) AllMatches(text string) []Match {
	lower := strings.ToLower(text)
	byLabel := make(map[string]int)
	var matches []Match
	for _, r := range t {
		strength := evaluate(r.Pattern, lower)
		if strength == NoMatch {
			continue
		}
		if idx, seen := byLabel[r.Label]; seen {
			if strength > matches[idx].Strength {
				matches[idx].Strength = strength
				matches[idx].Pattern = r.Pattern
			}
			continue
		}
		byLabel[r.Label] = len(matches)
		matches = append(matches, Match{Label: r.Label, Pattern: r.Pattern, Strength: strength})
	}
	return matches
}

// Contains reports whether any rule pattern appears in text. Used for
// membership tests where the label does not matter, such as action-intent
// detection.
func (t Table) Contains(text string) bool {
	lower := strings.ToLower(text)
	for _, r := range t {
		if strings.Contains(lower, strings.ToLower(r.Pattern)) {
			return true
		}
	}
	return false
}

// CountMatches returns how many rule patterns appear in text, counting each
// pattern once. Used by the literacy-level detector to weigh vocabulary.
func (t Table) CountMatches(text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, r := range t {
		if strings.Contains(lower, strings.ToLower(r.Pattern)) {
			count++
		}
	}
	return count
}

// Keywords builds a table from bare patterns that all share one label.
func Keywords(label string, patterns ...string) Table {
	t := make(Table, 0, len(patterns))
	for _, p := range patterns {
		t = append(t, Rule{Pattern: p, Label: label})
	}
	return t
}
