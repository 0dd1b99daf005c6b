// ABOUTME: Tests for the heuristic fallback keyword extractor
// ABOUTME: Checks entity preference, phrase extraction, dedup and the candidate cap
package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicExtractor_Extract(t *testing.T) {
	e := NewHeuristicExtractor(testLoggerService())

	candidates := e.Extract(
		"Federal Reserve Raises Interest Rates",
		"The Federal Reserve announced a rate increase on Wednesday, citing persistent inflation across the economy.",
	)

	assert.NotEmpty(t, candidates)
	assert.LessOrEqual(t, len(candidates), maxHeuristicKeywords)

	joined := strings.ToLower(strings.Join(candidates, " | "))
	assert.Contains(t, joined, "federal reserve")
}

func TestHeuristicExtractor_NoDuplicates(t *testing.T) {
	e := NewHeuristicExtractor(testLoggerService())

	candidates := e.Extract(
		"Inflation, inflation, inflation",
		"Inflation dominated the discussion. Inflation again.",
	)

	seen := make(map[string]bool)
	for _, c := range candidates {
		lowered := strings.ToLower(c)
		assert.False(t, seen[lowered], "duplicate candidate %q", c)
		seen[lowered] = true
	}
}

func TestHeuristicExtractor_EmptyInput(t *testing.T) {
	e := NewHeuristicExtractor(testLoggerService())

	candidates := e.Extract("", "")
	assert.Empty(t, candidates)
}

func TestHeuristicExtractor_CandidateCap(t *testing.T) {
	e := NewHeuristicExtractor(testLoggerService())

	long := "The president met the senator, the governor, the mayor, the ambassador, " +
		"the minister, the director, the chairman, the analyst, the economist, " +
		"the banker, the trader and the investor in Washington on Monday."

	candidates := e.Extract("Crowded Meeting", long)
	assert.LessOrEqual(t, len(candidates), maxHeuristicKeywords)
}
