// ABOUTME: This file implements local heuristic keyword extraction for degraded classifications
// ABOUTME: Pulls named-entity chunks and adjective-noun phrases from title and snippet
package service

import (
	"log/slog"
	"strings"

	"github.com/jdkato/prose/v2"
)

// maxHeuristicKeywords caps how many fallback terms one article yields.
const maxHeuristicKeywords = 10

// HeuristicExtractor derives keyword candidates without the inference
// service, from linguistic patterns in the article text.
type HeuristicExtractor struct {
	logger *slog.Logger
}

func NewHeuristicExtractor(logger *slog.Logger) *HeuristicExtractor {
	return &HeuristicExtractor{logger: logger}
}

// Extract returns up to maxHeuristicKeywords candidate terms: named entities
// first, then adjective-noun and noun-noun phrases. Candidates are raw; the
// keyword normalizer validates them downstream.
func (e *HeuristicExtractor) Extract(title, snippet string) []string {
	text := strings.TrimSpace(title + ". " + snippet)

	doc, err := prose.NewDocument(text)
	if err != nil {
		e.logger.Warn("heuristic extraction failed to parse text", "error", err)
		return nil
	}

	var candidates []string
	seen := make(map[string]bool)

	add := func(term string) bool {
		term = strings.TrimSpace(term)
		lowered := strings.ToLower(term)
		if term == "" || seen[lowered] {
			return len(candidates) < maxHeuristicKeywords
		}
		seen[lowered] = true
		candidates = append(candidates, term)
		return len(candidates) < maxHeuristicKeywords
	}

	for _, entity := range doc.Entities() {
		if !add(entity.Text) {
			return candidates
		}
	}

	for _, phrase := range nounPhrases(doc.Tokens()) {
		if !add(phrase) {
			return candidates
		}
	}

	return candidates
}

// nounPhrases collects adjective-noun and noun-noun bigrams plus standalone
// nouns from the tagged token stream.
func nounPhrases(tokens []prose.Token) []string {
	var phrases []string

	for i := 0; i < len(tokens); i++ {
		if !isNoun(tokens[i].Tag) {
			continue
		}

		if i > 0 && (isAdjective(tokens[i-1].Tag) || isNoun(tokens[i-1].Tag)) {
			phrases = append(phrases, tokens[i-1].Text+" "+tokens[i].Text)
			continue
		}

		phrases = append(phrases, tokens[i].Text)
	}

	return phrases
}

func isNoun(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

func isAdjective(tag string) bool {
	return strings.HasPrefix(tag, "JJ")
}
