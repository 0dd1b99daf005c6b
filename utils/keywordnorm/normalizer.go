// ABOUTME: This file implements keyword normalization and validation for the aggregation pipeline
// ABOUTME: Pure string-in/string-out logic: markup stripping, deny lists, lemmatization
package keywordnorm

import (
	"html"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/microcosm-cc/bluemonday"
)

const (
	minKeywordLength = 3
	maxKeywordLength = 50

	// Candidates containing a digit must be at least this long. Filters
	// stray numeric fragments while keeping tokens like "covid19".
	minLengthWithDigit = 5
)

// Normalizer validates raw keyword candidates and reduces them to their
// canonical form. It is pure and safe for concurrent use.
type Normalizer struct {
	lemmatizer *golem.Lemmatizer
	stripper   *bluemonday.Policy
}

func New() (*Normalizer, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, err
	}

	return &Normalizer{
		lemmatizer: lemmatizer,
		stripper:   bluemonday.StrictPolicy(),
	}, nil
}

// Normalize returns the canonical form of a raw keyword candidate and true,
// or ("", false) when the candidate is rejected. Rejection is an expected
// outcome, never an error.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	clean := strings.TrimSpace(html.UnescapeString(n.stripper.Sanitize(raw)))
	if clean == "" {
		return "", false
	}

	lowered := strings.ToLower(clean)

	if !lengthOK(lowered) {
		return "", false
	}

	if denied(lowered) {
		return "", false
	}

	if containsDigit(lowered) && len([]rune(lowered)) < minLengthWithDigit {
		return "", false
	}

	// Proper nouns pass through with their casing intact so names keep
	// their identity in the aggregate ("Federal Reserve", not "federal reserve").
	if isProperNoun(clean) {
		return clean, true
	}

	normalized := n.lemmatize(lowered)

	// Lemmatization can shorten a word or turn it into a stop word
	// ("stories" -> "story"), so both checks run again.
	if !lengthOK(normalized) || denied(normalized) {
		return "", false
	}

	return normalized, true
}

func (n *Normalizer) lemmatize(term string) string {
	words := strings.Fields(term)
	for i, word := range words {
		words[i] = n.lemmatizer.Lemma(word)
	}

	return strings.Join(words, " ")
}

func lengthOK(term string) bool {
	length := len([]rune(term))
	return length >= minKeywordLength && length <= maxKeywordLength
}

func denied(term string) bool {
	return stopWords[term] || newsGenericTerms[term] || publicationNames[term]
}

func containsDigit(term string) bool {
	for _, r := range term {
		if unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

// isProperNoun treats a candidate as a name when every word starts with an
// uppercase letter; a fully uppercase word passes only as a short
// initialism ("NATO", "FBI").
func isProperNoun(term string) bool {
	words := strings.Fields(term)
	if len(words) == 0 {
		return false
	}

	for _, word := range words {
		runes := []rune(word)
		if !unicode.IsUpper(runes[0]) {
			return false
		}

		if isAllCaps(runes) {
			if len(runes) > 5 {
				return false
			}
			continue
		}
	}

	return true
}

func isAllCaps(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}

	return true
}
