package domain

import (
	"strings"
	"time"
)

// Bias is the political-bias label of an article's source. It is assigned
// when the source is configured and is immutable through the classification
// pipeline; the inference service's own bias estimate is never written back.
type Bias string

const (
	BiasUnknown      Bias = "Unknown"
	BiasLeft         Bias = "Left"
	BiasLeanLeft     Bias = "Lean Left"
	BiasCenter       Bias = "Center"
	BiasLeanRight    Bias = "Lean Right"
	BiasRight        Bias = "Right"
	BiasConservative Bias = "Conservative"
	BiasLiberal      Bias = "Liberal"
)

// Known reports whether the bias label carries real information. A source
// configured without a bias resolves to BiasUnknown, and the classifier
// skips asking the inference service to estimate one only when it is known.
func (b Bias) Known() bool {
	return b != "" && b != BiasUnknown
}

// Source describes the outlet an article came from, resolved from the
// source configuration store by feed id before classification.
type Source struct {
	Name     string `json:"name" db:"source_name"`
	Category string `json:"category" db:"source_category"`
	Bias     Bias   `json:"bias" db:"source_bias"`
}

// CategoryDepth counts the '>'-delimited segments of the category path.
// "Business>Markets" is deeper (more specific) than "Business"; an empty
// category has depth zero.
func (s Source) CategoryDepth() int {
	path := strings.TrimSpace(s.Category)
	if path == "" {
		return 0
	}
	return len(strings.Split(path, ">"))
}

// Article represents one ingested unit of syndicated content.
type Article struct {
	ExternalID             string    `json:"externalId" db:"external_id"`
	Title                  string    `json:"title" db:"title"`
	URL                    string    `json:"url" db:"url"`
	ContentSnippet         string    `json:"contentSnippet" db:"content_snippet"`
	PublishedAt            time.Time `json:"publishedAt" db:"published_at"`
	Source                 Source    `json:"source"`
	Keywords               []string  `json:"keywords" db:"keywords"`
	ClassificationStatus   bool      `json:"classificationStatus" db:"classification_status"`
	ClassificationAttempts int       `json:"classificationAttempts" db:"classification_attempts"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
}

// DedupeKey is the normalized-title key under which near-duplicate articles
// collapse. Articles without a usable title return "" and are dropped by the
// deduplicator.
func (a Article) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(a.Title))
}
