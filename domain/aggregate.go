package domain

// KeywordAggregateEntry is one row of the aggregation cache, keyed by
// normalized keyword text.
//
// Count always equals len(ArticleIDs): an article contributes at most once
// per keyword it carries, so reprocessing the same article must not inflate
// the count. Biases is a multiset (one label appended per contributing
// article); Categories and ArticleIDs are sets.
type KeywordAggregateEntry struct {
	Keyword    string          `json:"keyword"`
	Count      int             `json:"count"`
	Biases     []Bias          `json:"biases"`
	Categories map[string]bool `json:"categories"`
	ArticleIDs map[string]bool `json:"articleIds"`
}

// NewKeywordAggregateEntry creates an empty entry for a keyword seen for the
// first time during an incremental merge or a full rebuild.
func NewKeywordAggregateEntry(keyword string) *KeywordAggregateEntry {
	return &KeywordAggregateEntry{
		Keyword:    keyword,
		Biases:     []Bias{},
		Categories: make(map[string]bool),
		ArticleIDs: make(map[string]bool),
	}
}

// Add folds one contributing article into the entry. The add is idempotent
// per article id: a second call with the same id leaves Count, Biases and
// ArticleIDs untouched (Categories is a set, so re-adding is harmless).
func (e *KeywordAggregateEntry) Add(articleID string, bias Bias, category string) {
	if e.ArticleIDs[articleID] {
		return
	}
	e.ArticleIDs[articleID] = true
	e.Count++
	e.Biases = append(e.Biases, bias)
	if category != "" {
		e.Categories[category] = true
	}
}

// Clone returns a deep copy so snapshot readers never observe later merges.
func (e *KeywordAggregateEntry) Clone() *KeywordAggregateEntry {
	clone := &KeywordAggregateEntry{
		Keyword:    e.Keyword,
		Count:      e.Count,
		Biases:     make([]Bias, len(e.Biases)),
		Categories: make(map[string]bool, len(e.Categories)),
		ArticleIDs: make(map[string]bool, len(e.ArticleIDs)),
	}
	copy(clone.Biases, e.Biases)
	for c := range e.Categories {
		clone.Categories[c] = true
	}
	for id := range e.ArticleIDs {
		clone.ArticleIDs[id] = true
	}
	return clone
}
