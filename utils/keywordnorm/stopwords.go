package keywordnorm

// Static deny lists. A candidate keyword matching any of these is rejected
// outright; lemmatization can also land a candidate back in stopWords
// (e.g. "stories" -> "story"), so membership is re-checked after it.

var stopWords = map[string]bool{
	"a": true, "about": true, "after": true, "again": true, "against": true,
	"all": true, "also": true, "among": true, "an": true, "and": true,
	"any": true, "are": true, "as": true, "at": true, "back": true,
	"be": true, "because": true, "been": true, "before": true, "being": true,
	"between": true, "both": true, "but": true, "by": true, "can": true,
	"could": true, "day": true, "did": true, "do": true, "does": true,
	"down": true, "during": true, "each": true, "even": true, "few": true,
	"first": true, "for": true, "from": true, "further": true, "get": true,
	"give": true, "good": true, "had": true, "has": true, "have": true,
	"he": true, "her": true, "here": true, "him": true, "his": true,
	"how": true, "if": true, "in": true, "into": true, "is": true,
	"it": true, "its": true, "just": true, "know": true, "last": true,
	"like": true, "look": true, "make": true, "man": true, "many": true,
	"me": true, "more": true, "most": true, "much": true, "my": true,
	"new": true, "no": true, "not": true, "now": true, "of": true,
	"off": true, "on": true, "one": true, "only": true, "or": true,
	"other": true, "our": true, "out": true, "over": true, "own": true,
	"people": true, "say": true, "see": true, "she": true, "so": true,
	"some": true, "story": true, "such": true, "take": true, "than": true,
	"that": true, "the": true, "their": true, "them": true, "then": true,
	"there": true, "these": true, "they": true, "thing": true, "think": true,
	"this": true, "those": true, "through": true, "time": true, "to": true,
	"two": true, "under": true, "up": true, "us": true, "use": true,
	"very": true, "want": true, "was": true, "way": true, "we": true,
	"week": true, "well": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "who": true, "why": true,
	"will": true, "with": true, "work": true, "would": true, "year": true,
	"you": true, "your": true,
}

// newsGenericTerms are words that appear constantly in headlines without
// identifying a topic. Aggregating them would drown real keywords.
var newsGenericTerms = map[string]bool{
	"analysis": true, "announce": true, "announcement": true, "article": true,
	"breaking": true, "coverage": true, "developing": true, "exclusive": true,
	"headline": true, "interview": true, "latest": true, "live": true,
	"media": true, "news": true, "opinion": true, "press": true,
	"reaction": true, "report": true, "reporter": true, "reporting": true,
	"response": true, "review": true, "roundup": true, "source": true,
	"statement": true, "today": true, "tonight": true, "top": true,
	"update": true, "updated": true, "video": true, "watch": true,
}

// publicationNames keeps outlet self-references out of the aggregate.
var publicationNames = map[string]bool{
	"abc": true, "abc news": true, "al jazeera": true, "ap": true,
	"associated press": true, "axios": true, "bbc": true, "bbc news": true,
	"bloomberg": true, "breitbart": true, "cbs": true, "cbs news": true,
	"cnbc": true, "cnn": true, "daily mail": true, "daily wire": true,
	"fox": true, "fox news": true, "guardian": true, "huffpost": true,
	"msnbc": true, "nbc": true, "nbc news": true, "new york times": true,
	"newsmax": true, "npr": true, "nyt": true, "politico": true,
	"reuters": true, "the atlantic": true, "the guardian": true,
	"the hill": true, "usa today": true, "vox": true, "wall street journal": true,
	"washington post": true, "wsj": true,
}
