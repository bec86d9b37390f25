package keywords

import (
	"regexp"
	"sort"
	"strings"
)

const DefaultCount = 5

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Extract returns up to count keywords from a news title, most salient
// first. The title is its own corpus, so term-frequency scoring against the
// stopword list decides the ranking. A title with fewer meaningful terms
// than count yields fewer keywords; a title of only stopwords and
// punctuation yields none.
func Extract(title string, count int) []string {
	if count <= 0 {
		count = DefaultCount
	}

	cleaned := strings.ToLower(nonWord.ReplaceAllString(title, ""))

	freq := make(map[string]int)
	for _, term := range strings.Fields(cleaned) {
		if turkishStopwords[term] {
			continue
		}
		freq[term]++
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}

	// Highest frequency first; ties resolve alphabetically so the output
	// is stable.
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > count {
		terms = terms[:count]
	}
	return terms
}
