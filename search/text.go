package search

import (
	"strings"
	"unicode"
)

// Words too common in item descriptions to count as keywords.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "was": true, "to": true,
	"of": true, "and": true, "in": true, "it": true, "for": true, "on": true,
	"with": true, "at": true, "this": true, "by": true, "from": true,
	"my": true, "i": true, "near": true, "some": true, "lost": true, "found": true,
}

// significantWords splits text on anything that is not a letter, digit or
// hyphen and drops stop words.
func significantWords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	filtered := words[:0]
	for _, word := range words {
		if !stopWords[word] {
			filtered = append(filtered, word)
		}
	}
	return filtered
}

// containsAllWords reports whether every significant word of query appears
// in description. A query without significant words matches nothing.
func containsAllWords(description, query string) bool {
	queryWords := significantWords(query)
	if len(queryWords) == 0 {
		return false
	}

	docWords := make(map[string]bool)
	for _, word := range significantWords(description) {
		docWords[word] = true
	}
	for _, word := range queryWords {
		if !docWords[word] {
			return false
		}
	}
	return true
}
