// Package textsim provides the tokenization, term-frequency and cosine
// similarity primitives used by content clustering.
package textsim

import (
	"math"
	"sort"
	"strings"
)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "you": true, "your": true, "our": true, "are": true,
	"can": true, "all": true, "any": true, "get": true, "have": true,
	"from": true, "will": true, "not": true, "but": true, "more": true,
	"also": true, "its": true, "has": true, "was": true, "new": true,
	"per": true, "via": true, "use": true, "them": true, "they": true,
}

// Normalize lower-cases text and collapses runs of whitespace to single
// spaces. Used both for duplicate signatures and before tokenization.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Tokenize splits normalized text into terms of at least 3 characters,
// stripping punctuation. Stop words are kept here; keyword extraction
// filters them separately.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return ' '
	}, text)

	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) >= 3 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// TermFrequencies builds a bag-of-words vector from tokens.
func TermFrequencies(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	return tf
}

// Cosine computes the cosine similarity of two term-frequency vectors.
// Empty vectors score 0 against everything.
func Cosine(a, b map[string]int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for term, fa := range a {
		normA += float64(fa) * float64(fa)
		if fb, ok := b[term]; ok {
			dot += float64(fa) * float64(fb)
		}
	}
	for _, fb := range b {
		normB += float64(fb) * float64(fb)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CommonKeywords returns up to limit stop-word-filtered tokens that appear
// in at least minDocs of the given texts, most frequent first. Ties break
// alphabetically so output is stable.
func CommonKeywords(texts []string, minDocs, limit int) []string {
	docCount := make(map[string]int)
	total := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]bool)
		for _, tok := range Tokenize(text) {
			if stopWords[tok] {
				continue
			}
			total[tok]++
			if !seen[tok] {
				seen[tok] = true
				docCount[tok]++
			}
		}
	}

	var keywords []string
	for tok, n := range docCount {
		if n >= minDocs {
			keywords = append(keywords, tok)
		}
	}
	sort.Slice(keywords, func(i, j int) bool {
		if total[keywords[i]] != total[keywords[j]] {
			return total[keywords[i]] > total[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})
	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}
