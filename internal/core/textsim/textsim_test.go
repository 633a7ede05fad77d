package textsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "bulk sms service", Normalize("  Bulk   SMS\t\nService "))
}

func TestTokenize_MinLengthAndPunctuation(t *testing.T) {
	tokens := Tokenize("We sell SIM cards, e-SIMs & top-ups! Go")

	// "we" and "go" are under 3 chars; punctuation splits terms.
	assert.Equal(t, []string{"sell", "sim", "cards", "sims", "top", "ups"}, tokens)
}

func TestCosine_Identical(t *testing.T) {
	tf := TermFrequencies(Tokenize("cheap bulk sms cheap"))
	assert.InDelta(t, 1.0, Cosine(tf, tf), 1e-9)
}

func TestCosine_Disjoint(t *testing.T) {
	a := TermFrequencies([]string{"alpha", "beta"})
	b := TermFrequencies([]string{"gamma", "delta"})
	assert.Equal(t, 0.0, Cosine(a, b))
}

func TestCosine_Empty(t *testing.T) {
	a := TermFrequencies(nil)
	b := TermFrequencies([]string{"alpha"})
	assert.Equal(t, 0.0, Cosine(a, b))
}

func TestCommonKeywords(t *testing.T) {
	texts := []string{
		"cheap bulk sms verified accounts",
		"bulk sms gateway verified sellers",
		"unrelated listing about wallets",
	}

	keywords := CommonKeywords(texts, 2, 5)

	assert.Contains(t, keywords, "bulk")
	assert.Contains(t, keywords, "sms")
	assert.Contains(t, keywords, "verified")
	assert.NotContains(t, keywords, "wallets")
}

func TestCommonKeywords_FiltersStopWords(t *testing.T) {
	texts := []string{"the best service for you", "the best service for you"}

	keywords := CommonKeywords(texts, 2, 10)

	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "for")
	assert.Contains(t, keywords, "best")
	assert.Contains(t, keywords, "service")
}
