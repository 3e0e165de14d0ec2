package trend

import (
	"strings"
	"unicode"
)

// WordCount maps a word token to its number of occurrences. Counts are never
// negative.
type WordCount map[string]int

// Merge returns the key-wise sum of wc and other as a new map. Merge is
// commutative and associative; the empty map is its identity. A nil receiver
// is treated as empty.
func (wc WordCount) Merge(other WordCount) WordCount {
	merged := make(WordCount, len(wc)+len(other))
	for word, n := range wc {
		merged[word] = n
	}
	for word, n := range other {
		merged[word] += n
	}
	return merged
}

// CountWords tokenizes body and counts each token.
//
// Tokenization rule: the body is lowercased, then split on every rune that is
// neither a Unicode letter nor a digit. Empty tokens are discarded. Report
// contents depend on this exact rule.
func CountWords(body string) WordCount {
	words := strings.FieldsFunc(strings.ToLower(body), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	counts := make(WordCount, len(words))
	for _, word := range words {
		counts[word]++
	}
	return counts
}
