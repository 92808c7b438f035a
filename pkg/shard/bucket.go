package shard

import (
	"strings"
	"unicode"
)

// DefaultFallbackLetter substitutes for non-alphabetic characters when
// deriving bigram buckets.
const DefaultFallbackLetter = "Z"

// PrefixFallback is the prefix-policy bucket for tokens that do not start
// with an ASCII letter or digit.
const PrefixFallback = "_"

// Alphabet lists the shard folder letters A through Z.
var Alphabet = makeAlphabet()

// Bigrams enumerates all 676 bigram bucket identifiers, AA through ZZ.
var Bigrams = makeBigrams()

func makeAlphabet() []string {
	letters := make([]string, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		letters = append(letters, string(c))
	}
	return letters
}

func makeBigrams() []string {
	pairs := make([]string, 0, 26*26)
	for _, a := range makeAlphabet() {
		for _, b := range makeAlphabet() {
			pairs = append(pairs, a+b)
		}
	}
	return pairs
}

// BigramBucket returns the folder letter (A-Z) and shard bigram (AA-ZZ) for
// token. The bucket space is fixed at 26x26, so only ASCII letters count;
// any other character at the first two positions resolves to fallbackLetter.
// An invalid fallbackLetter falls back to DefaultFallbackLetter.
func BigramBucket(token, fallbackLetter string) (folder, bigram string) {
	fb := fallbackRune(fallbackLetter)
	tok := []rune(strings.ToLower(Normalize(token)))

	pick := func(i int) rune {
		if i < len(tok) && tok[i] >= 'a' && tok[i] <= 'z' {
			return unicode.ToUpper(tok[i])
		}
		return fb
	}

	first := pick(0)
	second := pick(1)
	return string(first), string([]rune{first, second})
}

func fallbackRune(letter string) rune {
	r := []rune(strings.ToUpper(letter))
	if len(r) == 1 && r[0] >= 'A' && r[0] <= 'Z' {
		return r[0]
	}
	return rune(DefaultFallbackLetter[0])
}

// PrefixForToken returns the single-character chunk prefix for token: the
// lowercase form of an ASCII leading letter, an ASCII leading digit as-is,
// and PrefixFallback for everything else (empty token included).
func PrefixForToken(token string) string {
	if token == "" {
		return PrefixFallback
	}
	first := []rune(token)[0]
	if first < 128 && unicode.IsLetter(first) {
		return string(unicode.ToLower(first))
	}
	if first >= '0' && first <= '9' {
		return string(first)
	}
	return PrefixFallback
}
