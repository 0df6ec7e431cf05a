// SPDX-License-Identifier: Apache-2.0

// Package fuzzy scores string similarity on a 0-100 scale.
//
// The base measure is the normalized Indel similarity (insertions and
// deletions only), which is Levenshtein distance with a substitution cost of 2.
// WRatio combines it with partial and token-based strategies and keeps the
// best weighted score.
package fuzzy

import (
	"slices"
	"strings"

	lev "github.com/texttheater/golang-levenshtein/levenshtein"
)

const (
	unbaseScale = 0.95
	// lenRatio thresholds for WRatio.
	partialThreshold = 1.5
	longThreshold    = 8.0
)

// Scorer compares two strings and returns a score in [0,100].
type Scorer func(a, b string) float64

// Ratio is the normalized Indel similarity of a and b.
func Ratio(a, b string) float64 {
	return ratio([]rune(a), []rune(b))
}

func ratio(a, b []rune) float64 {
	if len(a)+len(b) == 0 {
		return 100
	}
	return 100 * lev.RatioForStrings(a, b, lev.DefaultOptions)
}

// PartialRatio is the best Ratio of the shorter string against every
// equally long window of the longer one, including windows clipped at
// either end.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == len(rb) {
		return max(partialRatio(ra, rb), partialRatio(rb, ra))
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	return partialRatio(ra, rb)
}

func partialRatio(shorter, longer []rune) float64 {
	n := len(shorter)
	if n == 0 {
		if len(longer) == 0 {
			return 100
		}
		return 0
	}

	best := 0.0
	for start := -(n - 1); start < len(longer); start++ {
		lo, hi := max(start, 0), min(start+n, len(longer))
		if r := ratio(shorter, longer[lo:hi]); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares the strings after sorting their words.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

// TokenSetRatio compares the shared words of a and b with each side's
// shared-plus-remaining words, so extra words on one side cost little.
func TokenSetRatio(a, b string) float64 {
	sect, onlyA, onlyB := splitSets(a, b)
	if sect == nil && onlyA == nil && onlyB == nil {
		return 0
	}
	if len(sect) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	t0 := strings.Join(sect, " ")
	t1 := joinNonEmpty(t0, strings.Join(onlyA, " "))
	t2 := joinNonEmpty(t0, strings.Join(onlyB, " "))

	best := Ratio(t1, t2)
	if t0 == "" {
		return best
	}
	return max(best, Ratio(t0, t1), Ratio(t0, t2))
}

// TokenRatio is the better of TokenSortRatio and TokenSetRatio.
func TokenRatio(a, b string) float64 {
	return max(TokenSortRatio(a, b), TokenSetRatio(a, b))
}

// PartialTokenRatio is 100 when the strings share a word, and otherwise the
// PartialRatio of their sorted words.
func PartialTokenRatio(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inA := make(map[string]bool, len(ta))
	for _, t := range ta {
		inA[t] = true
	}
	for _, t := range tb {
		if inA[t] {
			return 100
		}
	}
	return PartialRatio(sortedJoin(ta), sortedJoin(tb))
}

// WRatio is a weighted ratio tolerant of word order, partial overlap and
// length differences. Either string being empty scores 0.
func WRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	best := Ratio(a, b)
	if lenRatio < partialThreshold {
		return max(best, TokenRatio(a, b)*unbaseScale)
	}

	partialScale := 0.9
	if lenRatio >= longThreshold {
		partialScale = 0.6
	}
	best = max(best, PartialRatio(a, b)*partialScale)
	return max(best, PartialTokenRatio(a, b)*unbaseScale*partialScale)
}

// Match is the best choice found by ExtractOne.
type Match struct {
	Index  int
	Choice string
	Score  float64
}

// ExtractOne returns the highest scoring choice whose score is at least
// cutoff. Ties keep the earliest choice. A nil scorer means WRatio.
func ExtractOne(query string, choices []string, scorer Scorer, cutoff float64) (Match, bool) {
	if scorer == nil {
		scorer = WRatio
	}
	best := Match{Index: -1}
	for i, c := range choices {
		score := scorer(query, c)
		if score < cutoff {
			continue
		}
		if best.Index < 0 || score > best.Score {
			best = Match{Index: i, Choice: c, Score: score}
			if score == 100 {
				break
			}
		}
	}
	return best, best.Index >= 0
}

func splitSets(a, b string) (sect, onlyA, onlyB []string) {
	setA := toSet(strings.Fields(a))
	setB := toSet(strings.Fields(b))
	if len(setA) == 0 || len(setB) == 0 {
		return nil, nil, nil
	}
	for t := range setA {
		if setB[t] {
			sect = append(sect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	slices.Sort(sect)
	slices.Sort(onlyA)
	slices.Sort(onlyB)
	return sect, onlyA, onlyB
}

func toSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

func sortedJoin(tokens []string) string {
	sorted := slices.Clone(tokens)
	slices.Sort(sorted)
	return strings.Join(sorted, " ")
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
