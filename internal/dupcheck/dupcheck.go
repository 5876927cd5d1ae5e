// Package dupcheck flags names that are likely duplicates of existing ones,
// so the CLI can warn before a second "Acme Builders" is created.
package dupcheck

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const DefaultThreshold = 0.75

// Match reasons.
const (
	ReasonExact   = "exact"
	ReasonFuzzy   = "fuzzy"
	ReasonJaccard = "jaccard"
)

type Candidate struct {
	ID   string
	Name string
}

type Match struct {
	Candidate Candidate
	Score     float64
	Reason    string
}

// Matcher finds candidates whose name resembles name.
type Matcher interface {
	Similar(name string, candidates []Candidate) []Match
}

type matcher struct {
	threshold float64
}

// NewMatcher returns the default Matcher. A threshold outside (0, 1] falls
// back to DefaultThreshold.
func NewMatcher(threshold float64) Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &matcher{threshold: threshold}
}

func (m *matcher) Similar(name string, candidates []Candidate) []Match {
	needle := normalize(name)
	if needle == "" {
		return nil
	}

	var matches []Match
	for _, c := range candidates {
		score, reason := m.score(needle, normalize(c.Name))
		if score >= m.threshold {
			matches = append(matches, Match{Candidate: c, Score: score, Reason: reason})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return strings.ToLower(matches[i].Candidate.Name) < strings.ToLower(matches[j].Candidate.Name)
	})
	return matches
}

func (m *matcher) score(a, b string) (float64, string) {
	if b == "" {
		return 0, ""
	}
	if a == b {
		return 1, ReasonExact
	}

	longer := max(len([]rune(a)), len([]rune(b)))
	best := -1
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		if d := fuzzy.RankMatchNormalizedFold(pair[0], pair[1]); d >= 0 && (best < 0 || d < best) {
			best = d
		}
	}
	if best >= 0 {
		return 1 - float64(best)/float64(longer), ReasonFuzzy
	}
	return jaccard(a, b), ReasonJaccard
}

// normalize folds case, drops punctuation and collapses whitespace.
func normalize(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

// jaccard is the Jaccard index of the two strings' character sets.
func jaccard(a, b string) float64 {
	setA := charSet(a)
	setB := charSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	inter := 0
	for r := range setA {
		if setB[r] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func charSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		if r != ' ' {
			set[r] = true
		}
	}
	return set
}
