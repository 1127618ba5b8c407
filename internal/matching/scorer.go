package matching

import "strings"

// MatchKind identifies which comparison produced a score.
type MatchKind string

const (
	KindNone      MatchKind = "none"
	KindExact     MatchKind = "exact"
	KindSynonym   MatchKind = "synonym"
	KindSubstring MatchKind = "substring"
	KindFuzzy     MatchKind = "fuzzy"
)

const (
	scoreExact     = 1.0
	scoreSynonym   = 0.95
	scoreSubstring = 0.9
)

// Score is a similarity in [0,1] together with the comparison that produced it.
type Score struct {
	Value float64
	Kind  MatchKind
}

// Scorer compares free-text labels.
type Scorer struct {
	Synonyms *SynonymTable
}

// Score compares a and b after normalization. Checks run in order: identical,
// synonym group, substring, then the Levenshtein ratio.
func (s Scorer) Score(a, b string) Score {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return Score{Kind: KindNone}
	}
	if na == nb {
		return Score{Value: scoreExact, Kind: KindExact}
	}
	if s.Synonyms.Same(na, nb) {
		return Score{Value: scoreSynonym, Kind: KindSynonym}
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return Score{Value: scoreSubstring, Kind: KindSubstring}
	}
	return Score{Value: levenshteinRatio(na, nb), Kind: KindFuzzy}
}

func levenshteinRatio(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}
