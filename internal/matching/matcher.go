package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
)

// ItemType names the catalog attribute being matched.
type ItemType string

const (
	ItemBrand       ItemType = "brand"
	ItemCategory    ItemType = "category"
	ItemSubcategory ItemType = "subcategory"
)

// Plural returns the English plural used in result reasons.
func (t ItemType) Plural() string {
	s := string(t)
	if strings.HasSuffix(s, "y") {
		return strings.TrimSuffix(s, "y") + "ies"
	}
	return s + "s"
}

// Entity is an existing catalog brand, category or subcategory.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MatchResult is the decision for one attribute of one product.
type MatchResult struct {
	Matched      bool    `json:"matched"`
	MatchedID    string  `json:"matchedId,omitempty"`
	MatchedName  string  `json:"matchedName,omitempty"`
	Confidence   float64 `json:"confidence"`
	ShouldCreate bool    `json:"shouldCreate"`
	Reason       string  `json:"reason"`
}

// Thresholds are the score boundaries used to classify the best candidate.
type Thresholds struct {
	// Certain is the lowest exact or synonym score reported as such. Below it
	// those matches are labelled by the High boundary like fuzzy ones.
	Certain float64
	// High marks typo variations.
	High float64
	// Accept is the lowest score still treated as a match.
	Accept float64
	// CreateConfidence is reported when no candidate reaches Accept.
	CreateConfidence float64
}

// DefaultThresholds returns the production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Certain: 0.95, High: 0.80, Accept: 0.60, CreateConfidence: 0.8}
}

// Options configures a Matcher.
type Options struct {
	Synonyms   *SynonymTable
	Thresholds *Thresholds
	Logger     *zerolog.Logger
}

// Matcher decides whether free-text attributes refer to existing catalog
// entities. It holds no mutable state.
type Matcher struct {
	scorer     Scorer
	thresholds Thresholds
	logger     zerolog.Logger
}

// NewMatcher builds a Matcher. Zero options fall back to DefaultSynonyms and
// DefaultThresholds.
func NewMatcher(opts Options) *Matcher {
	synonyms := opts.Synonyms
	if synonyms == nil {
		synonyms = NewSynonymTable(DefaultSynonyms())
	}
	thresholds := DefaultThresholds()
	if opts.Thresholds != nil {
		thresholds = *opts.Thresholds
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Matcher{
		scorer:     Scorer{Synonyms: synonyms},
		thresholds: thresholds,
		logger:     logger,
	}
}

// MatchLocally matches input against the names of existing items.
func (m *Matcher) MatchLocally(input string, existing []Entity, itemType ItemType) MatchResult {
	if strings.TrimSpace(input) == "" {
		return MatchResult{
			Confidence: 0,
			Reason:     fmt.Sprintf("No %s provided", itemType),
		}
	}
	if len(existing) == 0 {
		return MatchResult{
			Confidence:   1,
			ShouldCreate: true,
			Reason:       fmt.Sprintf("No existing %s to match against", itemType.Plural()),
		}
	}

	bestIdx := -1
	var best Score
	for i, item := range existing {
		score := m.scorer.Score(input, item.Name)
		if score.Value > best.Value {
			best = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || best.Value < m.thresholds.Accept {
		res := MatchResult{
			Confidence:   m.thresholds.CreateConfidence,
			ShouldCreate: true,
			Reason:       fmt.Sprintf("No similar %s found", itemType),
		}
		if bestIdx >= 0 {
			res.Reason = fmt.Sprintf("No similar %s found (closest: %q at %d%%)",
				itemType, existing[bestIdx].Name, int(math.Round(best.Value*100)))
		}
		m.logger.Debug().
			Str("item_type", string(itemType)).
			Str("input", input).
			Float64("best_score", best.Value).
			Msg("no catalog match")
		return res
	}

	target := existing[bestIdx]
	return MatchResult{
		Matched:     true,
		MatchedID:   target.ID,
		MatchedName: target.Name,
		Confidence:  best.Value,
		Reason:      m.reason(best),
	}
}

func (m *Matcher) reason(s Score) string {
	switch {
	case s.Kind == KindExact && s.Value >= m.thresholds.Certain:
		return "Exact match"
	case s.Kind == KindSynonym && s.Value >= m.thresholds.Certain:
		return "Synonym match"
	case s.Kind == KindSubstring:
		return "Substring match"
	case s.Value >= m.thresholds.High:
		return "High similarity match (typo variation)"
	}
	return "Medium confidence match - verify"
}
