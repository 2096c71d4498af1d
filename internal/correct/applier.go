// Package correct applies exact-match textual corrections to a narrative,
// leaving everything outside the matched spans untouched.
package correct

import (
	"sort"
	"strings"

	"github.com/pvidalgo/relato/internal/model"
)

// Applier performs literal substring substitution. Pure transform: the input
// narrative is never mutated, a corrected copy is returned.
type Applier struct{}

// NewApplier creates a correction applier.
func NewApplier() *Applier {
	return &Applier{}
}

// Result reports what happened to each correction in a round.
type Result struct {
	Narrative string
	Applied   []model.Correction
	Skipped   []model.Correction // original text not found; recovered, not fatal
}

// span is a resolved correction target inside the input narrative.
type span struct {
	start int
	end   int
	corr  model.Correction
}

// Apply replaces, for each correction, the first occurrence of its original
// text. Corrections whose text is absent are skipped and reported. Spans are
// resolved against the input document before any replacement, so application
// order cannot change the result; overlapping spans are an error, surfaced
// as ConflictingCorrectionError rather than silently resolved.
func (a *Applier) Apply(narrative string, corrections []model.Correction) (*Result, error) {
	result := &Result{Narrative: narrative}
	if len(corrections) == 0 {
		return result, nil
	}

	var spans []span
	for _, c := range corrections {
		idx := strings.Index(narrative, c.OriginalText)
		if idx < 0 || c.OriginalText == "" {
			result.Skipped = append(result.Skipped, c)
			continue
		}
		spans = append(spans, span{start: idx, end: idx + len(c.OriginalText), corr: c})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return nil, &model.ConflictingCorrectionError{
				First:  spans[i-1].corr,
				Second: spans[i].corr,
			}
		}
	}

	var b strings.Builder
	last := 0
	for _, s := range spans {
		b.WriteString(narrative[last:s.start])
		b.WriteString(s.corr.Replacement)
		last = s.end
		result.Applied = append(result.Applied, s.corr)
	}
	b.WriteString(narrative[last:])

	result.Narrative = b.String()
	return result, nil
}
