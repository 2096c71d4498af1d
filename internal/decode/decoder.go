// Package decode reconstructs logical survey questions and declarative
// answers from flattened one-hot CSV columns.
package decode

import (
	"fmt"
	"strings"

	"github.com/pvidalgo/relato/internal/model"
)

// Decoder turns one header row plus one data row into a FactCatalog.
// It is a pure transform: no state, safe to share across goroutines.
type Decoder struct{}

// NewDecoder creates a new column-family decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode produces the ordered fact catalog for a single respondent row.
//
// Families whose option cells are all falsy and whose free text is blank
// produce no fact at all. Indices are assigned sequentially over emitted
// facts only, so the catalog is always densely numbered 1..n.
func (d *Decoder) Decode(header []string, row []string) (*model.FactCatalog, error) {
	if len(header) != len(row) {
		return nil, &model.MalformedInputError{
			Reason: fmt.Sprintf("header has %d columns, data row has %d", len(header), len(row)),
		}
	}

	families, err := groupFamilies(header)
	if err != nil {
		return nil, err
	}

	var facts []model.Fact
	next := 1
	for _, f := range families {
		answer := synthesizeAnswer(f, row)
		if answer == "" {
			continue // skip policy: fully blank family emits nothing
		}
		facts = append(facts, model.Fact{
			Index:    next,
			Question: displayText(f.question),
			Answer:   answer,
		})
		next++
	}

	return model.NewFactCatalog(facts)
}

// synthesizeAnswer applies the answer-synthesis rules to one family.
// First matching rule wins:
//
//	no selections  -> the free text (possibly empty, which skips the family)
//	one selection  -> the option text, with an optional " — <free text>" suffix
//	two or more    -> "Selected: " + comma-joined options, same optional suffix
func synthesizeAnswer(f *family, row []string) string {
	if f.base != nil {
		return strings.TrimSpace(row[f.base.pos])
	}

	var selected []string
	for _, opt := range f.options {
		if truthy(row[opt.pos]) {
			selected = append(selected, displayText(opt.token))
		}
	}

	var freeText string
	if f.otherText != nil {
		freeText = strings.TrimSpace(row[f.otherText.pos])
	}

	switch len(selected) {
	case 0:
		return freeText
	case 1:
		if freeText != "" {
			return selected[0] + " — " + freeText
		}
		return selected[0]
	default:
		answer := "Selected: " + strings.Join(selected, ", ")
		if freeText != "" {
			answer += " — " + freeText
		}
		return answer
	}
}
