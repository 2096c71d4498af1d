package decode

import (
	"strings"
	"unicode"

	"github.com/pvidalgo/relato/internal/model"
)

const (
	familyDelimiter = "___"
	otherTextToken  = "other_text"
	inertSuffix     = "__nan"
)

// column ties a header to its cell position in the data row.
type column struct {
	header string
	pos    int
	token  string // option token for option columns, "" otherwise
}

// family groups every column sharing one question prefix. A family holds
// either a single base column (open question) or option columns, optionally
// with a free-text column; base and options never coexist.
type family struct {
	question  string // raw prefix before normalization
	base      *column
	options   []column
	otherText *column
	firstPos  int // leftmost header position, preserves original question order
}

// groupFamilies partitions headers into families keyed on the prefix before
// the first "___". Headers ending in "__nan" are inert and dropped before
// grouping. Returns families in original left-to-right order.
func groupFamilies(header []string) ([]*family, error) {
	byQuestion := make(map[string]*family)
	var ordered []*family

	get := func(question string, pos int) *family {
		if f, ok := byQuestion[question]; ok {
			return f
		}
		f := &family{question: question, firstPos: pos}
		byQuestion[question] = f
		ordered = append(ordered, f)
		return f
	}

	for pos, h := range header {
		if strings.HasSuffix(h, inertSuffix) {
			continue
		}
		if h == "" {
			return nil, &model.MalformedInputError{Reason: "empty header"}
		}

		prefix, suffix, found := strings.Cut(h, familyDelimiter)
		if !found {
			f := get(h, pos)
			if f.base != nil {
				return nil, &model.MalformedInputError{Column: h, Reason: "duplicate base column for question"}
			}
			f.base = &column{header: h, pos: pos}
			continue
		}

		if prefix == "" || suffix == "" {
			return nil, &model.MalformedInputError{Column: h, Reason: "header matches no recognized pattern"}
		}

		f := get(prefix, pos)
		if suffix == otherTextToken {
			if f.otherText != nil {
				return nil, &model.MalformedInputError{Column: h, Reason: "duplicate other_text column for question"}
			}
			f.otherText = &column{header: h, pos: pos}
		} else {
			f.options = append(f.options, column{header: h, pos: pos, token: suffix})
		}
	}

	// A base column alongside options means the header row mixes the plain
	// and one-hot shapes for one question. Report it rather than guessing.
	for _, f := range ordered {
		if f.base != nil && (len(f.options) > 0 || f.otherText != nil) {
			return nil, &model.MalformedInputError{
				Column: f.base.header,
				Reason: "question has both a base column and option columns",
			}
		}
	}

	return ordered, nil
}

// displayText applies the cosmetic normalization shared by questions and
// option tokens: underscores become spaces and only the first letter of the
// phrase is upper-cased. Numeric and already-capitalized values pass through
// untouched by construction.
func displayText(raw string) string {
	text := strings.ReplaceAll(raw, "_", " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	runes := []rune(text)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// truthy implements the option-cell selection rule: a cell counts as
// selected unless it is empty or a literal zero.
func truthy(cell string) bool {
	cell = strings.TrimSpace(cell)
	return cell != "" && cell != "0"
}
