package verify

import (
	"strings"
	"unicode"
)

// The matching policy is normalized literal matching: Unicode lower-casing,
// punctuation folded to spaces, whitespace collapsed. Spelling that survives
// this normalization counts as the same text; anything else does not. No
// semantic similarity is attempted.

// normalizeText folds a string into its canonical matching form. Letters,
// digits and '%' survive (lower-cased); every other rune becomes a space;
// runs of spaces collapse to one.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%':
			b.WriteRune(unicode.ToLower(r))
			space = false
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// findFrom locates the normalized needle inside the normalized haystack at
// or after position from. Returns -1 when absent. Positions are offsets into
// the normalized haystack; they order the same way the raw text does.
func findFrom(normHaystack, normNeedle string, from int) int {
	if normNeedle == "" || from > len(normHaystack) {
		return -1
	}
	idx := strings.Index(normHaystack[from:], normNeedle)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// answerTerms decomposes a synthesized answer into the literal terms the
// narrative is expected to carry. A multi-select answer
// "Selected: A, B — free text" yields [A, B, free text]; a single answer
// "A — free text" yields [A, free text]; anything else is one term.
func answerTerms(answer string) []string {
	rest := strings.TrimPrefix(answer, "Selected: ")
	multi := rest != answer

	head, free, hasFree := strings.Cut(rest, " — ")

	var terms []string
	if multi {
		for _, t := range strings.Split(head, ", ") {
			if t = strings.TrimSpace(t); t != "" {
				terms = append(terms, t)
			}
		}
	} else if head != "" {
		terms = append(terms, head)
	}
	if hasFree {
		if free = strings.TrimSpace(free); free != "" {
			terms = append(terms, free)
		}
	}
	return terms
}

// entityTokens extracts candidate entity mentions from a sentence: words
// carrying an initial capital anywhere but the sentence start. Under literal
// matching a mid-sentence capital is the only entity signal available;
// sentence-initial capitals carry none.
func entityTokens(sentence string) []string {
	words := strings.Fields(sentence)
	var tokens []string
	for i, w := range words {
		if i == 0 {
			continue
		}
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w == "" {
			continue
		}
		if r := []rune(w)[0]; unicode.IsUpper(r) {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// splitSentences breaks prose into rough sentences for correction scoping.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
