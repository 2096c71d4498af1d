// Package verify checks a generated narrative against its fact catalog for
// ordering, traceability and completeness, and proposes literal corrections
// where a textual patch suffices.
package verify

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/pvidalgo/relato/internal/model"
)

// Verifier compares narratives against fact catalogs. It holds only
// configuration, so one instance is safe for concurrent use.
type Verifier struct {
	sentinels   []string // normalized "no information" answers, completeness-exempt
	sections    []string // required section names, empty disables the structure check
	boilerplate []string // fixed template literals, veracity-exempt
}

// NewVerifier creates a verifier. boilerplate carries the fixed template
// strings (introductions, section scaffolding) whose content is exempt from
// the veracity check.
func NewVerifier(cfg model.VerifyConfig, boilerplate []string) *Verifier {
	sentinels := make([]string, 0, len(cfg.Sentinels))
	for _, s := range cfg.Sentinels {
		sentinels = append(sentinels, normalizeText(s))
	}
	return &Verifier{
		sentinels:   sentinels,
		sections:    cfg.Sections,
		boilerplate: boilerplate,
	}
}

// Verify runs the order, veracity and completeness checks concurrently and
// joins the results into one report plus the proposed corrections. The
// checks only read their inputs, so the parallelism is race-free.
func (v *Verifier) Verify(catalog *model.FactCatalog, narrative string, rctx model.ReportContext) (*model.VerificationReport, []model.Correction) {
	facts := catalog.Facts()
	norm := normalizeText(narrative)

	var (
		report       model.VerificationReport
		veracityCorr []model.Correction
		completeCorr []model.Correction
		wg           sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		report.Order = v.checkOrder(facts, norm)
	}()
	go func() {
		defer wg.Done()
		report.Veracity, veracityCorr = v.checkVeracity(facts, narrative, norm, rctx)
	}()
	go func() {
		defer wg.Done()
		report.Completeness, completeCorr = v.checkCompleteness(facts, narrative, norm)
	}()
	wg.Wait()

	if len(v.sections) > 0 {
		structure := v.checkStructure(norm)
		report.Structure = &structure
	}

	report.ResolveVerdict()

	// Order violations are never correctable by textual patching, and a
	// rejected narrative must be regenerated anyway.
	if report.Verdict == model.VerdictRejected {
		return &report, nil
	}

	corrections := append(veracityCorr, completeCorr...)
	return &report, corrections
}

// checkOrder verifies that the first occurrences of the answers appear in
// strictly increasing index order. Later repetitions of an answer carry no
// weight; only where it is introduced counts. Facts whose answers are absent
// contribute no position; their absence is the completeness check's concern.
func (v *Verifier) checkOrder(facts []model.Fact, norm string) model.CheckResult {
	result := model.CheckResult{Name: model.CheckOrder, Passed: true}

	prevPos := -1
	prevFact := model.Fact{}
	for _, f := range facts {
		pos := locateAnswer(norm, f.Answer, 0)
		if pos < 0 {
			continue
		}
		if pos <= prevPos {
			result.Passed = false
			result.Detail = fmt.Sprintf("answer of fact %d (%s) first appears before answer of fact %d (%s)",
				f.Index, f.Question, prevFact.Index, prevFact.Question)
			return result
		}
		prevPos = pos
		prevFact = f
	}
	return result
}

// locateAnswer returns the earliest position, at or after from, of any of
// the answer's terms in the normalized narrative.
func locateAnswer(norm, answer string, from int) int {
	best := -1
	for _, term := range answerTerms(answer) {
		if pos := findFrom(norm, normalizeText(term), from); pos >= 0 && (best < 0 || pos < best) {
			best = pos
		}
	}
	return best
}

var numericToken = regexp.MustCompile(`\d+(?:[.,]\d+)?\s?%|\d+(?:[.,]\d+)?`)

// checkVeracity flags narrative values untraceable to any fact answer,
// boilerplate literal, or report-context value. Numeric tokens and candidate
// entity mentions (mid-sentence capitalized words) are both scanned; a
// replacement is proposed only for a numeric value whose sentence names
// exactly one fact, as entities have no value to patch toward.
func (v *Verifier) checkVeracity(facts []model.Fact, narrative, norm string, rctx model.ReportContext) (model.CheckResult, []model.Correction) {
	result := model.CheckResult{Name: model.CheckVeracity, Passed: true}

	exempt := v.exemptCorpus(facts, rctx)

	var flagged []string
	var corrections []model.Correction
	seen := make(map[string]bool)

	for _, sentence := range splitSentences(narrative) {
		for _, token := range numericToken.FindAllString(sentence, -1) {
			key := normalizeText(token)
			if key == "" || seen[key] {
				continue
			}
			if strings.Contains(exempt, key) {
				continue
			}
			seen[key] = true
			flagged = append(flagged, token)

			if corr, ok := v.proposeValuePatch(facts, sentence, token); ok {
				corrections = append(corrections, corr)
			}
		}
		for _, token := range entityTokens(sentence) {
			key := normalizeText(token)
			if key == "" || seen[key] {
				continue
			}
			if strings.Contains(exempt, key) {
				continue
			}
			seen[key] = true
			flagged = append(flagged, token)
		}
	}

	if len(flagged) > 0 {
		result.Passed = false
		result.Detail = "values not traceable to any fact: " + strings.Join(flagged, ", ")
	}
	return result, corrections
}

// exemptCorpus concatenates every normalized text a narrative value may
// legitimately come from: fact answers, boilerplate, context values and
// section names.
func (v *Verifier) exemptCorpus(facts []model.Fact, rctx model.ReportContext) string {
	var b strings.Builder
	for _, f := range facts {
		b.WriteString(normalizeText(f.Answer))
		b.WriteByte('\n')
	}
	for _, s := range v.boilerplate {
		b.WriteString(normalizeText(s))
		b.WriteByte('\n')
	}
	for _, s := range rctx.Values() {
		b.WriteString(normalizeText(s))
		b.WriteByte('\n')
	}
	for _, s := range v.sections {
		b.WriteString(normalizeText(s))
		b.WriteByte('\n')
	}
	return b.String()
}

// proposeValuePatch builds a correction for a stray value when its sentence
// mentions exactly one fact's question and that fact's answer carries a
// numeric value of its own.
func (v *Verifier) proposeValuePatch(facts []model.Fact, sentence, token string) (model.Correction, bool) {
	normSentence := normalizeText(sentence)

	var candidate *model.Fact
	for i := range facts {
		if findFrom(normSentence, normalizeText(facts[i].Question), 0) >= 0 {
			if candidate != nil {
				return model.Correction{}, false // ambiguous, leave for manual review
			}
			candidate = &facts[i]
		}
	}
	if candidate == nil {
		return model.Correction{}, false
	}

	values := numericToken.FindAllString(candidate.Answer, -1)
	if len(values) == 0 || normalizeText(values[0]) == normalizeText(token) {
		return model.Correction{}, false
	}
	return model.Correction{
		Question:     candidate.Question,
		OriginalText: token,
		Replacement:  values[0],
	}, true
}

// checkCompleteness verifies that every non-sentinel answer appears in the
// narrative, and proposes an inline patch when the fact's question text
// occurs literally (no literal patch can help otherwise).
func (v *Verifier) checkCompleteness(facts []model.Fact, narrative, norm string) (model.CheckResult, []model.Correction) {
	result := model.CheckResult{Name: model.CheckCompleteness, Passed: true}

	var missing []string
	var corrections []model.Correction

	for _, f := range facts {
		if v.isSentinel(f.Answer) {
			continue
		}
		if allTermsPresent(norm, f.Answer) {
			continue
		}
		missing = append(missing, fmt.Sprintf("fact %d (%s): %q", f.Index, f.Question, f.Answer))

		if span, ok := questionSpan(narrative, f.Question); ok {
			corrections = append(corrections, model.Correction{
				Question:     f.Question,
				OriginalText: span,
				Replacement:  span + " (" + f.Answer + ")",
			})
		}
	}

	if len(missing) > 0 {
		result.Passed = false
		result.Detail = "answers absent from narrative: " + strings.Join(missing, "; ")
	}
	return result, corrections
}

// allTermsPresent reports whether every term of the answer occurs somewhere
// in the normalized narrative.
func allTermsPresent(norm, answer string) bool {
	terms := answerTerms(answer)
	if len(terms) == 0 {
		return true
	}
	for _, term := range terms {
		if findFrom(norm, normalizeText(term), 0) < 0 {
			return false
		}
	}
	return true
}

// questionSpan finds the raw span of a question's text in the narrative,
// matched case-insensitively, so a correction can target it exactly.
func questionSpan(narrative, question string) (string, bool) {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(question))
	if err != nil {
		return "", false
	}
	span := re.FindString(narrative)
	return span, span != ""
}

// isSentinel reports whether an answer is a designated "no information
// available" value.
func (v *Verifier) isSentinel(answer string) bool {
	norm := normalizeText(answer)
	for _, s := range v.sentinels {
		if norm == s {
			return true
		}
	}
	return false
}
