package verify

import (
	"fmt"
	"strings"

	"github.com/pvidalgo/relato/internal/model"
)

// checkStructure verifies that every configured report section appears by
// name. Section scaffolding comes from the generator templates, so a missing
// section is a generation defect, never something a literal patch can add.
func (v *Verifier) checkStructure(norm string) model.CheckResult {
	result := model.CheckResult{Name: model.CheckStructure, Passed: true}

	var missing []string
	for _, section := range v.sections {
		if findFrom(norm, normalizeText(section), 0) < 0 {
			missing = append(missing, fmt.Sprintf("%q", section))
		}
	}
	if len(missing) > 0 {
		result.Passed = false
		result.Detail = "sections absent from narrative: " + strings.Join(missing, ", ")
	}
	return result
}
