package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fact is one canonical question/answer pair extracted from a column family
// for a single respondent.
type Fact struct {
	Index    int    `json:"index"`    // 1-based emission order within the catalog
	Question string `json:"question"` // Normalized question text
	Answer   string `json:"answer"`   // Synthesized answer, never empty
}

// FactCatalog is the ordered set of facts for one respondent. It is the
// single source of truth for all downstream stages and is immutable once
// built: accessors hand out copies, never the backing slice.
type FactCatalog struct {
	facts []Fact
}

// NewFactCatalog builds a catalog, enforcing the catalog invariants:
// strictly increasing indices, no duplicates, no empty answers.
func NewFactCatalog(facts []Fact) (*FactCatalog, error) {
	prev := 0
	for _, f := range facts {
		if f.Index <= prev {
			return nil, fmt.Errorf("fact %q: index %d not strictly increasing (previous %d)", f.Question, f.Index, prev)
		}
		if f.Answer == "" {
			return nil, fmt.Errorf("fact %q (index %d): empty answer", f.Question, f.Index)
		}
		prev = f.Index
	}
	cp := make([]Fact, len(facts))
	copy(cp, facts)
	return &FactCatalog{facts: cp}, nil
}

// Facts returns a copy of the ordered facts.
func (c *FactCatalog) Facts() []Fact {
	cp := make([]Fact, len(c.facts))
	copy(cp, c.facts)
	return cp
}

// Len returns the number of facts in the catalog.
func (c *FactCatalog) Len() int {
	return len(c.facts)
}

// At returns the fact at position i (0-based position, not fact index).
func (c *FactCatalog) At(i int) Fact {
	return c.facts[i]
}

// JSON renders the catalog in its external representation: an array of
// {index, question, answer} objects in ascending index order.
func (c *FactCatalog) JSON() ([]byte, error) {
	return json.MarshalIndent(c.facts, "", "  ")
}

// Hash returns a stable digest of the catalog content, used as the
// narrative cache key component.
func (c *FactCatalog) Hash() string {
	data, _ := json.Marshal(c.facts)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReportContext carries the contextual parameters handed to the narrative
// generator alongside the catalog. Its values are veracity-exempt.
type ReportContext struct {
	CompanyName string `json:"company_name" yaml:"company_name"`
	SiteName    string `json:"site_name,omitempty" yaml:"site_name"`
	Address     string `json:"address,omitempty" yaml:"address"`
}

// Values returns the non-empty context values, in declaration order.
func (r ReportContext) Values() []string {
	var vals []string
	for _, v := range []string{r.CompanyName, r.SiteName, r.Address} {
		if v != "" {
			vals = append(vals, v)
		}
	}
	return vals
}
