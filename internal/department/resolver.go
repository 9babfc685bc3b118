// Package department maps user-facing department identifiers, including
// the aliases and abbreviations the product accumulated over the years,
// to the canonical category strings the corpus is indexed under.
//
// Lookups are exact after case folding and trimming. There is no
// substring or closest-match fallback: a permissive lookup here is how
// a quiz for one department ends up serving another department's
// questions.
package department

import (
	"fmt"
	"sort"
	"strings"

	"exam-service/internal/corpus"
)

// UnknownDepartmentError reports an identifier absent from the mapping
// table.
type UnknownDepartmentError struct {
	Identifier string
}

func (e *UnknownDepartmentError) Error() string {
	return fmt.Sprintf("unknown department %q", e.Identifier)
}

// MappingInconsistencyError lists every way the department table and
// the loaded corpus disagree. Either direction means some department
// would silently serve the wrong questions, so it aborts startup.
type MappingInconsistencyError struct {
	// UnmappedCategories appear in the corpus but are reachable from no
	// department identifier.
	UnmappedCategories []string
	// MissingCategories are mapping targets with zero corpus questions.
	MissingCategories []string
}

func (e *MappingInconsistencyError) Error() string {
	var parts []string
	if len(e.UnmappedCategories) > 0 {
		parts = append(parts, fmt.Sprintf("corpus categories with no department mapping: %s",
			strings.Join(e.UnmappedCategories, ", ")))
	}
	if len(e.MissingCategories) > 0 {
		parts = append(parts, fmt.Sprintf("mapped categories with no corpus questions: %s",
			strings.Join(e.MissingCategories, ", ")))
	}
	return "department mapping inconsistent: " + strings.Join(parts, "; ")
}

// Resolver translates department identifiers into canonical categories.
type Resolver struct {
	aliases    map[string]string // folded identifier -> canonical category
	categories []string          // sorted canonical targets
}

// NewResolver builds a resolver from an identifier -> category table.
func NewResolver(table map[string]string) *Resolver {
	aliases := make(map[string]string, len(table))
	seen := make(map[string]bool)
	var categories []string
	for identifier, category := range table {
		aliases[fold(identifier)] = category
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)
	return &Resolver{aliases: aliases, categories: categories}
}

func fold(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// Resolve returns the canonical category for a department identifier.
func (r *Resolver) Resolve(identifier string) (string, error) {
	category, ok := r.aliases[fold(identifier)]
	if !ok {
		return "", &UnknownDepartmentError{Identifier: identifier}
	}
	return category, nil
}

// Categories returns the sorted canonical categories the table maps to.
func (r *Resolver) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// AliasesByCategory groups the known identifiers under their canonical
// category, for the department picker.
func (r *Resolver) AliasesByCategory() map[string][]string {
	out := make(map[string][]string, len(r.categories))
	for alias, category := range r.aliases {
		out[category] = append(out[category], alias)
	}
	for _, aliases := range out {
		sort.Strings(aliases)
	}
	return out
}

// ValidateCategories checks the table against a corpus category set in
// both directions and reports every offending entry at once.
func (r *Resolver) ValidateCategories(corpusCategories []string) error {
	inCorpus := make(map[string]bool, len(corpusCategories))
	for _, c := range corpusCategories {
		inCorpus[c] = true
	}
	mapped := make(map[string]bool, len(r.categories))
	for _, c := range r.categories {
		mapped[c] = true
	}

	var inconsistency MappingInconsistencyError
	for _, c := range corpusCategories {
		if !mapped[c] {
			inconsistency.UnmappedCategories = append(inconsistency.UnmappedCategories, c)
		}
	}
	for _, c := range r.categories {
		if !inCorpus[c] {
			inconsistency.MissingCategories = append(inconsistency.MissingCategories, c)
		}
	}
	if len(inconsistency.UnmappedCategories) > 0 || len(inconsistency.MissingCategories) > 0 {
		return &inconsistency
	}
	return nil
}

// ValidateMappingConsistency runs the bidirectional check against a
// loaded repository. It belongs in startup, before the first request
// is served.
func (r *Resolver) ValidateMappingConsistency(repo *corpus.Repository) error {
	return r.ValidateCategories(repo.Categories())
}
