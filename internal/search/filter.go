// Package search implements the aggregated resource search: a pure filter
// over the four resource collections, a fan-out aggregator that fetches
// them, and a debounced Session that drives search cycles for a UI.
package search

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/chazuruo/chaosq/internal/resource"
)

// Matcher selects how the free-text part of a query matches names.
type Matcher string

const (
	// MatcherSubstring keeps resources whose name or UID contains the text.
	MatcherSubstring Matcher = "substring"
	// MatcherFuzzy keeps resources whose name fuzzy-matches the text and
	// orders them by match score.
	MatcherFuzzy Matcher = "fuzzy"
)

// ParseMatcher validates a matcher name.
func ParseMatcher(s string) (Matcher, error) {
	switch m := Matcher(strings.ToLower(strings.TrimSpace(s))); m {
	case MatcherSubstring, MatcherFuzzy:
		return m, nil
	case "":
		return MatcherSubstring, nil
	default:
		return "", fmt.Errorf("unknown matcher %q (want substring or fuzzy)", s)
	}
}

// Collections holds one slice of resources per variant.
type Collections struct {
	Workflows   []resource.Resource
	Schedules   []resource.Resource
	Experiments []resource.Resource
	Archives    []resource.Resource
}

// Of returns the collection for v.
func (c Collections) Of(v resource.Variant) []resource.Resource {
	switch v {
	case resource.Workflow:
		return c.Workflows
	case resource.Schedule:
		return c.Schedules
	case resource.Experiment:
		return c.Experiments
	case resource.Archive:
		return c.Archives
	}
	return nil
}

// Len returns the total number of resources across all variants.
func (c Collections) Len() int {
	return len(c.Workflows) + len(c.Schedules) + len(c.Experiments) + len(c.Archives)
}

// FilterOptions tunes Filter.
type FilterOptions struct {
	Matcher Matcher // Defaults to MatcherSubstring
	Limit   int     // Maximum results per variant (0 = unlimited)
}

// Query is a parsed search string. Qualifiers narrow by namespace or kind
// and the remaining words form Text.
//
//	"namespace:default kind:pod kill" -> {Namespace: "default", Kind: "pod", Text: "kill"}
type Query struct {
	Namespace string
	Kind      string
	Text      string
}

// ParseQuery splits s into qualifiers and free text. Qualifier values and
// text are folded for matching.
func ParseQuery(s string) Query {
	var q Query
	var words []string

	for _, field := range strings.Fields(s) {
		key, value, ok := strings.Cut(field, ":")
		if ok && value != "" {
			switch strings.ToLower(key) {
			case "namespace", "ns":
				q.Namespace = fold(value)
				continue
			case "kind":
				q.Kind = fold(value)
				continue
			}
		}
		words = append(words, field)
	}

	q.Text = fold(strings.Join(words, " "))
	return q
}

// Filter returns the resources in c that match query, keeping the first
// resource per UID within each variant. It is pure: the input is never
// modified and equal inputs give equal outputs.
func Filter(c Collections, query string, opts FilterOptions) Collections {
	q := ParseQuery(query)
	if opts.Matcher == "" {
		opts.Matcher = MatcherSubstring
	}

	return Collections{
		Workflows:   filterGroup(c.Workflows, q, opts),
		Schedules:   filterGroup(c.Schedules, q, opts),
		Experiments: filterGroup(c.Experiments, q, opts),
		Archives:    filterGroup(c.Archives, q, opts),
	}
}

func filterGroup(items []resource.Resource, q Query, opts FilterOptions) []resource.Resource {
	candidates := make([]resource.Resource, 0, len(items))
	for _, r := range items {
		if q.Namespace != "" && fold(r.Namespace) != q.Namespace {
			continue
		}
		if q.Kind != "" && !strings.Contains(fold(r.Kind), q.Kind) {
			continue
		}
		candidates = append(candidates, r)
	}

	var matched []resource.Resource
	switch {
	case q.Text == "":
		matched = candidates
	case opts.Matcher == MatcherFuzzy:
		matched = fuzzyMatch(candidates, q.Text)
	default:
		matched = substringMatch(candidates, q.Text)
	}

	// Duplicates from the archive merge must not use up the limit.
	matched = dedupe(matched)
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched
}

func substringMatch(items []resource.Resource, text string) []resource.Resource {
	out := make([]resource.Resource, 0, len(items))
	for _, r := range items {
		if strings.Contains(fold(r.Name), text) || strings.HasPrefix(strings.ToLower(r.UID), text) {
			out = append(out, r)
		}
	}
	return out
}

// fuzzyMatch orders by descending score; ties keep input order.
func fuzzyMatch(items []resource.Resource, text string) []resource.Resource {
	names := make([]string, len(items))
	for i, r := range items {
		names[i] = fold(r.Name)
	}

	matches := fuzzy.Find(text, names)
	out := make([]resource.Resource, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}
