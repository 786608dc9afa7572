package search

import "github.com/chazuruo/chaosq/internal/resource"

// Group is the results of one variant.
type Group struct {
	Variant resource.Variant    `json:"type" yaml:"type"`
	Key     string              `json:"key" yaml:"key"`
	Label   string              `json:"label" yaml:"label"`
	Items   []resource.Resource `json:"items" yaml:"items"`
}

// ResultSet is the outcome of one completed search cycle. Groups appear in
// variant order (workflows, schedules, experiments, archives) and empty
// groups are omitted.
type ResultSet struct {
	Query  string  `json:"query" yaml:"query"`
	Groups []Group `json:"groups" yaml:"groups"`
}

// NewResultSet groups filtered collections. Within a group only the first
// resource with a given UID is kept.
func NewResultSet(query string, c Collections) ResultSet {
	rs := ResultSet{Query: query, Groups: []Group{}}

	for _, v := range resource.Variants {
		items := dedupe(c.Of(v))
		if len(items) == 0 {
			continue
		}
		rs.Groups = append(rs.Groups, Group{
			Variant: v,
			Key:     v.Plural(),
			Label:   label(v.Plural()),
			Items:   items,
		})
	}

	return rs
}

func dedupe(items []resource.Resource) []resource.Resource {
	seen := make(map[string]bool, len(items))
	out := make([]resource.Resource, 0, len(items))
	for _, r := range items {
		if seen[r.UID] {
			continue
		}
		seen[r.UID] = true
		out = append(out, r)
	}
	return out
}

// Len returns the number of resources across all groups.
func (rs ResultSet) Len() int {
	n := 0
	for _, g := range rs.Groups {
		n += len(g.Items)
	}
	return n
}

// Empty reports whether the result set has no resources.
func (rs ResultSet) Empty() bool { return rs.Len() == 0 }

// Items returns every resource in display order.
func (rs ResultSet) Items() []resource.Resource {
	out := make([]resource.Resource, 0, rs.Len())
	for _, g := range rs.Groups {
		out = append(out, g.Items...)
	}
	return out
}

// Group returns the group for v, if present.
func (rs ResultSet) Group(v resource.Variant) (Group, bool) {
	for _, g := range rs.Groups {
		if g.Variant == v {
			return g, true
		}
	}
	return Group{}, false
}
