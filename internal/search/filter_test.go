package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/chaosq/internal/resource"
)

func res(v resource.Variant, uid, name, ns, kind string) resource.Resource {
	return resource.Resource{
		UID:       uid,
		Name:      name,
		Namespace: ns,
		Variant:   v,
		Kind:      kind,
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func sampleCollections() Collections {
	return Collections{
		Workflows: []resource.Resource{
			res(resource.Workflow, "w1", "pod-kill-flow", "default", resource.KindWorkflow),
			res(resource.Workflow, "w2", "io-stress-flow", "chaos-testing", resource.KindWorkflow),
		},
		Schedules: []resource.Resource{
			res(resource.Schedule, "s1", "nightly-pod-failure", "chaos-testing", "PodChaos"),
		},
		Experiments: []resource.Resource{
			res(resource.Experiment, "e1", "pod-kill", "default", "PodChaos"),
			res(resource.Experiment, "e2", "network-delay", "default", "NetworkChaos"),
			res(resource.Experiment, "e3", "Café-latency", "default", "NetworkChaos"),
		},
		Archives: []resource.Resource{
			res(resource.Archive, "a1", "pod-failure-archived", "default", "PodChaos"),
			res(resource.Archive, "a2", "old-pod-flow", "default", resource.KindWorkflow),
		},
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		in   string
		want Query
	}{
		{"", Query{}},
		{"pod", Query{Text: "pod"}},
		{"  Pod Kill ", Query{Text: "pod kill"}},
		{"namespace:default pod", Query{Namespace: "default", Text: "pod"}},
		{"ns:Chaos-Testing", Query{Namespace: "chaos-testing"}},
		{"kind:PodChaos kill", Query{Kind: "podchaos", Text: "kill"}},
		{"kind: pod", Query{Text: "kind: pod"}},
		{"label:x", Query{Text: "label:x"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.in))
		})
	}
}

func TestParseMatcher(t *testing.T) {
	m, err := ParseMatcher("Fuzzy")
	require.NoError(t, err)
	assert.Equal(t, MatcherFuzzy, m)

	m, err = ParseMatcher("")
	require.NoError(t, err)
	assert.Equal(t, MatcherSubstring, m)

	_, err = ParseMatcher("regex")
	assert.Error(t, err)
}

func uids(items []resource.Resource) []string {
	out := make([]string, 0, len(items))
	for _, r := range items {
		out = append(out, r.UID)
	}
	return out
}

func TestFilter_Substring(t *testing.T) {
	c := sampleCollections()

	tests := []struct {
		name  string
		query string
		want  Collections
	}{
		{
			name:  "empty query keeps everything",
			query: "",
			want:  c,
		},
		{
			name:  "name substring",
			query: "pod",
			want: Collections{
				Workflows:   c.Workflows[:1],
				Schedules:   c.Schedules,
				Experiments: c.Experiments[:1],
				Archives:    c.Archives,
			},
		},
		{
			name:  "namespace qualifier",
			query: "namespace:chaos-testing",
			want: Collections{
				Workflows: c.Workflows[1:],
				Schedules: c.Schedules,
			},
		},
		{
			name:  "kind qualifier is a substring",
			query: "kind:network",
			want: Collections{
				Experiments: c.Experiments[1:],
			},
		},
		{
			name:  "qualifiers and text combine",
			query: "ns:default kind:pod kill",
			want: Collections{
				Experiments: c.Experiments[:1],
			},
		},
		{
			name:  "accents and case fold",
			query: "CAFE",
			want: Collections{
				Experiments: c.Experiments[2:],
			},
		},
		{
			name:  "uid prefix",
			query: "a2",
			want: Collections{
				Archives: c.Archives[1:],
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(c, tt.query, FilterOptions{})
			for _, v := range resource.Variants {
				assert.Equal(t, uids(tt.want.Of(v)), uids(got.Of(v)), v.Plural())
			}
		})
	}
}

func TestFilter_Fuzzy(t *testing.T) {
	c := sampleCollections()

	got := Filter(c, "pdkl", FilterOptions{Matcher: MatcherFuzzy})
	assert.Equal(t, []string{"w1"}, uids(got.Workflows))
	assert.Equal(t, []string{"e1"}, uids(got.Experiments))
	assert.Empty(t, got.Schedules)

	got = Filter(c, "kind:pod pdkl", FilterOptions{Matcher: MatcherFuzzy})
	assert.Equal(t, []string{"e1"}, uids(got.Experiments))
	assert.Empty(t, got.Workflows, "workflow kind does not contain pod")
}

func TestFilter_Limit(t *testing.T) {
	c := sampleCollections()

	got := Filter(c, "", FilterOptions{Limit: 1})
	for _, v := range resource.Variants {
		assert.LessOrEqual(t, len(got.Of(v)), 1, v.Plural())
	}
	assert.Equal(t, []string{"e1"}, uids(got.Experiments))
}

func TestFilter_LimitCountsDistinctResources(t *testing.T) {
	a := res(resource.Archive, "a", "pod-failure-archived", "default", "PodChaos")
	b := res(resource.Archive, "b", "old-pod-flow", "default", resource.KindWorkflow)
	c := Collections{Archives: MergeArchives(
		[]resource.Resource{a},
		[]resource.Resource{a},
		[]resource.Resource{b},
	)}

	for _, m := range []Matcher{MatcherSubstring, MatcherFuzzy} {
		got := Filter(c, "pod", FilterOptions{Matcher: m, Limit: 2})
		assert.ElementsMatch(t, []string{"a", "b"}, uids(got.Archives), string(m))

		rs := NewResultSet("pod", got)
		assert.Equal(t, 2, rs.Len(), string(m))
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	c := sampleCollections()
	before := sampleCollections()

	_ = Filter(c, "pod", FilterOptions{Limit: 1})
	_ = Filter(c, "pdkl", FilterOptions{Matcher: MatcherFuzzy})

	assert.Equal(t, before, c)
}

func TestFilter_Idempotent(t *testing.T) {
	c := sampleCollections()

	for _, q := range []string{"", "pod", "zzz", "ns:default kind:network", "CAFE"} {
		for _, m := range []Matcher{MatcherSubstring, MatcherFuzzy} {
			opts := FilterOptions{Matcher: m}
			first := Filter(c, q, opts)
			second := Filter(c, q, opts)
			assert.Equal(t, first, second, "%s/%s", m, q)
			assert.Equal(t, NewResultSet(q, first), NewResultSet(q, second), "%s/%s", m, q)
		}
	}
}

func TestFilter_NoMatches(t *testing.T) {
	got := Filter(sampleCollections(), "zzz-nothing", FilterOptions{})
	assert.Zero(t, got.Len())

	rs := NewResultSet("zzz-nothing", got)
	assert.True(t, rs.Empty())
	assert.Empty(t, rs.Groups)
	assert.Empty(t, rs.Items())
}

func TestFilter_SingleVariant(t *testing.T) {
	rs := NewResultSet("network", Filter(sampleCollections(), "network", FilterOptions{}))

	require.Len(t, rs.Groups, 1)
	assert.Equal(t, resource.Experiment, rs.Groups[0].Variant)
	assert.Equal(t, "experiments", rs.Groups[0].Key)
	assert.Equal(t, "Experiments", rs.Groups[0].Label)
	assert.Equal(t, []string{"e2"}, uids(rs.Items()))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "unicode", fold(" Ünïcode "))
	assert.Equal(t, "strasse", fold("STRASSE"))
	assert.Equal(t, "pod-kill", fold("Pod-Kill"))
}
