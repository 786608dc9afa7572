package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLink(t *testing.T) {
	const uid = "3f5b8e2c-9d1a-4f6e-8b7c-2a1d0e9f8c7b"

	tests := []struct {
		name    string
		variant Variant
		kind    string
		want    string
	}{
		{"workflow", Workflow, "", "/workflows/" + uid},
		{"workflow ignores kind", Workflow, "Schedule", "/workflows/" + uid},
		{"schedule", Schedule, "PodChaos", "/schedules/" + uid},
		{"experiment", Experiment, "NetworkChaos", "/experiments/" + uid},
		{"archived workflow", Archive, "Workflow", "/archives/" + uid + "?kind=workflow"},
		{"archived schedule", Archive, "Schedule", "/archives/" + uid + "?kind=schedule"},
		{"archived experiment", Archive, "PodChaos", "/archives/" + uid + "?kind=experiment"},
		{"archive with unknown kind", Archive, "Unknown", "/archives/" + uid + "?kind=experiment"},
		{"archive with empty kind", Archive, "", "/archives/" + uid + "?kind=experiment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLink(uid, tt.variant, tt.kind))
		})
	}
}

func TestResourceLink(t *testing.T) {
	r := Resource{UID: "abc", Variant: Archive, Kind: KindSchedule}
	assert.Equal(t, "/archives/abc?kind=schedule", r.Link())
}

func TestVariantStrings(t *testing.T) {
	want := map[Variant][2]string{
		Workflow:   {"workflow", "workflows"},
		Schedule:   {"schedule", "schedules"},
		Experiment: {"experiment", "experiments"},
		Archive:    {"archive", "archives"},
	}

	for _, v := range Variants {
		assert.True(t, v.Valid())
		assert.Equal(t, want[v][0], v.String())
		assert.Equal(t, want[v][1], v.Plural())
	}

	assert.False(t, Variant(0).Valid())
	assert.False(t, Variant(9).Valid())
}

func TestParseVariant(t *testing.T) {
	for _, in := range []string{"workflow", "Workflows", " WORKFLOW "} {
		v, err := ParseVariant(in)
		require.NoError(t, err, in)
		assert.Equal(t, Workflow, v)
	}

	v, err := ParseVariant("archives")
	require.NoError(t, err)
	assert.Equal(t, Archive, v)

	_, err = ParseVariant("podchaos")
	assert.ErrorContains(t, err, `unknown resource type "podchaos"`)
}

func TestVariantJSON(t *testing.T) {
	data, err := json.Marshal(Resource{UID: "u1", Name: "n", Variant: Experiment})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"experiment"`)

	var r Resource
	require.NoError(t, json.Unmarshal([]byte(`{"uid":"u2","type":"schedules"}`), &r))
	assert.Equal(t, Schedule, r.Variant)

	_, err = json.Marshal(Resource{UID: "u3"})
	assert.Error(t, err, "zero variant must not marshal")
}
