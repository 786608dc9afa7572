// Package resource defines the searchable dashboard resources and how a
// selected resource maps to a dashboard navigation path.
package resource

import (
	"fmt"
	"strings"
	"time"
)

// Variant tags which kind of dashboard object a Resource is.
type Variant int

// The four searchable variants. The zero value is not a valid variant.
const (
	Workflow Variant = iota + 1
	Schedule
	Experiment
	Archive
)

// Variants lists every variant in display order.
var Variants = []Variant{Workflow, Schedule, Experiment, Archive}

// String returns the singular lower-case tag ("workflow").
func (v Variant) String() string {
	switch v {
	case Workflow:
		return "workflow"
	case Schedule:
		return "schedule"
	case Experiment:
		return "experiment"
	case Archive:
		return "archive"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Plural returns the grouping key and path segment ("workflows").
func (v Variant) Plural() string {
	return v.String() + "s"
}

// Valid reports whether v is one of the four variants.
func (v Variant) Valid() bool {
	return v >= Workflow && v <= Archive
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid variant %d", int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVariant accepts the singular or plural tag in any case.
func ParseVariant(s string) (Variant, error) {
	tag := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for _, v := range Variants {
		if v.String() == tag {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown resource type %q (want workflow, schedule, experiment or archive)", s)
}

// Original kinds an archive can refer to besides experiment kinds.
const (
	KindWorkflow = "Workflow"
	KindSchedule = "Schedule"
)

// Resource is the shape every searchable object is normalized into.
type Resource struct {
	UID       string    `json:"uid" yaml:"uid"`
	Name      string    `json:"name" yaml:"name"`
	Namespace string    `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Variant   Variant   `json:"type" yaml:"type"`
	Kind      string    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Status    string    `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Link returns the dashboard path for r.
func (r Resource) Link() string {
	return ResolveLink(r.UID, r.Variant, r.Kind)
}

// ResolveLink computes the dashboard path of a resource.
//
// The base path is /{plural variant}/{uid}. Archives also carry the lower-cased
// original kind as a kind query parameter; anything other than Workflow or
// Schedule is an archived experiment.
func ResolveLink(uid string, v Variant, originalKind string) string {
	link := "/" + v.Plural() + "/" + uid

	switch v {
	case Archive:
		switch originalKind {
		case KindWorkflow, KindSchedule:
			link += "?kind=" + strings.ToLower(originalKind)
		default:
			link += "?kind=experiment"
		}
	case Workflow, Schedule, Experiment:
	}

	return link
}
