package api

import (
	"time"

	"github.com/chazuruo/chaosq/internal/resource"
)

// Workflow is a workflow as returned by GET /api/workflows.
type Workflow struct {
	UID       string    `json:"uid"`
	Namespace string    `json:"namespace"`
	Name      string    `json:"name"`
	Entry     string    `json:"entry"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	EndTime   string    `json:"end_time,omitempty"`
}

// Schedule is a schedule as returned by GET /api/schedules.
type Schedule struct {
	UID       string    `json:"uid"`
	Kind      string    `json:"kind"`
	Namespace string    `json:"namespace"`
	Name      string    `json:"name"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Experiment is a chaos experiment as returned by GET /api/experiments.
type Experiment struct {
	UID           string    `json:"uid"`
	Kind          string    `json:"kind"`
	Namespace     string    `json:"namespace"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	FailedMessage string    `json:"failed_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Archive is an archived workflow, schedule or experiment.
type Archive struct {
	UID       string    `json:"uid"`
	Kind      string    `json:"kind"`
	Namespace string    `json:"namespace"`
	Name      string    `json:"name"`
	Action    string    `json:"action,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Experiment status values reported by the dashboard.
const (
	StatusInjecting = "injecting"
	StatusRunning   = "running"
	StatusFinished  = "finished"
	StatusPaused    = "paused"
	StatusFailed    = "failed"
	StatusDeleting  = "deleting"
	StatusUnknown   = "unknown"
)

// Resource tags w as a workflow.
func (w Workflow) Resource() resource.Resource {
	return resource.Resource{
		UID:       w.UID,
		Name:      w.Name,
		Namespace: w.Namespace,
		Variant:   resource.Workflow,
		Kind:      resource.KindWorkflow,
		Status:    w.Status,
		CreatedAt: w.CreatedAt,
	}
}

// Resource tags s as a schedule.
func (s Schedule) Resource() resource.Resource {
	return resource.Resource{
		UID:       s.UID,
		Name:      s.Name,
		Namespace: s.Namespace,
		Variant:   resource.Schedule,
		Kind:      s.Kind,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}

// Resource tags e as an experiment.
func (e Experiment) Resource() resource.Resource {
	return resource.Resource{
		UID:       e.UID,
		Name:      e.Name,
		Namespace: e.Namespace,
		Variant:   resource.Experiment,
		Kind:      e.Kind,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}
}

// Resource tags a as an archive. An empty kind is replaced by fallbackKind,
// which lets archived workflows and schedules keep their origin.
func (a Archive) Resource(fallbackKind string) resource.Resource {
	kind := a.Kind
	if kind == "" {
		kind = fallbackKind
	}
	return resource.Resource{
		UID:       a.UID,
		Name:      a.Name,
		Namespace: a.Namespace,
		Variant:   resource.Archive,
		Kind:      kind,
		CreatedAt: a.CreatedAt,
	}
}
