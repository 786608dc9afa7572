package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazuruo/chaosq/internal/api"
)

// Request is a request observed by a Dashboard.
type Request struct {
	Method      string
	Path        string
	EscapedPath string
	Query       string
	Header      http.Header
}

// Dashboard is an in-memory fake of the dashboard REST API backed by
// httptest. Fixtures and failures can be changed between requests.
type Dashboard struct {
	Server *httptest.Server

	mu               sync.Mutex
	Workflows        []api.Workflow
	WorkflowArchives []api.Archive
	Schedules        []api.Schedule
	ScheduleArchives []api.Archive
	Experiments      []api.Experiment
	Archives         []api.Archive

	failures map[string]int
	requests []Request
}

// NewDashboard starts a fake dashboard seeded with Fixtures and closes it
// when the test completes.
func NewDashboard(t *testing.T) *Dashboard {
	t.Helper()

	f := Fixtures()
	d := &Dashboard{
		Workflows:        f.Workflows,
		WorkflowArchives: f.WorkflowArchives,
		Schedules:        f.Schedules,
		ScheduleArchives: f.ScheduleArchives,
		Experiments:      f.Experiments,
		Archives:         f.Archives,
		failures:         map[string]int{},
	}
	d.Server = httptest.NewServer(http.HandlerFunc(d.serve))
	t.Cleanup(d.Server.Close)

	return d
}

// URL returns the base URL of the fake dashboard.
func (d *Dashboard) URL() string { return d.Server.URL }

// Fail makes every request to path answer with status until cleared with
// a status of zero.
func (d *Dashboard) Fail(path string, status int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if status == 0 {
		delete(d.failures, path)
		return
	}
	d.failures[path] = status
}

// Requests returns a copy of every request served so far.
func (d *Dashboard) Requests() []Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Request(nil), d.requests...)
}

// Count returns how many requests hit path.
func (d *Dashboard) Count(path string) int {
	n := 0
	for _, r := range d.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// SetExperimentStatus updates the status of the experiment with uid.
func (d *Dashboard) SetExperimentStatus(uid, status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.Experiments {
		if d.Experiments[i].UID == uid {
			d.Experiments[i].Status = status
		}
	}
}

// ExperimentStatus returns the current status of the experiment with uid.
func (d *Dashboard) ExperimentStatus(uid string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.Experiments {
		if e.UID == uid {
			return e.Status
		}
	}
	return ""
}

func (d *Dashboard) serve(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	d.requests = append(d.requests, Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		EscapedPath: r.URL.EscapedPath(),
		Query:       r.URL.RawQuery,
		Header:      r.Header.Clone(),
	})
	status, failing := d.failures[r.URL.Path]
	d.mu.Unlock()

	if failing {
		writeJSON(w, status, map[string]any{"code": status, "type": "error", "message": http.StatusText(status)})
		return
	}

	ns := r.URL.Query().Get("namespace")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/workflows":
		writeJSON(w, http.StatusOK, listed(d, &d.Workflows, ns, func(v api.Workflow) string { return v.Namespace }))
	case r.Method == http.MethodGet && r.URL.Path == "/api/archives/workflows":
		writeJSON(w, http.StatusOK, listed(d, &d.WorkflowArchives, ns, archiveNamespace))
	case r.Method == http.MethodGet && r.URL.Path == "/api/schedules":
		writeJSON(w, http.StatusOK, listed(d, &d.Schedules, ns, func(v api.Schedule) string { return v.Namespace }))
	case r.Method == http.MethodGet && r.URL.Path == "/api/archives/schedules":
		writeJSON(w, http.StatusOK, listed(d, &d.ScheduleArchives, ns, archiveNamespace))
	case r.Method == http.MethodGet && r.URL.Path == "/api/experiments":
		writeJSON(w, http.StatusOK, listed(d, &d.Experiments, ns, func(v api.Experiment) string { return v.Namespace }))
	case r.Method == http.MethodGet && r.URL.Path == "/api/archives":
		writeJSON(w, http.StatusOK, listed(d, &d.Archives, ns, archiveNamespace))
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/experiments/pause/"):
		d.transition(w, strings.TrimPrefix(r.URL.Path, "/api/experiments/pause/"), api.StatusPaused)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/experiments/start/"):
		d.transition(w, strings.TrimPrefix(r.URL.Path, "/api/experiments/start/"), api.StatusRunning)
	case r.Method == http.MethodDelete && r.URL.Path == "/api/experiments":
		uids := strings.Split(r.URL.Query().Get("uids"), ",")
		for _, uid := range uids {
			d.archive(uid)
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/experiments/"):
		if !d.archive(strings.TrimPrefix(r.URL.Path, "/api/experiments/")) {
			writeJSON(w, http.StatusNotFound, map[string]any{"code": 404, "message": "experiment not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/workflows/"):
		if !d.archiveWorkflow(strings.TrimPrefix(r.URL.Path, "/api/workflows/")) {
			writeJSON(w, http.StatusNotFound, map[string]any{"code": 404, "message": "workflow not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"code": 404, "message": "no route for " + r.URL.Path})
	}
}

// listed returns the items of one fixture list within ns, or all of them
// when ns is empty.
func listed[T any](d *Dashboard, items *[]T, ns string, namespace func(T) string) []T {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]T, 0, len(*items))
	for _, it := range *items {
		if ns == "" || namespace(it) == ns {
			out = append(out, it)
		}
	}
	return out
}

func (d *Dashboard) transition(w http.ResponseWriter, uid, status string) {
	d.mu.Lock()
	found := false
	for i := range d.Experiments {
		if d.Experiments[i].UID == uid {
			d.Experiments[i].Status = status
			found = true
		}
	}
	d.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"code": 404, "message": "experiment not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// archive moves an experiment into the archives.
func (d *Dashboard) archive(uid string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, e := range d.Experiments {
		if e.UID != uid {
			continue
		}
		d.Experiments = append(d.Experiments[:i:i], d.Experiments[i+1:]...)
		d.Archives = append(d.Archives, api.Archive{
			UID:       e.UID,
			Kind:      e.Kind,
			Namespace: e.Namespace,
			Name:      e.Name,
			CreatedAt: e.CreatedAt,
		})
		return true
	}
	return false
}

// archiveWorkflow moves a workflow into the workflow archives.
func (d *Dashboard) archiveWorkflow(uid string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, wf := range d.Workflows {
		if wf.UID != uid {
			continue
		}
		d.Workflows = append(d.Workflows[:i:i], d.Workflows[i+1:]...)
		d.WorkflowArchives = append(d.WorkflowArchives, api.Archive{
			UID:       wf.UID,
			Kind:      "Workflow",
			Namespace: wf.Namespace,
			Name:      wf.Name,
			CreatedAt: wf.CreatedAt,
		})
		return true
	}
	return false
}

func archiveNamespace(a api.Archive) string { return a.Namespace }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fixture UIDs used across tests.
const (
	WorkflowUID        = "0b6a6c2e-2f3a-4a0c-9d1e-1a2b3c4d5e01"
	WorkflowArchiveUID = "0b6a6c2e-2f3a-4a0c-9d1e-1a2b3c4d5e02"
	ScheduleUID        = "0b6a6c2e-2f3a-4a0c-9d1e-1a2b3c4d5e03"
	ScheduleArchiveUID = "0b6a6c2e-2f3a-4a0c-9d1e-1a2b3c4d5e04"
	ExperimentUID      = "0b6a6c2e-2f3a-4a0c-9d1e-1a2b3c4d5e05"
	PausedUID          = "0b6a6c2e-2f3a-4a0c-9d1e-1a2b3c4d5e06"
	ArchiveUID         = "0b6a6c2e-2f3a-4a0c-9d1e-1a2b3c4d5e07"
)

// FixtureSet is the data a fresh Dashboard serves.
type FixtureSet struct {
	Workflows        []api.Workflow
	WorkflowArchives []api.Archive
	Schedules        []api.Schedule
	ScheduleArchives []api.Archive
	Experiments      []api.Experiment
	Archives         []api.Archive
}

// Fixtures returns a small data set where every resource name contains
// "pod" except the paused network experiment.
func Fixtures() FixtureSet {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return FixtureSet{
		Workflows: []api.Workflow{
			{UID: WorkflowUID, Namespace: "default", Name: "pod-kill-flow", Entry: "entry", Status: "running", CreatedAt: created},
		},
		WorkflowArchives: []api.Archive{
			{UID: WorkflowArchiveUID, Kind: "Workflow", Namespace: "default", Name: "old-pod-flow", CreatedAt: created},
		},
		Schedules: []api.Schedule{
			{UID: ScheduleUID, Kind: "PodChaos", Namespace: "chaos-testing", Name: "nightly-pod-failure", CreatedAt: created},
		},
		ScheduleArchives: []api.Archive{
			{UID: ScheduleArchiveUID, Kind: "Schedule", Namespace: "chaos-testing", Name: "weekly-pod-failure", CreatedAt: created},
		},
		Experiments: []api.Experiment{
			{UID: ExperimentUID, Kind: "PodChaos", Namespace: "default", Name: "pod-kill", Status: api.StatusRunning, CreatedAt: created},
			{UID: PausedUID, Kind: "NetworkChaos", Namespace: "default", Name: "network-delay", Status: api.StatusPaused, CreatedAt: created},
		},
		Archives: []api.Archive{
			{UID: ArchiveUID, Kind: "PodChaos", Namespace: "default", Name: "pod-failure-archived", CreatedAt: created},
		},
	}
}
