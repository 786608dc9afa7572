package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	cqerrors "github.com/chazuruo/chaosq/internal/errors"
)

// PauseExperiment pauses a running experiment.
func (c *Client) PauseExperiment(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("pause experiment: empty uid: %w", cqerrors.ErrInvalid)
	}
	return c.do(ctx, http.MethodPut, "pause experiment", "/experiments/pause/"+url.PathEscape(uid), nil, nil)
}

// StartExperiment resumes a paused experiment.
func (c *Client) StartExperiment(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("start experiment: empty uid: %w", cqerrors.ErrInvalid)
	}
	return c.do(ctx, http.MethodPut, "start experiment", "/experiments/start/"+url.PathEscape(uid), nil, nil)
}

// ArchiveExperiment deletes an experiment, which moves it into the archives.
func (c *Client) ArchiveExperiment(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("archive experiment: empty uid: %w", cqerrors.ErrInvalid)
	}
	return c.do(ctx, http.MethodDelete, "archive experiment", "/experiments/"+url.PathEscape(uid), nil, nil)
}

// ArchiveExperiments archives several experiments in one request.
func (c *Client) ArchiveExperiments(ctx context.Context, uids []string) error {
	if len(uids) == 0 {
		return fmt.Errorf("archive experiments: no uids: %w", cqerrors.ErrInvalid)
	}
	q := url.Values{}
	q.Set("uids", strings.Join(uids, ","))
	return c.do(ctx, http.MethodDelete, "archive experiments", "/experiments", q, nil)
}
