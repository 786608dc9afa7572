package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	cqerrors "github.com/chazuruo/chaosq/internal/errors"
)

// ArchiveWorkflow deletes a workflow, which moves it into the workflow
// archives.
func (c *Client) ArchiveWorkflow(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("archive workflow: empty uid: %w", cqerrors.ErrInvalid)
	}
	return c.do(ctx, http.MethodDelete, "archive workflow", "/workflows/"+url.PathEscape(uid), nil, nil)
}
