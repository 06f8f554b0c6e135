package engine

import (
	"context"
	"fmt"

	"github.com/corevcs/corevcs/pkg/object"
)

// Log walks first-parent history from HEAD, newest first. It returns an
// empty slice when HEAD has no resolvable commit yet.
func (e *Engine) Log(ctx context.Context) ([]*object.Commit, error) {
	current, ok := e.Refs.HeadCommit()
	if !ok {
		return nil, nil
	}

	var commits []*object.Commit
	for current != "" {
		c, err := object.GetCommit(ctx, e.Store, current)
		if err != nil {
			return nil, fmt.Errorf("engine: log: read %s: %w", current, err)
		}
		commits = append(commits, c)
		if len(c.Parents) == 0 {
			break
		}
		current = c.Parents[0]
	}
	return commits, nil
}
