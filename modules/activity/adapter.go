package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-board/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityPort reads the activity feed.
type ActivityPort interface {
	RecentActivity(ctx context.Context, p user.Principal, userID string, limit int) ([]Entry, error)
}

// ActivityAdapter implements ActivityPort over the service container.
type ActivityAdapter struct {
	container mono.ServiceContainer
}

var _ ActivityPort = (*ActivityAdapter)(nil)

// NewActivityAdapter creates a new ActivityAdapter.
func NewActivityAdapter(container mono.ServiceContainer) *ActivityAdapter {
	return &ActivityAdapter{container: container}
}

// RecentActivity returns the newest entries visible to p.
func (a *ActivityAdapter) RecentActivity(ctx context.Context, p user.Principal, userID string, limit int) ([]Entry, error) {
	req := RecentActivityRequest{Principal: p, UserID: userID, Limit: limit}
	var resp RecentActivityReply
	if err := helper.CallRequestReplyService(ctx, a.container, "recent-activity", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return nil, fmt.Errorf("recent-activity request failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Entries, nil
}
