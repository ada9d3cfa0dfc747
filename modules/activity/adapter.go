package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityPort reads an owner's activity feed.
type ActivityPort interface {
	Recent(ctx context.Context, ownerID string, limit int) ([]Entry, error)
}

// ActivityAdapter implements ActivityPort over the recent-activity service.
type ActivityAdapter struct {
	container mono.ServiceContainer
}

var _ ActivityPort = (*ActivityAdapter)(nil)

// NewActivityAdapter creates a new ActivityAdapter.
func NewActivityAdapter(container mono.ServiceContainer) *ActivityAdapter {
	return &ActivityAdapter{container: container}
}

// Recent returns up to limit of the owner's newest entries.
func (a *ActivityAdapter) Recent(ctx context.Context, ownerID string, limit int) ([]Entry, error) {
	req := RecentActivityRequest{OwnerID: ownerID, Limit: limit}
	var resp RecentActivityResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"recent-activity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("recent-activity request failed: %w", err)
	}

	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	if resp.Entries == nil {
		return []Entry{}, nil
	}
	return resp.Entries, nil
}
