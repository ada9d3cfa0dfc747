package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/example/task-manager/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityModule records task events into per-owner feeds.
type ActivityModule struct {
	feed *Feed
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)
var _ mono.HealthCheckableModule = (*ActivityModule)(nil)

// NewModule creates an ActivityModule keeping capacity entries per owner.
func NewModule(capacity int) *ActivityModule {
	return &ActivityModule{feed: NewFeed(capacity)}
}

func (m *ActivityModule) Name() string {
	return "activity"
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: TaskCreated, TaskUpdated, TaskDeleted")
	return nil
}

// RegisterServices registers request-reply services in the service container.
func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent-activity", json.Unmarshal, json.Marshal, m.handleRecent,
	); err != nil {
		return fmt.Errorf("failed to register recent-activity service: %w", err)
	}

	log.Printf("[activity] Registered services: recent-activity")
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.feed.Record(event.OwnerID, Entry{
		Kind:       KindCreated,
		TaskID:     event.TaskID,
		Title:      event.Title,
		Message:    fmt.Sprintf("Created task '%s'", event.Title),
		OccurredAt: event.CreatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	message := fmt.Sprintf("Updated %s of task '%s'", strings.Join(event.Changed, ", "), event.Title)
	if len(event.Changed) == 1 && event.Changed[0] == "status" {
		message = fmt.Sprintf("Moved task '%s' to %s", event.Title, event.Status)
	}

	m.feed.Record(event.OwnerID, Entry{
		Kind:       KindUpdated,
		TaskID:     event.TaskID,
		Title:      event.Title,
		Message:    message,
		OccurredAt: event.UpdatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.feed.Record(event.OwnerID, Entry{
		Kind:       KindDeleted,
		TaskID:     event.TaskID,
		Title:      event.Title,
		Message:    fmt.Sprintf("Removed task '%s'", event.Title),
		OccurredAt: event.DeletedAt,
	})
	return nil
}

func (m *ActivityModule) handleRecent(_ context.Context, req RecentActivityRequest, _ *mono.Msg) (RecentActivityResponse, error) {
	if req.OwnerID == "" {
		return RecentActivityResponse{Entries: []Entry{}, Error: "owner is required"}, nil
	}
	return RecentActivityResponse{Entries: m.feed.Recent(req.OwnerID, req.Limit)}, nil
}

func (m *ActivityModule) Start(_ context.Context) error {
	log.Printf("[activity] Module started - keeping %d entries per owner", m.feed.capacity)
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}

// Health always reports healthy; the feed lives in memory.
func (m *ActivityModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"owners": m.feed.Owners(),
		},
	}
}
