package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/logging"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/redis"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
	bizConsts "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/mapper"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/model"
)

// Publisher announces task changes to other processes.
type Publisher interface {
	core.Component
	Publish(ctx context.Context, eventType string, t *model.Task) error
}

// TaskEvent is the JSON payload sent on the channel. Task is absent for
// deletions; EventID lets subscribers drop redeliveries.
type TaskEvent struct {
	EventID string               `json:"event_id"`
	Type    string               `json:"type"`
	TaskID  int64                `json:"task_id"`
	Task    *mapper.TaskResponse `json:"task,omitempty"`
	At      time.Time            `json:"at"`
}

// TaskEventPublisher publishes TaskEvent over redis pub/sub.
type TaskEventPublisher struct {
	*core.BaseComponent
	Redis   *redis.RedisComponent `infra:"dep:redis"`
	channel string
	mapper  *mapper.Mapper
	now     func() time.Time
	newID   func() string
}

func NewTaskEventPublisher(channel string) *TaskEventPublisher {
	if channel == "" {
		channel = bizConsts.DEFAULT_EVENTS_CHAN
	}
	return &TaskEventPublisher{
		BaseComponent: core.NewBaseComponent(bizConsts.COMP_TASK_EVENT_PUBLISHER),
		channel:       channel,
		mapper:        mapper.New(time.UTC),
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

func (p *TaskEventPublisher) Start(ctx context.Context) error {
	if p.Redis == nil {
		return fmt.Errorf("%s: redis component not injected", p.Name())
	}
	return p.BaseComponent.Start(ctx)
}

func (p *TaskEventPublisher) Stop(ctx context.Context) error {
	return p.BaseComponent.Stop(ctx)
}

func (p *TaskEventPublisher) Channel() string { return p.channel }

func (p *TaskEventPublisher) Publish(ctx context.Context, eventType string, t *model.Task) error {
	if t == nil {
		return fmt.Errorf("publish %s: nil task", eventType)
	}
	ev := TaskEvent{EventID: p.newID(), Type: eventType, TaskID: t.ID, At: p.now().UTC()}
	if eventType != bizConsts.EVENT_TASK_DELETED {
		resp := p.mapper.ToExternal(t)
		ev.Task = &resp
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	receivers, err := p.Redis.Client().Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", eventType, p.channel, err)
	}
	logging.Debugf(ctx, "task event %s id=%d delivered to %d subscribers", eventType, t.ID, receivers)
	return nil
}
