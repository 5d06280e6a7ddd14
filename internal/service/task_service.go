package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/logging"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/prometheus"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
	bizConsts "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/dao"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/model"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/notifier"
)

const instrumentationName = "taskmanager/service"

// ErrTaskNotFound reports an operation on an id with no stored task.
var ErrTaskNotFound = dao.ErrTaskNotFound

// TaskService orchestrates the task store for the HTTP handlers.
// Mutations look the task up first so an absent id never reaches Save or Delete.
type TaskService struct {
	*core.BaseComponent
	Dao       dao.TaskDao           `infra:"dep:task_dao"`
	Metrics   *prometheus.Component `infra:"dep:prometheus?"`
	Publisher notifier.Publisher    `infra:"dep:task_event_publisher?"`

	tracer   trace.Tracer
	duration metric.Float64Histogram
	ops      *prom.CounterVec
}

func NewTaskService() *TaskService {
	s := &TaskService{
		BaseComponent: core.NewBaseComponent(bizConsts.COMP_SVC_TASK),
		tracer:        otel.Tracer(instrumentationName),
	}
	h, err := otel.Meter(instrumentationName).Float64Histogram("task.operation.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of task service operations"))
	if err == nil {
		s.duration = h
	}
	return s
}

func (s *TaskService) Start(ctx context.Context) error {
	if s.Dao == nil {
		return fmt.Errorf("%s: task_dao not injected", s.Name())
	}
	if s.Metrics != nil {
		s.ops = s.Metrics.NewCounter("task_operations_total", "Task operations by result", []string{"operation", "result"})
	}
	return s.BaseComponent.Start(ctx)
}

func (s *TaskService) Stop(ctx context.Context) error {
	return s.BaseComponent.Stop(ctx)
}

func (s *TaskService) Create(ctx context.Context, t *model.Task) (_ *model.Task, err error) {
	ctx, done := s.observe(ctx, bizConsts.OPERATION_CREATE)
	defer func() { done(err) }()

	saved, err := s.Dao.Save(ctx, t)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, bizConsts.EVENT_TASK_CREATED, saved)
	return saved, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (_ *model.Task, err error) {
	ctx, done := s.observe(ctx, bizConsts.OPERATION_GET, attribute.Int64("task.id", id))
	defer func() { done(err) }()

	t, ok, err := s.Dao.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context) (_ []*model.Task, err error) {
	ctx, done := s.observe(ctx, bizConsts.OPERATION_LIST)
	defer func() { done(err) }()

	return s.Dao.FindAll(ctx)
}

// Update copies title, description and completed from changes onto the
// stored task. id and CreatedAt of the stored task are kept.
func (s *TaskService) Update(ctx context.Context, id int64, changes *model.Task) (_ *model.Task, err error) {
	ctx, done := s.observe(ctx, bizConsts.OPERATION_UPDATE, attribute.Int64("task.id", id))
	defer func() { done(err) }()

	if changes == nil {
		return nil, errors.New("update: nil changes")
	}
	existing, ok, err := s.Dao.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTaskNotFound
	}
	existing.Title = changes.Title
	existing.Description = changes.Description
	existing.Completed = changes.Completed

	saved, err := s.Dao.Save(ctx, existing)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, bizConsts.EVENT_TASK_UPDATED, saved)
	return saved, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) (err error) {
	ctx, done := s.observe(ctx, bizConsts.OPERATION_DELETE, attribute.Int64("task.id", id))
	defer func() { done(err) }()

	existing, ok, err := s.Dao.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskNotFound
	}
	if err := s.Dao.Delete(ctx, existing); err != nil {
		return err
	}
	s.publish(ctx, bizConsts.EVENT_TASK_DELETED, existing)
	return nil
}

// observe opens a span for op and returns a func that closes it and records
// the outcome.
func (s *TaskService) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "task."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		result := resultOf(err)
		if result == bizConsts.RESULT_ERROR {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("task.result", result))
		span.End()

		if s.duration != nil {
			s.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
				attribute.String("operation", op),
				attribute.String("result", result)))
		}
		if s.ops != nil {
			s.ops.WithLabelValues(op, result).Inc()
		}
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return bizConsts.RESULT_OK
	case errors.Is(err, ErrTaskNotFound):
		return bizConsts.RESULT_NOT_FOUND
	default:
		return bizConsts.RESULT_ERROR
	}
}

// publish 失败只记日志，不影响请求结果
func (s *TaskService) publish(ctx context.Context, eventType string, t *model.Task) {
	if s.Publisher == nil || !s.Publisher.IsActive() {
		return
	}
	if err := s.Publisher.Publish(ctx, eventType, t); err != nil {
		logging.Warn(ctx, "publish task event failed",
			zap.String("event", eventType), zap.Int64("task_id", t.ID), zap.Error(err))
	}
}
