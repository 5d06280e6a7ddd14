package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/gormdb"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
	bizConsts "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/model"
)

// ErrTaskNotFound is returned when an update targets a row that does not exist.
var ErrTaskNotFound = errors.New("task not found")

// TaskDao persists tasks. Save picks insert or update from the record's id
// and is the only place timestamps are assigned.
type TaskDao interface {
	core.Component
	Save(ctx context.Context, t *model.Task) (*model.Task, error)
	FindByID(ctx context.Context, id int64) (*model.Task, bool, error)
	FindAll(ctx context.Context) ([]*model.Task, error)
	Delete(ctx context.Context, t *model.Task) error
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type taskDaoImpl struct {
	*core.BaseComponent
	GormComp *gormdb.GormComponent `infra:"dep:gorm_db"`
	db       *gorm.DB
	dsName   string
	now      func() time.Time
}

func NewTaskDao(dsName string) TaskDao {
	return newTaskDao(dsName, time.Now)
}

func newTaskDao(dsName string, now func() time.Time) *taskDaoImpl {
	return &taskDaoImpl{
		BaseComponent: core.NewBaseComponent(bizConsts.COMP_DAO_TASK, consts.COMPONENT_LOGGING),
		dsName:        dsName,
		now:           now,
	}
}

func (d *taskDaoImpl) Start(ctx context.Context) error {
	if err := d.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if d.GormComp == nil {
		return fmt.Errorf("task_dao: gorm_db component not injected")
	}
	db, err := d.GormComp.GetDB(d.dsName)
	if err != nil {
		return fmt.Errorf("get gorm db %s failed: %w", d.dsName, err)
	}
	d.db = db
	return nil
}

func (d *taskDaoImpl) Stop(ctx context.Context) error {
	return d.BaseComponent.Stop(ctx)
}

// timestamp is UTC at microsecond precision, the finest every dialect keeps.
func (d *taskDaoImpl) timestamp() time.Time {
	return d.now().UTC().Truncate(time.Microsecond)
}

func (d *taskDaoImpl) Save(ctx context.Context, t *model.Task) (*model.Task, error) {
	if t == nil {
		return nil, errors.New("save: nil task")
	}
	now := d.timestamp()
	if !t.IsPersisted() {
		rec := t.Clone()
		rec.CreatedAt = now
		rec.UpdatedAt = now
		if err := d.db.WithContext(ctx).Create(rec).Error; err != nil {
			return nil, fmt.Errorf("insert task: %w", err)
		}
		return rec, nil
	}

	// created_at is never part of the update
	err := d.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", t.ID).Updates(map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
		"updated_at":  now,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	saved, ok, err := d.FindByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("update task %d: %w", t.ID, ErrTaskNotFound)
	}
	return saved, nil
}

func (d *taskDaoImpl) FindByID(ctx context.Context, id int64) (*model.Task, bool, error) {
	var t model.Task
	err := d.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find task %d: %w", id, err)
	}
	return &t, true, nil
}

func (d *taskDaoImpl) FindAll(ctx context.Context) ([]*model.Task, error) {
	list := make([]*model.Task, 0)
	if err := d.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return list, nil
}

func (d *taskDaoImpl) Delete(ctx context.Context, t *model.Task) error {
	if t == nil {
		return errors.New("delete: nil task")
	}
	return d.DeleteByID(ctx, t.ID)
}

func (d *taskDaoImpl) DeleteByID(ctx context.Context, id int64) error {
	if err := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func (d *taskDaoImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := d.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("exists task %d: %w", id, err)
	}
	return n > 0, nil
}

func (d *taskDaoImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := d.db.WithContext(ctx).Model(&model.Task{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}
