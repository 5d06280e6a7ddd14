package mapper

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	bizConsts "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/model"
)

// TaskRequest is the inbound body of create and update. Pointers separate a
// missing or null field from an empty one.
type TaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TaskResponse is the outbound task shape.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ValidationError collects every rejected field of a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (r *TaskRequest) Validate() error {
	var problems []string
	if r.Title == nil {
		problems = append(problems, "title is required")
	} else if n := utf8.RuneCountInString(*r.Title); n > bizConsts.MAX_TITLE_LEN {
		problems = append(problems, fmt.Sprintf("title must be at most %d characters", bizConsts.MAX_TITLE_LEN))
	}
	if r.Description == nil {
		problems = append(problems, "description is required")
	} else if n := utf8.RuneCountInString(*r.Description); n > bizConsts.MAX_DESCRIPTION_LEN {
		problems = append(problems, fmt.Sprintf("description must be at most %d characters", bizConsts.MAX_DESCRIPTION_LEN))
	}
	if r.Completed == nil {
		problems = append(problems, "completed is required")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ToInternal validates req and copies its fields onto a new unpersisted task.
func ToInternal(req *TaskRequest) (*model.Task, error) {
	if req == nil {
		return nil, &ValidationError{Problems: []string{"request body is required"}}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return model.NewTask(*req.Title, *req.Description, *req.Completed), nil
}

// Mapper renders tasks for the wire in a fixed location.
type Mapper struct {
	loc *time.Location
}

func New(loc *time.Location) *Mapper {
	if loc == nil {
		loc = time.UTC
	}
	return &Mapper{loc: loc}
}

func (m *Mapper) ToExternal(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   m.instant(t.CreatedAt),
		UpdatedAt:   m.instant(t.UpdatedAt),
	}
}

func (m *Mapper) ToExternalList(list []*model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, m.ToExternal(t))
	}
	return out
}

func (m *Mapper) instant(ts time.Time) *time.Time {
	if ts.IsZero() {
		return nil
	}
	v := ts.In(m.loc)
	return &v
}
