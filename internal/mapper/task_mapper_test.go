package mapper

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/model"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestToInternalCopiesFields(t *testing.T) {
	task, err := ToInternal(&TaskRequest{Title: strPtr("Initial Task"), Description: strPtr("Initial Description"), Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("to internal: %v", err)
	}
	if task.Title != "Initial Task" || task.Description != "Initial Description" || !task.Completed {
		t.Fatalf("fields not copied: %+v", task)
	}
	if task.IsPersisted() || !task.CreatedAt.IsZero() || !task.UpdatedAt.IsZero() {
		t.Fatalf("new task must be unpersisted: %+v", task)
	}
}

func TestToInternalAcceptsEmptyStrings(t *testing.T) {
	task, err := ToInternal(&TaskRequest{Title: strPtr(""), Description: strPtr(""), Completed: boolPtr(false)})
	if err != nil {
		t.Fatalf("empty strings rejected: %v", err)
	}
	if task.Title != "" || task.Description != "" || task.Completed {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestValidationRejectsNulls(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"missing title":  {`{"description":"d","completed":false}`, "title is required"},
		"null title":     {`{"title":null,"description":"d","completed":false}`, "title is required"},
		"null desc":      {`{"title":"t","description":null,"completed":false}`, "description is required"},
		"null completed": {`{"title":"t","description":"d","completed":null}`, "completed is required"},
		"empty object":   {`{}`, "completed is required"},
	}
	for name, tc := range cases {
		var req TaskRequest
		if err := json.Unmarshal([]byte(tc.body), &req); err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		_, err := ToInternal(&req)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: want ValidationError, got %v", name, err)
		}
		if !strings.Contains(ve.Error(), tc.want) {
			t.Fatalf("%s: error %q missing %q", name, ve.Error(), tc.want)
		}
	}
	if _, err := ToInternal(nil); err == nil {
		t.Fatalf("nil request accepted")
	}
}

func TestValidationLengthLimits(t *testing.T) {
	long := strings.Repeat("界", 256)
	err := (&TaskRequest{Title: &long, Description: strPtr(""), Completed: boolPtr(false)}).Validate()
	if err == nil || !strings.Contains(err.Error(), "title must be at most 255") {
		t.Fatalf("expected title length error, got %v", err)
	}
	ok := strings.Repeat("界", 255)
	if err := (&TaskRequest{Title: &ok, Description: strPtr(""), Completed: boolPtr(false)}).Validate(); err != nil {
		t.Fatalf("255 runes rejected: %v", err)
	}
}

func TestToExternalKeepsInstant(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	task := &model.Task{ID: 7, Title: "t", Description: "d", Completed: true, CreatedAt: created, UpdatedAt: created.Add(time.Minute)}

	resp := New(shanghai).ToExternal(task)
	if resp.CreatedAt == nil || !resp.CreatedAt.Equal(created) {
		t.Fatalf("instant changed: %v", resp.CreatedAt)
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":7,"title":"t","description":"d","completed":true,"createdAt":"2024-05-01T18:00:00+08:00","updatedAt":"2024-05-01T18:01:00+08:00"}`
	if string(raw) != want {
		t.Fatalf("json\n got %s\nwant %s", raw, want)
	}

	raw, _ = json.Marshal(New(nil).ToExternal(task))
	if !strings.Contains(string(raw), `"createdAt":"2024-05-01T10:00:00Z"`) {
		t.Fatalf("utc rendering wrong: %s", raw)
	}
}

func TestToExternalOmitsUnsetTimestamps(t *testing.T) {
	raw, _ := json.Marshal(New(nil).ToExternal(model.NewTask("t", "", false)))
	if strings.Contains(string(raw), "createdAt") || strings.Contains(string(raw), "updatedAt") {
		t.Fatalf("zero timestamps should be omitted: %s", raw)
	}
	if list := New(nil).ToExternalList(nil); list == nil || len(list) != 0 {
		t.Fatalf("want empty non-nil list, got %#v", list)
	}
}
