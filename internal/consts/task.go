package consts

const (
	DEFAULT_DATA_SOURCE = "tasks"
	DEFAULT_EVENTS_CHAN = "taskmanager.task_events"

	// request limits; title matches the varchar(255) column
	MAX_TITLE_LEN       = 255
	MAX_DESCRIPTION_LEN = 4000
)

// Task event types published after a successful mutation.
const (
	EVENT_TASK_CREATED = "task.created"
	EVENT_TASK_UPDATED = "task.updated"
	EVENT_TASK_DELETED = "task.deleted"
)

// Label values of task_operations_total.
const (
	OPERATION_CREATE = "create"
	OPERATION_GET    = "get"
	OPERATION_LIST   = "list"
	OPERATION_UPDATE = "update"
	OPERATION_DELETE = "delete"

	RESULT_OK        = "ok"
	RESULT_NOT_FOUND = "not_found"
	RESULT_ERROR     = "error"
)
