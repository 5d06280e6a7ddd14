package consts

// Component names for the taskmanager project.
const (
	COMP_DAO_TASK             = "task_dao"
	COMP_SVC_TASK             = "task_service"
	COMP_CTRL_TASK            = "task_ctrl"
	COMP_TASK_EVENT_PUBLISHER = "task_event_publisher"
)
