package consts

const (
	ENV_PRODUCTION  = "production"
	ENV_DEVELOPMENT = "development"
	ENV_TEST        = "test"

	DEFAULT_CONFIG_PATH = "config/config.yaml"

	KEY_TraceID = "trace_id"
)

// 环境变量覆盖，优先级高于配置文件
const (
	ENV_KEY_HTTP_ADDRESS = "TASKMANAGER_HTTP_ADDRESS"
	ENV_KEY_DB_DSN       = "TASKMANAGER_DB_DSN"
	ENV_KEY_LOG_LEVEL    = "TASKMANAGER_LOG_LEVEL"
)
