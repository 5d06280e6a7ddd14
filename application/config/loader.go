package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/consts"
)

// Loader reads the config file and decodes biz_config into the caller's struct.
type Loader struct {
	env        string
	configPath string
	bizConfig  any
	lookupEnv  func(string) (string, bool)
}

func NewLoader(env string, configPath string) *Loader {
	if env == "" {
		env = consts.ENV_DEVELOPMENT
	}
	if configPath == "" {
		configPath = consts.DEFAULT_CONFIG_PATH
	}
	return &Loader{env: env, configPath: configPath, lookupEnv: os.LookupEnv}
}

// SetBizConfig 注入业务配置结构指针 (例如 &BizConfig{})，预先填好的字段作为默认值保留
func (l *Loader) SetBizConfig(b any) {
	if b == nil {
		return
	}
	if reflect.TypeOf(b).Kind() != reflect.Ptr {
		panic("SetBizConfig expects a pointer, e.g. &MyBizConfig{}")
	}
	l.bizConfig = b
}

// LoadConfig 先整体解析 AppConfig，再把 biz_config 子树二次解码到业务指针。
// yaml.v3 不会填充 interface{} 里预放的指针，所以需要二次解码。
func (l *Loader) LoadConfig() (*AppConfig, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(l.configPath))
	var cfg AppConfig
	if err := unmarshalByExt(ext, data, &cfg); err != nil {
		return nil, err
	}

	if l.bizConfig != nil {
		if cfg.BizConfig != nil {
			if err := decodeBizSection(ext, cfg.BizConfig, l.bizConfig); err != nil {
				return nil, fmt.Errorf("decode biz_config failed: %w", err)
			}
		}
		cfg.BizConfig = l.bizConfig
	}

	if cfg.APPInfo == nil {
		cfg.APPInfo = &APPInfo{}
	}
	if cfg.APPInfo.ENV == "" {
		cfg.APPInfo.ENV = l.env
	}

	l.mergeEnvVars(&cfg)
	return &cfg, nil
}

func unmarshalByExt(ext string, data []byte, out any) error {
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
	return nil
}

func decodeBizSection(ext string, raw any, target any) error {
	var (
		b   []byte
		err error
	)
	switch ext {
	case ".yaml", ".yml":
		b, err = yaml.Marshal(raw)
	case ".json":
		b, err = json.Marshal(raw)
	default:
		return fmt.Errorf("unsupported format: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("re-marshal biz_config failed: %w", err)
	}
	return unmarshalByExt(ext, b, target)
}

// mergeEnvVars 环境变量覆盖: 监听地址、数据源 DSN、日志级别
func (l *Loader) mergeEnvVars(cfg *AppConfig) {
	if v, ok := l.lookupEnv(consts.ENV_KEY_HTTP_ADDRESS); ok && v != "" && cfg.HTTPServer != nil {
		cfg.HTTPServer.Address = v
	}
	if v, ok := l.lookupEnv(consts.ENV_KEY_LOG_LEVEL); ok && v != "" && cfg.Logging != nil {
		cfg.Logging.Level = v
	}
	// DSN override is only unambiguous with a single datasource.
	if v, ok := l.lookupEnv(consts.ENV_KEY_DB_DSN); ok && v != "" && cfg.GormDB != nil && len(cfg.GormDB.DataSources) == 1 {
		for _, ds := range cfg.GormDB.DataSources {
			if ds != nil {
				ds.DSN = v
			}
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
