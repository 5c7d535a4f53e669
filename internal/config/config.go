package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	// TokenEnv 是必需的 API 凭证环境变量
	TokenEnv = "SHORTCUT_API_TOKEN"
	// CurrentUserEnv 缓存当前用户 ID，可选
	CurrentUserEnv = "SHORTCUT_CURRENT_USER_ID"
	// PathEnv 覆盖配置文件路径
	PathEnv = "SHORTCUT_CONFIG"
)

// Config 保存 CLI 全局配置
type Config struct {
	Token                  string `yaml:"token" env:"SHORTCUT_API_TOKEN"`
	BaseURL                string `yaml:"base_url" env:"SHORTCUT_API_URL"`
	CurrentUserID          string `yaml:"current_user_id" env:"SHORTCUT_CURRENT_USER_ID"`
	DefaultWorkflowStateID int64  `yaml:"default_workflow_state_id" env:"SHORTCUT_DEFAULT_WORKFLOW_STATE_ID"`
	LogLevel               string `yaml:"log_level" env:"SHORTCUT_LOG_LEVEL"`
	LogFile                string `yaml:"log_file" env:"SHORTCUT_LOG_FILE"`
	Environment            string `yaml:"environment" env:"SHORTCUT_ENV"`
	MetricsFile            string `yaml:"metrics_file" env:"SHORTCUT_METRICS_FILE"`
}

// ConfigurationError 表示运行前即可发现的配置缺失，不会重试
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason + " (" + e.Setting + ")"
}

// MissingCredential 返回缺少 API token 时的错误
func MissingCredential() error {
	return errors.WithHintf(
		&ConfigurationError{Setting: TokenEnv, Reason: "missing credential"},
		"export %s=<token> (https://app.shortcut.com/settings/account/api-tokens)", TokenEnv)
}

// Load 从配置文件和环境变量加载配置（环境变量优先）
// 配置文件路径: $SHORTCUT_CONFIG 或 ~/.shortcut/config.yaml，不存在时忽略
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom 从指定配置文件加载，随后应用环境变量
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if err := loadConfigFile(path, cfg); err != nil {
		return nil, err
	}

	// 环境变量覆盖配置文件
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}

	// 默认值
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.Environment == "" {
		cfg.Environment = "dev"
	}

	return cfg, nil
}

// DefaultPath 返回配置文件路径
func DefaultPath() string {
	if v := os.Getenv(PathEnv); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".shortcut", "config.yaml")
}

func loadConfigFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}
