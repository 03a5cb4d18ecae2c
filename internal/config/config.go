package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"routeeob/internal/metrics"
)

// EnvPrefix 环境变量前缀，例如 ROUTEEOB_SERVER_PORT
const EnvPrefix = "ROUTEEOB"

// FileName 配置文件名，位于可执行文件同目录
const FileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server" envconfig:"SERVER"`
	Upload  UploadConfig  `toml:"upload" envconfig:"UPLOAD"`
	Columns ColumnsConfig `toml:"columns" envconfig:"COLUMNS"`
	Depot   DepotConfig   `toml:"depot" envconfig:"DEPOT"`
	Log     LogConfig     `toml:"log" envconfig:"LOG"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	DevMode     bool `toml:"dev_mode" envconfig:"DEV_MODE"`
	OpenBrowser bool `toml:"open_browser" envconfig:"OPEN_BROWSER"`
	MaxUploadMB int  `toml:"max_upload_mb" envconfig:"MAX_UPLOAD_MB" validate:"min=1,max=1024"`
}

// UploadConfig 上传文件约束
type UploadConfig struct {
	RequiredFilename string `toml:"required_filename" envconfig:"REQUIRED_FILENAME" validate:"required_if=EnforceFilename true"`
	EnforceFilename  bool   `toml:"enforce_filename" envconfig:"ENFORCE_FILENAME"`
}

// ColumnsConfig 配送指标所需的输入列名
type ColumnsConfig struct {
	Depot  string `toml:"depot" envconfig:"DEPOT" validate:"required"`
	Cases  string `toml:"cases" envconfig:"CASES" validate:"required"`
	Time   string `toml:"time" envconfig:"TIME" validate:"required"`
	OnTime string `toml:"on_time" envconfig:"ON_TIME" validate:"required"`
}

// DepotConfig 仓库目录；CatalogPath 为空时使用内置目录
type DepotConfig struct {
	CatalogPath string `toml:"catalog_path" envconfig:"CATALOG_PATH"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `toml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Development bool   `toml:"development" envconfig:"DEVELOPMENT"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	schema := metrics.DefaultSchema()
	return &AppConfig{
		Server: ServerConfig{
			Port:        8501,
			DevMode:     false,
			OpenBrowser: true,
			MaxUploadMB: 50,
		},
		Upload: UploadConfig{
			RequiredFilename: "qryRouteSummary.xlsx",
			EnforceFilename:  true,
		},
		Columns: ColumnsConfig{
			Depot:  schema.Depot,
			Cases:  schema.Cases,
			Time:   schema.Time,
			OnTime: schema.OnTime,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Schema 转为聚合器的列名定义
func (c *AppConfig) Schema() metrics.Schema {
	return metrics.Schema{
		Depot:  c.Columns.Depot,
		Cases:  c.Columns.Cases,
		Time:   c.Columns.Time,
		OnTime: c.Columns.OnTime,
	}
}

// MaxUploadBytes 上传大小上限（字节）
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// Validate 校验配置取值
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 默认配置文件路径（可执行文件同目录）
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadConfigWithInfo 加载配置：默认值 <- config.toml <- 环境变量，最后校验
// path 为空时使用可执行文件同目录下的 config.toml，文件不存在不视为错误
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, info, err
	}

	if err := applyEnv(config); err != nil {
		return nil, info, err
	}
	if _, ok := os.LookupEnv(EnvPrefix + "_SERVER_PORT"); ok {
		info.PortSpecified = true
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// applyEnv 环境变量覆盖；未设置的变量保持原值
func applyEnv(config *AppConfig) error {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("load config from env: %w", err)
	}
	return nil
}

// SaveConfig 保存配置到 path
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
