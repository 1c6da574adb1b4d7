package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// CreateFlow 创建房间时收集玩家名字的方式
type CreateFlow string

const (
	// CreateFlowInline 名字与房间信息一起填写，提交后立即创建
	CreateFlowInline CreateFlow = "inline"
	// CreateFlowNameFirst 先填房间信息，再单独输入名字后创建
	CreateFlowNameFirst CreateFlow = "name_first"
)

// Config 客户端配置
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Chat    ChatConfig    `yaml:"chat"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Sound   SoundConfig   `yaml:"sound"`
}

// ServerConfig 游戏服务器地址
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	Path   string `yaml:"path"`
	Secure bool   `yaml:"secure"` // 使用 wss
}

// SessionConfig 会话行为
type SessionConfig struct {
	CreateFlow CreateFlow `yaml:"create_flow"`
	PlayerName string     `yaml:"player_name"` // 预填的玩家名字
}

// ChatConfig 聊天配置
type ChatConfig struct {
	MaxMessages  int `yaml:"max_messages"`  // 本地保留的最大消息数，0 表示不限
	VisibleLines int `yaml:"visible_lines"` // 聊天框显示行数
}

// LogConfig 日志配置
type LogConfig struct {
	Dir   string `yaml:"dir"` // 为空时使用 ~/.riddle-lobby
	Debug bool   `yaml:"debug"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Addr string `yaml:"addr"` // 为空时不启动 /metrics
}

// SoundConfig 音效配置
type SoundConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"` // 为空时使用 assets/sounds
}

// URL 返回 websocket 地址
func (c *ServerConfig) URL() string {
	scheme := "ws"
	if c.Secure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: c.Addr, Path: c.Path}
	return u.String()
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults 设置默认值
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = "localhost:8001"
	}
	if c.Server.Path == "" {
		c.Server.Path = "/ws"
	}
	if c.Session.CreateFlow == "" {
		c.Session.CreateFlow = CreateFlowInline
	}
	if c.Chat.VisibleLines == 0 {
		c.Chat.VisibleLines = 8
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Session.CreateFlow {
	case CreateFlowInline, CreateFlowNameFirst:
	default:
		return fmt.Errorf("invalid session.create_flow %q (want %q or %q)",
			c.Session.CreateFlow, CreateFlowInline, CreateFlowNameFirst)
	}
	if c.Chat.MaxMessages < 0 {
		return fmt.Errorf("invalid chat.max_messages: %d", c.Chat.MaxMessages)
	}
	if c.Chat.VisibleLines < 1 {
		return fmt.Errorf("invalid chat.visible_lines: %d", c.Chat.VisibleLines)
	}
	return nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{
		Sound: SoundConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}
