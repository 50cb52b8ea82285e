package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	Fixture FixtureConfig
	CORS    CORSConfig
	Stream  StreamConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	cors, err := loadCORSConfig()
	if err != nil {
		return nil, err
	}

	stream, err := loadStreamConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Fixture: FixtureConfig{Path: strings.TrimSpace(os.Getenv("CHAT_FIXTURE_PATH"))},
		CORS:    cors,
		Stream:  stream,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// FixtureConfig 描述会话初始数据来源；Path 为空时使用内置演示数据。
type FixtureConfig struct {
	Path string
}

// CORSConfig 描述前端跨域访问配置。
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

func loadCORSConfig() (CORSConfig, error) {
	credentials, err := parseBoolEnv("CORS_ALLOW_CREDENTIALS", true)
	if err != nil {
		return CORSConfig{}, err
	}

	raw := getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	origins := make([]string, 0, 2)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return CORSConfig{AllowedOrigins: origins, AllowCredentials: credentials}, nil
}

// StreamConfig 描述 SSE 推送配置。
type StreamConfig struct {
	HeartbeatInterval time.Duration
}

func loadStreamConfig() (StreamConfig, error) {
	seconds := 15
	if override, err := parseOptionalIntEnv("STREAM_HEARTBEAT_SECONDS"); err != nil {
		return StreamConfig{}, err
	} else if override != nil {
		if *override < 1 {
			seconds = 1
		} else {
			seconds = *override
		}
	}
	return StreamConfig{HeartbeatInterval: time.Duration(seconds) * time.Second}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
