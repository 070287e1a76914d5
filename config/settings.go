package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/tagrec/pkg/logging"
	"github.com/rushteam/tagrec/pkg/validate"
	"github.com/rushteam/tagrec/store"
)

// EnvPrefix 是环境变量前缀。层级用双下划线分隔：
//
//	TAGREC_SERVER__ADDR=:9090          -> server.addr
//	TAGREC_STORE__REDIS__ADDR=r:6379   -> store.redis.addr
//	TAGREC_RECOMMEND__LIMIT=5          -> recommend.limit
const EnvPrefix = "TAGREC_"

// 存储驱动
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

// Settings 是进程级配置，加载顺序：默认值 -> YAML 文件 -> 环境变量。
type Settings struct {
	Server    ServerSettings    `koanf:"server"`
	Store     StoreSettings     `koanf:"store"`
	Recommend RecommendSettings `koanf:"recommend"`
	Logging   logging.Config    `koanf:"logging"`
}

// ServerSettings HTTP 服务配置。
type ServerSettings struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

// StoreSettings 选择 Catalog 后端。
type StoreSettings struct {
	Driver  string              `koanf:"driver" validate:"oneof=memory redis mongo"`
	Prefix  string              `koanf:"prefix"` // memory / redis 的 key 前缀
	Redis   store.RedisConfig   `koanf:"redis"`
	Mongo   store.MongoConfig   `koanf:"mongo"`
	Breaker store.BreakerConfig `koanf:"breaker"`
}

// RecommendSettings 推荐参数。
type RecommendSettings struct {
	Limit int `koanf:"limit" validate:"gte=1,lte=10"`

	// 为空时使用内置 Pipeline
	PipelinePath          string `koanf:"pipeline_path"`
	ColdStartPipelinePath string `koanf:"cold_start_pipeline_path"`
}

// Defaults 返回默认配置。
func Defaults() *Settings {
	return &Settings{
		Server: ServerSettings{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreSettings{
			Driver: DriverMemory,
			Prefix: "tagrec",
			Redis: store.RedisConfig{
				Addr:        "127.0.0.1:6379",
				DialTimeout: 5 * time.Second,
			},
			Mongo: store.MongoConfig{
				URI:            "mongodb://127.0.0.1:27017",
				Database:       "tagrec",
				ConnectTimeout: 10 * time.Second,
			},
			Breaker: store.BreakerConfig{
				Name:         "catalog",
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Recommend: RecommendSettings{Limit: 10},
		Logging:   logging.Config{Level: "info", Format: "json"},
	}
}

// Load 加载配置，path 为空时跳过文件层。
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	s := &Settings{}
	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

// Validate 做字段校验以及按驱动的必填校验。
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	switch s.Store.Driver {
	case DriverRedis:
		if s.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required when store.driver=redis")
		}
	case DriverMongo:
		if s.Store.Mongo.URI == "" || s.Store.Mongo.Database == "" {
			return errors.New("store.mongo.uri and store.mongo.database are required when store.driver=mongo")
		}
	}
	return nil
}
