package config

import (
	"embed"
	"fmt"

	"github.com/rushteam/tagrec/pipeline"
)

// 内置 Pipeline 名称
const (
	PipelinePersonalized = "personalized"
	PipelineColdStart    = "cold_start"
)

//go:embed pipelines/*.yaml
var builtinPipelines embed.FS

// BuiltinPipelineConfig 读取内置 Pipeline 配置。
func BuiltinPipelineConfig(name string) (*pipeline.Config, error) {
	data, err := builtinPipelines.ReadFile("pipelines/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("builtin pipeline %q: %w", name, err)
	}
	return pipeline.ParseYAML(data)
}

// LoadPipeline 构建 Pipeline：path 非空时读文件，否则用内置的 name。
func LoadPipeline(name, path string) (*pipeline.Pipeline, error) {
	var (
		cfg *pipeline.Config
		err error
	)
	if path != "" {
		cfg, err = pipeline.LoadFromFile(path)
	} else {
		cfg, err = BuiltinPipelineConfig(name)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Pipeline.Name == "" {
		cfg.Pipeline.Name = name
	}
	return BuildPipeline(cfg)
}
