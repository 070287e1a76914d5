// Command tagrec 运行基于标签 TF-IDF 的内容推荐服务，并提供命令行工具。
//
//	tagrec serve --config tagrec.yaml --seed seed.yaml
//	tagrec recommend u1
//	tagrec record u1 item-1 like
//	tagrec seed seed.yaml
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/tagrec/config"
	"github.com/rushteam/tagrec/pkg/logging"
)

var configPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tagrec",
		Short:         "Tag-based content recommendation service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("TAGREC_CONFIG"), "config file (yaml)")

	root.AddCommand(serveCmd())
	root.AddCommand(recommendCmd())
	root.AddCommand(recordCmd())
	root.AddCommand(seedCmd())
	return root
}

// loadSettings 读取配置并初始化日志。
func loadSettings() (*config.Settings, error) {
	s, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logging.Init(s.Logging)
	return s, nil
}
