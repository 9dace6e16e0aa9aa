/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/remotehive/jobboard-gin/internal/config"
	"github.com/remotehive/jobboard-gin/internal/container"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a single expiry and publication sweep",
	Long: `Run one expiry and publication sweep, then exit.
This command will:
- Expire published posts whose expiry date has passed
- Publish approved posts whose publish date has arrived

Useful for cron-driven deployments where the built-in scheduler is disabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// 扫描服务必须可用,忽略配置中的开关
		cfg.Scheduler.Enabled = true

		// 2. 初始化容器
		ctr, err := container.NewContainer(cfg, logrus.New())
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 3. 执行一次扫描
		summary, err := ctr.SchedulerService().RunSweep(context.Background(), time.Now())
		if err != nil {
			return fmt.Errorf("failed to run sweep: %w", err)
		}

		log.Printf("Sweep completed: expired=%d published=%d failures=%d",
			summary.Expired, summary.Published, summary.Failures)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
}
