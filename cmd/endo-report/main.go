// Package main 內分泌刺激試驗報告轉換器
// 不帶子命令執行時啟動本地網頁並自動開啟瀏覽器
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	endoreport "github.com/GYingWu/Endocrine-report"
	"github.com/GYingWu/Endocrine-report/internal/config"
	"github.com/GYingWu/Endocrine-report/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := serveCmd()
	root := &cobra.Command{
		Use:          "endo-report",
		Short:        "內分泌刺激試驗報告轉換器",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, convertCmd(), testsCmd())
	return root
}

// app 各子命令共用的設定、logger 與轉換器
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	conv   *endoreport.Converter
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := logging.New(cfg.IsDev(), cfg.LogLevel)

	opts := []endoreport.Option{endoreport.WithLogger(logger)}
	if cfg.ProfilesFile != "" {
		ps, err := loadProfiles(cfg.ProfilesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, endoreport.WithProfiles(ps))
		logger.Info().Str("file", cfg.ProfilesFile).Int("tests", len(ps)).Msg("profiles loaded")
	}

	return &app{cfg: cfg, logger: logger, conv: endoreport.NewConverter(opts...)}, nil
}

func loadProfiles(path string) (endoreport.Profiles, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}
	defer f.Close()
	return endoreport.LoadProfiles(f)
}
