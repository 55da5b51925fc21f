// Package main 內分泌刺激試驗報告轉換器 - 桌面版
package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"

	endoreport "github.com/GYingWu/Endocrine-report"
	"github.com/GYingWu/Endocrine-report/internal/config"
	"github.com/GYingWu/Endocrine-report/internal/desktop"
	"github.com/GYingWu/Endocrine-report/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定錯誤: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.IsDev(), cfg.LogLevel)

	opts := []endoreport.Option{endoreport.WithLogger(logger)}
	if cfg.ProfilesFile != "" {
		f, err := os.Open(cfg.ProfilesFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("open profiles")
		}
		ps, err := endoreport.LoadProfiles(f)
		f.Close()
		if err != nil {
			logger.Fatal().Err(err).Msg("load profiles")
		}
		opts = append(opts, endoreport.WithProfiles(ps))
	}

	a := app.NewWithID("tw.endocrine.report")
	desktop.New(a, endoreport.NewConverter(opts...), logger).ShowAndRun()
}
