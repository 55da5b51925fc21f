package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GYingWu/Endocrine-report/internal/web"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "啟動本地網頁介面",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			return a.serve()
		},
	}
}

func (a *app) serve() error {
	cfg := *a.cfg
	if cfg.Port == 0 {
		cfg.Port = findAvailablePort(cfg.Host)
	}
	addr := cfg.Addr()
	url := "http://" + addr

	e := web.NewServer(a.conv, a.logger)

	errc := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// 等待伺服器啟動
	time.Sleep(100 * time.Millisecond)

	fmt.Printf("內分泌試驗報告轉換器已啟動\n")
	fmt.Printf("請在瀏覽器開啟: %s\n", url)
	fmt.Printf("按 Ctrl+C 關閉程式\n\n")
	if a.cfg.OpenBrowser {
		if err := openBrowser(url); err != nil {
			a.logger.Warn().Err(err).Msg("open browser failed")
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	a.logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

// findAvailablePort 找到可用的埠
func findAvailablePort(host string) int {
	// 嘗試常用埠
	ports := []int{8080, 8081, 8082, 3000, 3001, 5000}
	for _, port := range ports {
		if isPortAvailable(host, port) {
			return port
		}
	}
	// 讓系統分配
	listener, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 8080
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func isPortAvailable(host string, port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

// openBrowser 開啟預設瀏覽器
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // Linux
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
