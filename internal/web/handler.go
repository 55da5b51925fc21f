// Package web 本地網頁介面與轉換 API
package web

import (
	"embed"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	endoreport "github.com/GYingWu/Endocrine-report"
)

//go:embed index.html
var indexHTML embed.FS

// MaxBodySize 上傳資料大小上限
const MaxBodySize = "10M"

// ConvertRequest 轉換請求
type ConvertRequest struct {
	Test endoreport.TestType `json:"test" form:"test"`
	Text string              `json:"text" form:"text"`
}

// ErrorResponse 錯誤回應
type ErrorResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

// Handler 轉換 API
type Handler struct {
	conv   *endoreport.Converter
	logger zerolog.Logger
}

// NewHandler 建立 Handler
func NewHandler(conv *endoreport.Converter, logger zerolog.Logger) *Handler {
	return &Handler{conv: conv, logger: logger}
}

// NewServer 建立掛好中介層與路由的 echo 伺服器
func NewServer(conv *endoreport.Converter, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(RequestID())
	e.Use(Recovery(logger))
	e.Use(Logger(logger))
	e.Use(middleware.BodyLimit(MaxBodySize))

	NewHandler(conv, logger).RegisterRoutes(e)
	return e
}

// RegisterRoutes 註冊路由
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.GET("/tests", h.Tests)
	api.POST("/convert", h.Convert)
}

// Index 首頁
func (h *Handler) Index(c echo.Context) error {
	data, err := indexHTML.ReadFile("index.html")
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, data)
}

// Health 健康檢查
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Tests 取得支援的試驗列表
func (h *Handler) Tests(c echo.Context) error {
	return c.JSON(http.StatusOK, h.conv.Tests())
}

// Convert 轉換貼上的文字或上傳的檔案
// multipart 上傳時原始位元組先經過編碼偵測 (Big5/UTF-8)
func (h *Handler) Convert(c echo.Context) error {
	var req ConvertRequest
	if isMultipart(c) {
		r, err := readUpload(c)
		if err != nil {
			return sendError(c, http.StatusBadRequest, "無法讀取檔案: "+err.Error())
		}
		req = r
	} else if err := c.Bind(&req); err != nil {
		return sendError(c, http.StatusBadRequest, "無法解析請求: "+err.Error())
	}

	if req.Test == "" {
		return sendError(c, http.StatusBadRequest, "請選擇試驗類型")
	}

	res, err := h.conv.Convert(req.Test, req.Text)
	if errors.Is(err, endoreport.ErrUnknownTest) {
		return sendError(c, http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}

	rid, _ := c.Get("request_id").(string)
	h.logger.Info().
		Str("request_id", rid).
		Str("test", string(req.Test)).
		Str("date", res.Date).
		Int("slots", res.Slots).
		Bool("empty", res.Empty).
		Msg("report converted")

	return c.JSON(http.StatusOK, res)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func readUpload(c echo.Context) (ConvertRequest, error) {
	req := ConvertRequest{Test: endoreport.TestType(c.FormValue("test"))}

	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		req.Text = c.FormValue("text")
		return req, nil
	}
	if err != nil {
		return req, err
	}
	f, err := fh.Open()
	if err != nil {
		return req, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return req, err
	}
	req.Text = endoreport.DecodeInput(content)
	return req, nil
}

func sendError(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{Success: false, Errors: []string{msg}})
}
