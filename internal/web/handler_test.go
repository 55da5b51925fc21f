package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	endoreport "github.com/GYingWu/Endocrine-report"
)

const sampleExport = "08:00\t20250101\n08:30\t20250101\n09:00\t20250101\n09:30\t20250101\n" +
	"選取\t代碼\t項目\t檢體\t單位\t參考值\n" +
	"True\t72-482\tLH\tB\t12.0\t15.5H\t8.1\t0.9\tmIU/mL\t1-10\n" +
	"True\t72-483\t濾泡刺激素 FSH\tB\t6.0\t7.75\t5.2\t< 1.0\tmIU/mL\t1-12\n"

func newTestServer(t *testing.T) (*echo.Echo, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	return NewServer(endoreport.NewConverter(), logger), &buf
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postJSON(body any) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/convert", bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestIndex(t *testing.T) {
	e, _ := newTestServer(t)
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/convert")
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTests(t *testing.T) {
	e, _ := newTestServer(t)
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/tests", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tests []endoreport.TestInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tests))
	require.Len(t, tests, 4)
	assert.Equal(t, endoreport.TestInsulin, tests[0].Type)
}

func TestConvert_JSON(t *testing.T) {
	e, logs := newTestServer(t)
	rec := serve(e, postJSON(ConvertRequest{Test: endoreport.TestGnRH, Text: sampleExport}))
	require.Equal(t, http.StatusOK, rec.Code)

	var res endoreport.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "20250101", res.Date)
	assert.False(t, res.Empty)
	assert.Contains(t, res.Report, "Peak LH/FSH: 2.00")
	assert.Len(t, res.Full.Rows, 2)

	rid := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(rid)
	assert.NoError(t, err)
	assert.Contains(t, logs.String(), rid)
	assert.Contains(t, logs.String(), "report converted")
}

func TestConvert_EmptyResultIsNotAnError(t *testing.T) {
	e, _ := newTestServer(t)
	rec := serve(e, postJSON(ConvertRequest{Test: endoreport.TestGlucagon, Text: "nothing useful"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var res endoreport.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Empty)
	assert.Equal(t, endoreport.EmptyWarning, res.Warning)
}

func TestConvert_BadRequests(t *testing.T) {
	e, _ := newTestServer(t)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"unknown test", postJSON(ConvertRequest{Test: "arginine", Text: sampleExport})},
		{"missing test", postJSON(ConvertRequest{Text: sampleExport})},
		{"malformed json", func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader("{"))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			return r
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Errors)
		})
	}
}

func TestConvert_Big5Upload(t *testing.T) {
	big5, _, err := transform.String(traditionalchinese.Big5.NewEncoder(), sampleExport)
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("test", string(endoreport.TestGnRH)))
	fw, err := mw.CreateFormFile("file", "export.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(big5))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/convert", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())

	e, _ := newTestServer(t)
	rec := serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res endoreport.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.Report, "Peak LH/FSH: 2.00")
	require.Len(t, res.Full.Rows, 2)
	assert.Equal(t, "濾泡刺激素 FSH", res.Full.Rows[1][0])
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	e, _ := newTestServer(t)
	rid := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, rid)
	rec := serve(e, req)

	assert.Equal(t, rid, rec.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestID(), Recovery(zerolog.New(&buf)))
	e.GET("/boom", func(echo.Context) error { panic("boom") })

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}
