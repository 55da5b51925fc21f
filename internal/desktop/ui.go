// Package desktop 桌面版視窗
package desktop

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	endoreport "github.com/GYingWu/Endocrine-report"
)

// WindowTitle 視窗標題
const WindowTitle = "內分泌刺激試驗報告轉換"

// UI 桌面版視窗元件
type UI struct {
	app    fyne.App
	window fyne.Window
	conv   *endoreport.Converter
	logger zerolog.Logger

	input   *widget.Entry
	report  *widget.TextGrid
	warning *widget.Label
	full    *widget.Table
	tabs    *container.AppTabs

	result *endoreport.Result
}

// New 建立視窗 (尚未顯示)
func New(a fyne.App, conv *endoreport.Converter, logger zerolog.Logger) *UI {
	u := &UI{
		app:    a,
		window: a.NewWindow(WindowTitle),
		conv:   conv,
		logger: logger,
	}
	u.build()
	return u
}

// Window 主視窗
func (u *UI) Window() fyne.Window {
	return u.window
}

// ShowAndRun 顯示視窗並進入事件迴圈
func (u *UI) ShowAndRun() {
	u.window.ShowAndRun()
}

func (u *UI) build() {
	u.input = widget.NewMultiLineEntry()
	u.input.SetPlaceHolder("從 HIS 檢驗結果複製整段 (含「單位 參考值」標題列) 貼上")
	u.input.Wrapping = fyne.TextWrapOff

	u.report = widget.NewTextGrid()
	u.warning = widget.NewLabel("")
	u.warning.Importance = widget.DangerImportance

	u.full = widget.NewTable(u.tableSize, u.tableCreate, u.tableUpdate)

	buttons := container.NewHBox()
	for _, t := range u.conv.Tests() {
		buttons.Add(widget.NewButton(t.Title, func() { u.Convert(t.Type) }))
	}

	actions := container.NewHBox(
		widget.NewButton("複製報告", u.copyReport),
		widget.NewButton("儲存報告", u.saveReport),
		widget.NewButton("清除", u.clear),
	)

	u.tabs = container.NewAppTabs(
		container.NewTabItem("報告", container.NewScroll(u.report)),
		container.NewTabItem("完整檢驗表", u.full),
	)

	top := container.NewBorder(nil, container.NewVBox(buttons, u.warning), nil, nil, u.input)
	split := container.NewVSplit(top, container.NewBorder(nil, actions, nil, nil, u.tabs))
	split.Offset = 0.4

	u.window.SetContent(split)
	u.window.Resize(fyne.NewSize(1000, 720))
}

// Convert 轉換輸入框內容
func (u *UI) Convert(t endoreport.TestType) {
	res, err := u.conv.Convert(t, u.input.Text)
	if err != nil {
		u.logger.Error().Err(err).Str("test", string(t)).Msg("convert failed")
		dialog.ShowError(err, u.window)
		return
	}
	u.result = res
	u.report.SetText(res.Report)
	u.warning.SetText(res.Warning)
	u.full.Refresh()
	u.tabs.SelectIndex(0)
	u.logger.Info().Str("test", string(t)).Str("date", res.Date).Bool("empty", res.Empty).Msg("report converted")
}

// Report 目前的報告文字
func (u *UI) Report() string {
	if u.result == nil {
		return ""
	}
	return u.result.Report
}

func (u *UI) clear() {
	u.result = nil
	u.input.SetText("")
	u.report.SetText("")
	u.warning.SetText("")
	u.full.Refresh()
}

func (u *UI) copyReport() {
	if r := u.Report(); r != "" {
		u.app.Clipboard().SetContent(r)
	}
}

func (u *UI) saveReport() {
	report := u.Report()
	if report == "" {
		return
	}
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.window)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if _, err := w.Write([]byte(report)); err != nil {
			dialog.ShowError(fmt.Errorf("儲存失敗: %w", err), u.window)
		}
	}, u.window)
	d.SetFileName(fmt.Sprintf("%s_%s.txt", u.result.TestType, u.result.Date))
	d.Show()
}

// ============================================================================
// 完整檢驗表
// ============================================================================

func (u *UI) grid() endoreport.Grid {
	if u.result == nil {
		return endoreport.Grid{}
	}
	return u.result.Full
}

func (u *UI) tableSize() (int, int) {
	g := u.grid()
	if len(g.Header) == 0 {
		return 0, 0
	}
	return len(g.Rows) + 1, len(g.Header)
}

func (u *UI) tableCreate() fyne.CanvasObject {
	return widget.NewLabel("00:00 20250101")
}

func (u *UI) tableUpdate(id widget.TableCellID, o fyne.CanvasObject) {
	o.(*widget.Label).SetText(cellText(u.grid(), id.Row, id.Col))
}

// cellText 第 0 列為表頭
func cellText(g endoreport.Grid, row, col int) string {
	var r []string
	if row == 0 {
		r = g.Header
	} else if row-1 < len(g.Rows) {
		r = g.Rows[row-1]
	}
	if col < len(r) {
		return r[col]
	}
	return ""
}
