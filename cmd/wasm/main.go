//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	endoreport "github.com/GYingWu/Endocrine-report"
)

// convertLabReport 轉換試驗報告並返回結果
// args: 試驗類型, 貼上的原始資料
func convertLabReport(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{
			"success": false,
			"error":   "請提供試驗類型與檢驗資料",
		}
	}

	test := endoreport.TestType(args[0].String())
	res, err := endoreport.Convert(test, args[1].String())
	if err != nil {
		return map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		}
	}

	// 轉換為 JSON
	jsonBytes, err := json.Marshal(res)
	if err != nil {
		return map[string]interface{}{
			"success": false,
			"error":   "JSON 編碼失敗: " + err.Error(),
		}
	}

	return map[string]interface{}{
		"success": true,
		"report":  res.Report,
		"warning": res.Warning,
		"empty":   res.Empty,
		"data":    string(jsonBytes),
	}
}

// getSupportedTests 取得支援的試驗列表
func getSupportedTests(this js.Value, args []js.Value) interface{} {
	jsonBytes, _ := json.Marshal(endoreport.GetSupportedTests())
	return string(jsonBytes)
}

func main() {
	c := make(chan struct{})

	// 註冊全域函數
	js.Global().Set("convertLabReport", js.FuncOf(convertLabReport))
	js.Global().Set("getSupportedTests", js.FuncOf(getSupportedTests))

	// 設定 ready 標誌
	js.Global().Set("wasmReady", true)

	println("endocrine-report WASM 模組已載入")

	<-c
}
