package endoreport

import "errors"

var (
	// ErrUnknownTest 未支援的試驗類型
	ErrUnknownTest = errors.New("unknown test type")
	// ErrInvalidProfile 試驗設定檔格式錯誤
	ErrInvalidProfile = errors.New("invalid test profile")
)

// EmptyWarning 完全擷取不到數值時給使用者的提示
const EmptyWarning = "無法擷取任何數值，請確認貼上的格式，或病人是否有做此檢查"
