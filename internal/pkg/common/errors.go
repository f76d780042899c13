package common

import (
	"errors"
	"net/http"
)

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 面向使用者的錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

// Unwrap 返回原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 errors.Is(err, ErrInvalidInput) 對包裝後的錯誤成立
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap 以相同代碼與訊息包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// AsCustomError 取出錯誤鏈中的 CustomError，找不到時歸類為 UpstreamFailure
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return ErrUpstreamFailure.Wrap(err)
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"       // 400
	ErrCodeNotFound         = "NOT_FOUND"           // 404
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"   // 429
	ErrCodeUpstreamFailure  = "UPSTREAM_FAILURE"    // 500
	ErrCodeWriteBackFailure = "WRITE_BACK_FAILURE"  // 只記錄，不回傳
	ErrCodeServiceUnavail   = "SERVICE_UNAVAILABLE" // 503
)

// 預定義錯誤
var (
	ErrInvalidInput     = NewError(ErrCodeInvalidInput, "검색어를 입력해주세요.", http.StatusBadRequest, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.", http.StatusTooManyRequests, nil)
	ErrUpstreamFailure  = NewError(ErrCodeUpstreamFailure, "검색 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요.", http.StatusInternalServerError, nil)
	ErrWriteBackFailure = NewError(ErrCodeWriteBackFailure, "write-back failed", http.StatusInternalServerError, nil)
	ErrNotFound         = NewError(ErrCodeNotFound, "리소스를 찾을 수 없습니다.", http.StatusNotFound, nil)
	ErrServiceUnavail   = NewError(ErrCodeServiceUnavail, "서비스를 일시적으로 사용할 수 없습니다.", http.StatusServiceUnavailable, nil)

	// ErrRecordNotFound 儲存層查無此鍵
	ErrRecordNotFound = errors.New("record not found")
)
