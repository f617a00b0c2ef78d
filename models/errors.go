package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeTimeout        = "FETCH_TIMEOUT"
	ErrCodeFetch          = "FETCH_FAILED"
	ErrCodeUpstreamStatus = "UPSTREAM_STATUS"
	ErrCodeParse          = "PARSE_FAILED"
	ErrCodeBrowserCrash   = "BROWSER_CRASH"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// User-facing messages. The service is localized for a Chinese audience.
const (
	MsgMissingQuery  = "缺少搜索关键词"
	MsgMissingURL    = "缺少商品链接"
	MsgInvalidInput  = "请求参数无效"
	MsgSearchFailed  = "获取数据失败"
	MsgProductFailed = "获取商品详情失败"
	MsgHealthy       = "真实数据比价服务运行中"
)

// ErrorDetail is the structured error embedded in log records and MCP output.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// IsFetchFailure reports whether the code belongs to the fetch tier
// (network, timeout, upstream status or browser failures).
func IsFetchFailure(code string) bool {
	switch code {
	case ErrCodeTimeout, ErrCodeFetch, ErrCodeUpstreamStatus, ErrCodeBrowserCrash:
		return true
	}
	return false
}
