package common

import (
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// FailureResponse 由錯誤建立 success=false 的回應，不帶內部細節
func FailureResponse(err *CustomError) SearchResponse {
	return SearchResponse{
		Success: false,
		Error:   err.Message,
	}
}
