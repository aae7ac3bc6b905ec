package model

// StateResponse 通用状态响应
type StateResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    *UIState `json:"data,omitempty"`
}

// UploadResponse 上传响应
type UploadResponse struct {
	Success  bool     `json:"success"`
	Accepted bool     `json:"accepted"`
	Message  string   `json:"message,omitempty"`
	Data     *UIState `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
