package models

const (
	ResponseSuccess = "success"
	ResponseError   = "error"
)

// APIResponse is the envelope of every API answer. Data may accompany an
// error when the operation took effect anyway (persistence failures).
type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError describes why a request failed. Type is an ErrorKind or one of
// the authentication types used by the middleware.
type APIError struct {
	Type    string `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}

func SuccessResponse(code int, message string, data interface{}) APIResponse {
	return APIResponse{Status: ResponseSuccess, Code: code, Message: message, Data: data}
}

func ErrorResponse(code int, message, errType, details string) APIResponse {
	return APIResponse{
		Status:  ResponseError,
		Code:    code,
		Message: message,
		Error:   &APIError{Type: errType, Details: details},
	}
}
