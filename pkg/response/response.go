package response

// Response is the standard API envelope. Success mirrors the HTTP outcome;
// Message carries human-readable confirmation on writes, Error the failure
// reason.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success wraps data in a successful envelope
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// SuccessMessage wraps data plus a confirmation message
func SuccessMessage(data interface{}, message string) Response {
	return Response{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// Error wraps an error message in a failed envelope
func Error(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}
