package response

// Response is the common JSON envelope for API replies.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	StatusOk    = "ok"
	StatusError = "error"
)

func Ok(msg string) Response {
	return Response{Status: StatusOk, Message: msg}
}

func Error(msg string) Response {
	return Response{Status: StatusError, Message: msg}
}
