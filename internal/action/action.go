// Package action defines the envelope every provider returns to the router.
package action

// Result is the uniform outcome of one provider invocation. Providers map
// all of their internal failures into this shape; errors never cross the
// router boundary as panics or raw error values. Message is always human
// readable so a calling surface can render something even when Data is empty.
type Result struct {
	Message      string         `json:"message"`
	Success      bool           `json:"success"`
	Data         map[string]any `json:"data,omitempty"`
	FunctionName string         `json:"function_name,omitempty"`
	// Error marks a contract-level failure (for example an unknown function
	// name). The router surfaces a result with Error set immediately instead
	// of aggregating further calls.
	Error string `json:"error,omitempty"`
}

// Failure builds an unsuccessful result with the given message.
func Failure(message string) *Result {
	return &Result{Message: message, Success: false}
}

// Errorf builds a contract-violation result.
func Errorf(message string) *Result {
	return &Result{Message: message, Success: false, Error: message}
}

// Status distinguishes the ways a provider lookup can end without overloading
// one error channel.
type Status string

const (
	StatusOK            Status = "ok"
	StatusNotFound      Status = "not_found"
	StatusNotConfigured Status = "not_configured"
	StatusTimeout       Status = "timeout"
)
