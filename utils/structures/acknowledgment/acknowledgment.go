package acknowledgment

// APIResponse is the envelope of every HTTP response. Result holds the payload
// on success and a translated blame.ErrorResponse on failure.
type APIResponse[T any] struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	Result    T      `json:"result"`
}

// NewAPIResponse builds the envelope.
func NewAPIResponse[T any](success bool, requestID string, result T) APIResponse[T] {
	return APIResponse[T]{
		Success:   success,
		RequestID: requestID,
		Result:    result,
	}
}
