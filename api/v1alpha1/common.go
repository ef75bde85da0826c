package v1alpha1

// NewError builds an error body.
func NewError(message, kind string, requestID *string) Error {
	return Error{Message: message, Kind: kind, RequestId: requestID}
}

// PageOrDefault returns the requested page or the first one.
func PageOrDefault(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
