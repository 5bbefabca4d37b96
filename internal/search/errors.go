package search

// MessageMissingCriteria is reported when every filter is empty.
const MessageMissingCriteria = "Please enter at least one search criteria"

// ValidationError reports criteria that cannot be turned into a catalog query.
// No network call is made when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func errMissingCriteria() error {
	return &ValidationError{Message: MessageMissingCriteria}
}
