package tmdb

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RemoteCatalogError reports a non-success response from the catalog.
// Error returns the catalog's status message verbatim so it can be shown
// to the user as-is.
type RemoteCatalogError struct {
	StatusCode int
	Message    string
}

func (e *RemoteCatalogError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

type errorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func newRemoteCatalogError(status int, body []byte) *RemoteCatalogError {
	catalogErr := &RemoteCatalogError{StatusCode: status}
	var payload errorBody
	if err := json.Unmarshal(body, &payload); err == nil {
		catalogErr.Message = strings.TrimSpace(payload.StatusMessage)
	}
	if catalogErr.Message == "" {
		catalogErr.Message = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return catalogErr
}
