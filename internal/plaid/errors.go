package plaid

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error is a non-200 answer from the API.
type Error struct {
	StatusCode     int    `json:"-"`
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	RequestID      string `json:"request_id"`
}

func (e *Error) Error() string {
	if e.ErrorType == "" && e.ErrorCode == "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.ErrorMessage)
	}
	return fmt.Sprintf("%s/%s (status %d, request %s): %s",
		e.ErrorType, e.ErrorCode, e.StatusCode, e.RequestID, e.ErrorMessage)
}

// decodeError builds an *Error from a failed response body. Bodies that are
// not the usual error document are kept verbatim in ErrorMessage.
func decodeError(status int, body []byte) error {
	apiErr := &Error{StatusCode: status}
	if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.ErrorType == "" && apiErr.ErrorCode == "") {
		apiErr.ErrorType = ""
		apiErr.ErrorCode = ""
		apiErr.ErrorMessage = strings.TrimSpace(string(body))
	}
	return apiErr
}
