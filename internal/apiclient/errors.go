package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	// StatusNetworkError marks a request that never produced an HTTP response
	StatusNetworkError = 0
	// StatusTimeout marks a request abandoned after the client's own timeout
	StatusTimeout = 599
)

// APIError is the single error kind produced by the client and every service
type APIError struct {
	Status  int
	Message string
	// Body is the raw error response, kept for diagnostics
	Body []byte
	// Err is the transport cause for network and timeout failures
	Err error
}

func (e *APIError) Error() string {
	switch e.Status {
	case StatusNetworkError:
		return fmt.Sprintf("network error: %s", e.Message)
	case StatusTimeout:
		return fmt.Sprintf("request timed out: %s", e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsClientError reports a 4xx status
func (e *APIError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// IsServerError reports a 5xx status other than the client timeout marker
func (e *APIError) IsServerError() bool {
	return e.Status >= 500 && e.Status != StatusTimeout
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

func IsForbidden(err error) bool {
	return IsStatus(err, http.StatusForbidden)
}

func IsTimeout(err error) bool {
	return IsStatus(err, StatusTimeout)
}

// Forbidden builds the error returned when the caller's role may not act
func Forbidden(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: message}
}

// newResponseError classifies a non-success response. A body that is not
// JSON, or has no message, degrades to the status text.
func newResponseError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: statusText(resp),
		Body:    body,
	}

	var payload struct {
		Message string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// statusText returns the reason phrase of resp ("Not Found" for "404 Not Found")
func statusText(resp *http.Response) string {
	if code, text, ok := strings.Cut(resp.Status, " "); ok && code == strconv.Itoa(resp.StatusCode) && text != "" {
		return text
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
