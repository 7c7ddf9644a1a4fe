package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

const maxErrorMsgLengthBytes int64 = 2048

func NewErr(url string, code int, msg string) error {
	return &ExternalAPIError{URL: url, StatusCode: code, Message: msg}
}

func NewHTTPErr(url string, resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorMsgLengthBytes))
	if err != nil {
		msg := fmt.Errorf("failed to read response body due to %w", err)

		return &ExternalAPIError{URL: url, StatusCode: resp.StatusCode, Message: msg.Error()}
	}

	return &ExternalAPIError{
		URL:        url,
		StatusCode: resp.StatusCode,
		Message:    string(body),
		MimeType:   NewMimeType(resp.Header.Get("content-type")),
	}
}

// ExternalAPIError is returned for responses with an unexpected status code.
// Message holds the (truncated) response body.
type ExternalAPIError struct {
	URL        string
	Message    string
	StatusCode int
	MimeType   MimeType
}

func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%d: %s (URL: %s)", e.StatusCode, strings.TrimSpace(e.Message), e.URL)
}

func (e *ExternalAPIError) Is(target error) bool {
	t, ok := target.(*ExternalAPIError)
	if !ok {
		return false
	}

	return e.StatusCode == t.StatusCode
}

// AsAPIError unwraps the first ExternalAPIError in the chain of err.
func AsAPIError(err error) (*ExternalAPIError, bool) {
	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

func IsStatusCode(err error, statusCode ...int) bool {
	if len(statusCode) == 0 {
		return false
	}

	if apiErr, ok := AsAPIError(err); ok {
		return slices.Contains(statusCode, apiErr.StatusCode)
	}

	return false
}
