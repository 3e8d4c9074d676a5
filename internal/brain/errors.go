package brain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gartstein/crm/internal/company/contracts"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	// Message is the string detail, or a summary of Detail.
	Message string
	// Detail holds the field errors of a 422 response.
	Detail []contracts.ValidationError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is a 422 from the API.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity
}

// newAPIError reads {"detail": ...} from resp, where detail is either a
// string or a list of validation errors.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Detail) > 0 {
		var text string
		var list []contracts.ValidationError
		switch {
		case json.Unmarshal(envelope.Detail, &text) == nil:
			apiErr.Message = text
		case json.Unmarshal(envelope.Detail, &list) == nil:
			apiErr.Detail = list
			apiErr.Message = summarize(list)
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func summarize(list []contracts.ValidationError) string {
	parts := make([]string, 0, len(list))
	for _, d := range list {
		if len(d.Loc) > 0 {
			parts = append(parts, strings.Join(d.Loc, ".")+": "+d.Msg)
		} else {
			parts = append(parts, d.Msg)
		}
	}
	return strings.Join(parts, "; ")
}
