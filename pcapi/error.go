package pcapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"pcluster/pcui/wizard"
)

// APIError is a non-2xx answer of the cluster API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: body}
	payload := struct {
		Message string `json:"message"`
	}{}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cluster api error %d: %s", e.StatusCode, e.Message)
}

// CreateErrors decodes the validation details of a failed create, update
// or build call.
func (e *APIError) CreateErrors() *wizard.CreateErrors {
	details := &wizard.CreateErrors{}
	if err := json.Unmarshal(e.Body, details); err != nil || details.Message == "" {
		details.Message = e.Message
	}
	return details
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}
