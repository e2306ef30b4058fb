package remote

import (
	"errors"
	"fmt"
	"strings"
)

var ErrSetupAlreadyExists = errors.New("profile setup already exists")

const (
	codeSetupAlreadyExists    = "setup_already_exists"
	messageSetupAlreadyExists = "profile setup already exists"
)

// APIError is a failed call to the profile service. Any field may be empty.
type APIError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
	Code       string `json:"code"`
}

func (err *APIError) Error() string {
	message := strings.TrimSpace(err.Message)
	if message == "" {
		message = strings.TrimSpace(err.Detail)
	}
	if message == "" {
		message = "profile service request failed"
	}
	if err.StatusCode > 0 {
		return fmt.Sprintf("profile service: %s (status %d)", message, err.StatusCode)
	}
	return "profile service: " + message
}

// Is matches ErrSetupAlreadyExists. The profile service is expected to send the
// stable code; older deployments only send the human-readable message, so the
// message "Profile setup already exists" is matched as well.
func (err *APIError) Is(target error) bool {
	if target != ErrSetupAlreadyExists {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(err.Code), codeSetupAlreadyExists) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Message), messageSetupAlreadyExists) ||
		strings.Contains(strings.ToLower(err.Detail), messageSetupAlreadyExists)
}

func IsSetupAlreadyExists(err error) bool {
	return errors.Is(err, ErrSetupAlreadyExists)
}
