// Package remote talks to the upstream profile service that receives the
// finished onboarding.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/terraincognita07/nestwell/internal/models"
)

const (
	setupFlowPath         = "/api/v1/profile/setup"
	defaultRequestTimeout = 10 * time.Second
)

type SetupClient struct {
	baseURL string
	token   string
	timeout time.Duration
	newKey  func() string
}

func NewSetupClient(baseURL string, token string, timeout time.Duration) *SetupClient {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &SetupClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		timeout: timeout,
		newKey:  uuid.NewString,
	}
}

type setupFlowPayload struct {
	UserID   string              `json:"user_id"`
	MomSetup momSetupPayload     `json:"mom_setup"`
	Children []childSetupPayload `json:"children"`
}

type momSetupPayload struct {
	MomStatus            string   `json:"mom_status"`
	Goals                []string `json:"goals"`
	CustomGoals          []string `json:"custom_goals"`
	PartnerName          string   `json:"partner_name,omitempty"`
	PartnerEmail         string   `json:"partner_email,omitempty"`
	NotificationsEnabled bool     `json:"notifications_enabled"`
}

type childSetupPayload struct {
	FullName string `json:"full_name"`
	Age      string `json:"age,omitempty"`
	DOB      string `json:"dob"`
	Gender   string `json:"gender"`
}

type setupFlowResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
	Message string    `json:"message"`
	Detail  string    `json:"detail"`
}

// CompleteSetupFlow submits the finished onboarding. A rejected submission is
// returned as *APIError.
func (client *SetupClient) CompleteSetupFlow(ctx context.Context, userID string, momSetup models.MomSetupRecord, children []models.ChildRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(client.baseURL + setupFlowPath)
	agent.JSON(newSetupFlowPayload(userID, momSetup, children))
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.Set("Idempotency-Key", client.newKey())
	if client.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+client.token)
	}
	agent.Timeout(client.requestTimeout(ctx))

	if err := agent.Parse(); err != nil {
		return fmt.Errorf("prepare profile service request: %w", err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("call profile service: %w", errors.Join(errs...))
	}
	return decodeSetupFlowResponse(status, body)
}

func (client *SetupClient) requestTimeout(ctx context.Context) time.Duration {
	timeout := client.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

func decodeSetupFlowResponse(status int, body []byte) error {
	success := status >= 200 && status < 300

	response := setupFlowResponse{}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &response); err != nil {
			if success {
				return fmt.Errorf("decode profile service response: %w", err)
			}
			return &APIError{StatusCode: status, Message: utils.StatusMessage(status)}
		}
	} else if success {
		return nil
	}

	if success && response.Success {
		return nil
	}

	if response.Error != nil {
		apiError := *response.Error
		if apiError.StatusCode == 0 {
			apiError.StatusCode = status
		}
		return &apiError
	}

	message := firstNonBlank(response.Message, response.Detail)
	if message == "" {
		if success {
			message = "profile setup was not accepted"
		} else {
			message = utils.StatusMessage(status)
		}
	}
	return &APIError{StatusCode: status, Message: message, Detail: response.Detail}
}

func newSetupFlowPayload(userID string, momSetup models.MomSetupRecord, children []models.ChildRecord) setupFlowPayload {
	payload := setupFlowPayload{
		UserID: userID,
		MomSetup: momSetupPayload{
			MomStatus:            momSetup.MomStatus,
			Goals:                nonNilStrings(momSetup.SelectedGoals),
			CustomGoals:          nonNilStrings(momSetup.CustomGoals),
			NotificationsEnabled: momSetup.NotificationsEnabled,
		},
		Children: make([]childSetupPayload, 0, len(children)),
	}
	if momSetup.Partner != nil {
		payload.MomSetup.PartnerName = momSetup.Partner.Name
		payload.MomSetup.PartnerEmail = momSetup.Partner.Email
	}
	for _, child := range children {
		payload.Children = append(payload.Children, childSetupPayload{
			FullName: child.FullName,
			Age:      child.Age,
			DOB:      child.DOB,
			Gender:   child.Gender,
		})
	}
	return payload
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
