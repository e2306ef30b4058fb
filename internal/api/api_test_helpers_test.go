package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nestwell/internal/db"
	"github.com/terraincognita07/nestwell/internal/i18n"
	"github.com/terraincognita07/nestwell/internal/logging"
	"github.com/terraincognita07/nestwell/internal/metrics"
	"github.com/terraincognita07/nestwell/internal/models"
	"gorm.io/gorm"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type stubProfileAPI struct {
	mu       sync.Mutex
	err      error
	calls    int
	userIDs  []string
	children [][]models.ChildRecord
}

func (stub *stubProfileAPI) CompleteSetupFlow(_ context.Context, userID string, _ models.MomSetupRecord, children []models.ChildRecord) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	stub.calls++
	stub.userIDs = append(stub.userIDs, userID)
	stub.children = append(stub.children, children)
	return stub.err
}

type testServer struct {
	t        *testing.T
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
	profile  *stubProfileAPI
	metrics  *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "nestwell-api-test.db"), logging.Discard())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	server := &testServer{t: t, database: database, profile: &stubProfileAPI{}}
	server.restart()
	return server
}

// restart builds a fresh handler over the same database, like a relaunch.
func (server *testServer) restart() {
	server.t.Helper()

	i18nManager, err := i18n.NewManager(i18n.LangEN, i18n.Locales())
	if err != nil {
		server.t.Fatalf("init i18n: %v", err)
	}
	server.metrics = metrics.New()
	handler, err := NewHandler(server.database, HandlerOptions{
		SecretKey: testSecretKey,
		I18n:      i18nManager,
		Logger:    logging.Discard(),
		Metrics:   server.metrics,
		SetupAPI:  server.profile,
	})
	if err != nil {
		server.t.Fatalf("init handler: %v", err)
	}
	server.handler = handler
	server.app = NewApp(handler)
}

type testResponse struct {
	status  int
	body    map[string]any
	raw     string
	cookies []*http.Cookie
}

func (server *testServer) do(method string, path string, payload any, cookie *http.Cookie, headers ...string) testResponse {
	server.t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			server.t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for index := 0; index+1 < len(headers); index += 2 {
		request.Header.Set(headers[index], headers[index+1])
	}
	if cookie != nil {
		request.AddCookie(cookie)
	}

	response, err := server.app.Test(request, -1)
	if err != nil {
		server.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		server.t.Fatalf("read response body: %v", err)
	}
	result := testResponse{status: response.StatusCode, raw: string(raw), cookies: response.Cookies()}
	_ = json.Unmarshal(raw, &result.body)
	return result
}

func (server *testServer) register(email string) *http.Cookie {
	server.t.Helper()

	response := server.do(http.MethodPost, "/api/auth/register", fiber.Map{
		"email":            email,
		"password":         "StrongPass1",
		"confirm_password": "StrongPass1",
		"display_name":     "Anna",
	}, nil)
	if response.status != fiber.StatusCreated {
		server.t.Fatalf("register: expected 201, got %d: %s", response.status, response.raw)
	}
	return authCookieFrom(server.t, response)
}

func (server *testServer) login(email string) (*http.Cookie, testResponse) {
	server.t.Helper()

	response := server.do(http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    email,
		"password": "StrongPass1",
	}, nil)
	if response.status != fiber.StatusOK {
		server.t.Fatalf("login: expected 200, got %d: %s", response.status, response.raw)
	}
	return authCookieFrom(server.t, response), response
}

func (server *testServer) saveMomSetup(cookie *http.Cookie) {
	server.t.Helper()

	response := server.do(http.MethodPost, "/api/setup/mom", validMomSetupPayload(), cookie)
	if response.status != fiber.StatusOK {
		server.t.Fatalf("save mom setup: expected 200, got %d: %s", response.status, response.raw)
	}
}

func validMomSetupPayload() fiber.Map {
	return fiber.Map{
		"momStatus":            models.MomStatusNewMom,
		"customGoals":          []string{"Reading"},
		"selectedGoals":        []string{"Sleep", "Reading"},
		"notificationsEnabled": true,
	}
}

func validChildSetupPayload() fiber.Map {
	return fiber.Map{
		"children": []fiber.Map{
			{"fullName": "Ann", "dob": "2024-01-01", "gender": "female"},
			{"fullName": "", "dob": "", "gender": ""},
		},
	}
}

func authCookieFrom(t *testing.T, response testResponse) *http.Cookie {
	t.Helper()
	for _, cookie := range response.cookies {
		if cookie != nil && cookie.Name == authCookieName {
			return cookie
		}
	}
	t.Fatalf("expected %s cookie in response", authCookieName)
	return nil
}

func expectRedirect(t *testing.T, response testResponse, want string) {
	t.Helper()
	if got, _ := response.body["redirect"].(string); got != want {
		t.Fatalf("expected redirect %q, got %q (%s)", want, got, response.raw)
	}
}
