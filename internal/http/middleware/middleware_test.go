package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickynote/internal/apperr"
	"stickynote/internal/auth"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/rid", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFrom(c))
	})

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated when absent"},
		{name: "caller id kept", incoming: "req-7f3a", keep: true},
		{name: "oversized id replaced", incoming: strings.Repeat("x", 129)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/rid", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			got := resp.Header.Get(RequestIDHeader)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, got, string(body))
			if tc.keep {
				assert.Equal(t, tc.incoming, got)
				return
			}
			_, perr := uuid.Parse(got)
			assert.NoError(t, perr)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		UserSecret:  []byte("user-secret"),
		AdminSecret: []byte("admin-secret"),
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if apperr.KindOf(err) == apperr.KindAuth {
				return c.Status(fiber.StatusUnauthorized).SendString(apperr.MessageOf(err, ""))
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Get("/admin-only", RequireRole(tokens, auth.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString(PrincipalID(c) + ":" + ClaimsFrom(c).PrincipalID)
	})

	adminTok, err := tokens.Issue("a-1", auth.RoleAdmin)
	require.NoError(t, err)
	userTok, err := tokens.Issue("u-1", auth.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{name: "admin token", token: adminTok, wantStatus: fiber.StatusOK, wantBody: "a-1:a-1"},
		{name: "user token on admin route", token: userTok, wantStatus: fiber.StatusUnauthorized, wantBody: "invalid token"},
		{name: "missing token", token: "", wantStatus: fiber.StatusUnauthorized, wantBody: "missing token"},
		{name: "garbage", token: "abc.def.ghi", wantStatus: fiber.StatusUnauthorized, wantBody: "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin-only", nil)
			if tt.token != "" {
				req.Header.Set(auth.HeaderName, tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, loc))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	// Verify log output
	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
	assert.Equal(t, "http_request", logData["msg"])
	_, hasTrace := logData["trace_id"]
	assert.False(t, hasTrace)
}
