package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lenbersih/lenbersih-api/internal/dto"
)

type stubValidator struct {
	valid bool
}

func (s stubValidator) Generate() (string, string, error) {
	return "token-1", "data:image/png;base64,AAAA", nil
}

func (s stubValidator) Verify(token, answer string) bool {
	return s.valid
}

func newCaptchaApp(valid bool) *fiber.App {
	app := fiber.New()
	handler := NewCaptchaHandler(stubValidator{valid: valid})
	app.Get("/api/captcha/new", handler.New)
	app.Post("/api/captcha/validate", handler.Validate)
	return app
}

func TestCaptchaNew(t *testing.T) {
	app := newCaptchaApp(true)

	req := httptest.NewRequest("GET", "/api/captcha/new", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}

	var body dto.CaptchaChallengeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token == "" || body.Image == "" {
		t.Errorf("challenge incomplete: %+v", body)
	}
}

func TestCaptchaValidate(t *testing.T) {
	tests := []struct {
		name        string
		valid       bool
		wantMessage string
	}{
		{"valid entry", true, "CAPTCHA verification successful."},
		{"invalid entry", false, "CAPTCHA verification failed."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newCaptchaApp(tt.valid)

			resp := postJSON(t, app, "/api/captcha/validate", dto.CaptchaValidationRequest{
				Token: "token-1", Input: "12345",
			})
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("got status %d, want 200", resp.StatusCode)
			}

			var body dto.CaptchaValidationResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.IsValid != tt.valid {
				t.Errorf("got isValid %v, want %v", body.IsValid, tt.valid)
			}
			if body.Message != tt.wantMessage {
				t.Errorf("got message %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}

func TestCaptchaValidateMissingPayload(t *testing.T) {
	app := newCaptchaApp(true)

	req := httptest.NewRequest("POST", "/api/captcha/validate", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("got status %d, want 400", resp.StatusCode)
	}
}

func TestCaptchaValidateMissingFields(t *testing.T) {
	app := newCaptchaApp(true)

	resp := postJSON(t, app, "/api/captcha/validate", map[string]string{"token": "only-token"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("got status %d, want 400", resp.StatusCode)
	}

	var body dto.ValidationErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body.Fields["input"]; !ok {
		t.Errorf("expected input field error, got %v", body.Fields)
	}
}
