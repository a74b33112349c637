package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/user"
)

func TestAuthAPI_signup(t *testing.T) {
	app := setup(t)
	app.createUser(t, "Jane Doe", "taken@school.org", "s3cr3t-p4ss", user.RoleTeacher)

	tests := []httpTest{
		{
			name:     "signup ok",
			body:     []byte(`{"name": "John Doe", "email": "john@school.org", "password": "s3cr3t-p4ss", "role": "teacher"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "unknown role falls back to teacher",
			body:     []byte(`{"name": "Jo Doe", "email": "jo@school.org", "password": "s3cr3t-p4ss", "role": "superuser"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "duplicate email",
			body:     []byte(`{"name": "Jane Doe", "email": "taken@school.org", "password": "s3cr3t-p4ss"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "email already registered"}),
		},
		{
			name:     "invalid email",
			body:     []byte(`{"name": "John Doe", "email": "nope", "password": "s3cr3t-p4ss"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "weak password",
			body:     []byte(`{"name": "John Doe", "email": "john2@school.org", "password": "12345678"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing fields",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/signup", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if resp.Token == "" {
					t.Error("failed! empty token")
				}
			}
		})
	}
}

func TestAuthAPI_login(t *testing.T) {
	app := setup(t)
	app.createUser(t, "Jane Doe", "jane@school.org", "s3cr3t-p4ss", user.RoleTeacher)

	invalidCreds := marchallObj(t, httpErr{Error: "invalid credentials"})

	tests := []httpTest{
		{
			name:     "login ok",
			body:     []byte(`{"email": "jane@school.org", "password": "s3cr3t-p4ss"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email": "jane@school.org", "password": "nope-nope"}`),
			wantCode: http.StatusUnauthorized,
			wantData: invalidCreds,
		},
		{
			// same response as a wrong password; no account enumeration
			name:     "unknown email",
			body:     []byte(`{"email": "nobody@school.org", "password": "s3cr3t-p4ss"}`),
			wantCode: http.StatusUnauthorized,
			wantData: invalidCreds,
		},
		{
			name:     "missing password",
			body:     []byte(`{"email": "jane@school.org"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/login", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestAuthAPI_resetPassword(t *testing.T) {
	ctx := context.Background()
	email := "jane@school.org"

	app := setup(t)
	app.createUser(t, "Jane Doe", email, "0ld-p4ssword", user.RoleTeacher)

	login := func(pwd string) int {
		body := marchallObj(t, map[string]string{"email": email, "password": pwd})
		req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
		app.server.ServeHTTP(rec, req)
		return rec.Code
	}
	reset := func(code, pwd string) (int, string) {
		body := marchallObj(t, map[string]string{"email": email, "otp": code, "password": pwd})
		req, rec := newRequest(http.MethodPost, "/api/auth/reset-password", body)
		app.server.ServeHTTP(rec, req)
		return rec.Code, rec.Body.String()
	}

	// no OTP requested yet
	if code, _ := reset("123456", "n3w-p4ssword"); code != http.StatusNotFound {
		t.Errorf("failed! code = %v; wantCode %v", code, http.StatusNotFound)
	}

	if err := app.otpSvc.Request(ctx, email); err != nil {
		t.Fatalf("otpSvc.Request(): %v", err)
	}
	record := app.liveCode(t, email)

	// the code must be verified first
	if code, body := reset(record.Code, "n3w-p4ssword"); code != http.StatusBadRequest {
		t.Errorf("failed! code = %v; wantCode %v; body %s", code, http.StatusBadRequest, body)
	}

	if err := app.otpSvc.Verify(ctx, email, record.Code); err != nil {
		t.Fatalf("otpSvc.Verify(): %v", err)
	}
	if code, body := reset(record.Code, "n3w-p4ssword"); code != http.StatusOK {
		t.Errorf("failed! code = %v; wantCode %v; body %s", code, http.StatusOK, body)
	}

	if code := login("n3w-p4ssword"); code != http.StatusOK {
		t.Errorf("login with new password: code = %v; want %v", code, http.StatusOK)
	}
	if code := login("0ld-p4ssword"); code != http.StatusUnauthorized {
		t.Errorf("login with old password: code = %v; want %v", code, http.StatusUnauthorized)
	}

	// the code was consumed
	if code, _ := reset(record.Code, "y3t-an0ther-pwd"); code != http.StatusNotFound {
		t.Errorf("reused code: code = %v; want %v", code, http.StatusNotFound)
	}
}
