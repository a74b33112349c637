package tests

import (
	"net/http"
	"strings"
	"testing"
)

func TestOTPAPI_send(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "send ok",
			path:     "/api/otp/send",
			body:     []byte(`{"email": "jane@school.org"}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"message": "OTP sent successfully", "email": "jane@school.org"}`),
		},
		{
			name:     "resend ok",
			path:     "/api/otp/resend",
			body:     []byte(`{"email": "jane@school.org"}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"message": "OTP resent successfully", "email": "jane@school.org"}`),
		},
		{
			name:     "invalid email",
			path:     "/api/otp/send",
			body:     []byte(`{"email": "nope"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing email",
			path:     "/api/otp/send",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// both successful calls dispatched a mail carrying the live code
	msgs := app.mailer.SentMessages()
	if len(msgs) != 2 {
		t.Fatalf("sent messages = %d; want 2", len(msgs))
	}
	record := app.liveCode(t, "jane@school.org")
	if !strings.Contains(msgs[len(msgs)-1].TextContent, record.Code) {
		t.Error("mail does not contain the live code")
	}
}

func TestOTPAPI_verify(t *testing.T) {
	app := setup(t)
	email := "jane@school.org"

	sendBody := []byte(`{"email": "jane@school.org"}`)
	req, rec := newRequest(http.MethodPost, "/api/otp/send", sendBody)
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("send failed: %d %s", rec.Code, rec.Body.String())
	}
	record := app.liveCode(t, email)

	verify := func(code string) (int, string) {
		body := marchallObj(t, map[string]string{"email": email, "otp": code})
		req, rec := newRequest(http.MethodPost, "/api/otp/verify", body)
		app.server.ServeHTTP(rec, req)
		return rec.Code, rec.Body.String()
	}

	if code, body := verify("000000"); code != http.StatusUnauthorized {
		t.Errorf("wrong code: code = %v; want %v; body %s", code, http.StatusUnauthorized, body)
	}
	if code, body := verify(record.Code); code != http.StatusOK {
		t.Errorf("right code: code = %v; want %v; body %s", code, http.StatusOK, body)
	}

	t.Run("no live code", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"email": "nobody@school.org", "otp": "123456"})
		req, rec := newRequest(http.MethodPost, "/api/otp/verify", body)
		app.server.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "OTP not found or expired"}),
		}
		checkCodeAndData(t, tt, rec)
	})
}

func TestOTPAPI_attemptsCap(t *testing.T) {
	app := setup(t)
	email := "jane@school.org"

	req, rec := newRequest(http.MethodPost, "/api/otp/send", []byte(`{"email": "jane@school.org"}`))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("send failed: %d %s", rec.Code, rec.Body.String())
	}

	verify := func() int {
		body := marchallObj(t, map[string]string{"email": email, "otp": "000000"})
		req, rec := newRequest(http.MethodPost, "/api/otp/verify", body)
		app.server.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < app.conf.OTP.MaxAttempts; i++ {
		if code := verify(); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: code = %v; want %v", i+1, code, http.StatusUnauthorized)
		}
	}
	if code := verify(); code != http.StatusTooManyRequests {
		t.Errorf("capped attempt: code = %v; want %v", code, http.StatusTooManyRequests)
	}
	// the record is purged; the client has to request a fresh code
	if code := verify(); code != http.StatusNotFound {
		t.Errorf("post-cap attempt: code = %v; want %v", code, http.StatusNotFound)
	}
}
