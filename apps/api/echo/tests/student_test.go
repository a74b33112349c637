package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/user"
)

func TestStudentAPI_accessControl(t *testing.T) {
	app := setup(t)
	teacher := app.createUser(t, "Mrs. Sharma", "teacher@school.org", "s3cr3t-p4ss", user.RoleTeacher)
	kid := app.createUser(t, "Aarav Kumar", "kid@school.org", "s3cr3t-p4ss", user.RoleStudent)

	forbidden := marchallObj(t, httpErr{Error: "permission denied"})

	tests := []httpTest{
		{
			name:     "anonymous is rejected",
			method:   http.MethodGet,
			path:     "/api/students",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "student role can list",
			method:   http.MethodGet,
			path:     "/api/students",
			token:    app.getToken(t, kid),
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "student role cannot create",
			method:   http.MethodPost,
			path:     "/api/students",
			body:     []byte(`{"name": "X", "class": "5A"}`),
			token:    app.getToken(t, kid),
			wantCode: http.StatusForbidden,
			wantData: forbidden,
		},
		{
			name:     "student role cannot link",
			method:   http.MethodPost,
			path:     "/api/students/link",
			body:     []byte(`{"studentId": "x", "email": "kid@school.org"}`),
			token:    app.getToken(t, kid),
			wantCode: http.StatusForbidden,
			wantData: forbidden,
		},
		{
			name:     "teacher can list",
			method:   http.MethodGet,
			path:     "/api/students",
			token:    app.getToken(t, teacher),
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestStudentAPI_crud(t *testing.T) {
	app := setup(t)
	teacher := app.createUser(t, "Mrs. Sharma", "teacher@school.org", "s3cr3t-p4ss", user.RoleTeacher)
	token := app.getToken(t, teacher)

	// create
	req, rec := newAuthRequest(http.MethodPost, "/api/students", token, []byte(`{"name": "Aarav Kumar", "class": "5A"}`))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshalling create response: %v", err)
	}

	t.Run("missing class", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/students", token, []byte(`{"name": "Aarav Kumar"}`))
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest}, rec)
	})

	t.Run("retrieve detail", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/students/"+created.ID, token)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("retrieve: code = %v; body %s", rec.Code, rec.Body.String())
		}
		var detail struct {
			Name          string        `json:"name"`
			Assessments   []interface{} `json:"assessments"`
			RemedialPlans []interface{} `json:"remedial_plans"`
			User          interface{}   `json:"user"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
			t.Fatalf("unmarshalling detail: %v", err)
		}
		if detail.Name != "Aarav Kumar" {
			t.Errorf("name = %q; want %q", detail.Name, "Aarav Kumar")
		}
		if len(detail.Assessments) != 0 || len(detail.RemedialPlans) != 0 {
			t.Error("fresh student should have no academic history")
		}
		if detail.User != nil {
			t.Error("fresh student should have no linked user")
		}
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/students/nope", token)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "student not found"}),
		}, rec)
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/students/"+created.ID, token)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("delete: code = %v; want %v", rec.Code, http.StatusNoContent)
		}

		req, rec = newAuthRequest(http.MethodGet, "/api/students/"+created.ID, token)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("retrieve after delete: code = %v; want %v", rec.Code, http.StatusNotFound)
		}
	})
}

func TestStudentAPI_linking(t *testing.T) {
	app := setup(t)
	teacher := app.createUser(t, "Mrs. Sharma", "teacher@school.org", "s3cr3t-p4ss", user.RoleTeacher)
	token := app.getToken(t, teacher)
	std := app.createStudent(t, "Aarav Kumar", "5A")

	link := func(body []byte) (int, []byte) {
		req, rec := newAuthRequest(http.MethodPost, "/api/students/link", token, body)
		app.server.ServeHTTP(rec, req)
		return rec.Code, rec.Body.Bytes()
	}

	t.Run("new email requires a password", func(t *testing.T) {
		code, body := link(marchallObj(t, map[string]string{"studentId": std.ID, "email": "kid@school.org"}))
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "password required to create new user"}),
		}
		if code != tt.wantCode {
			t.Errorf("code = %v; want %v; body %s", code, tt.wantCode, body)
		}
	})

	var linkedUserID string

	t.Run("link creates the account", func(t *testing.T) {
		code, body := link(marchallObj(t, map[string]string{
			"studentId": std.ID,
			"email":     "kid@school.org",
			"password":  "s3cr3t-p4ss",
		}))
		if code != http.StatusOK {
			t.Fatalf("code = %v; body %s", code, body)
		}
		var resp struct {
			OK     bool   `json:"ok"`
			UserID string `json:"userId"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshalling link response: %v", err)
		}
		if !resp.OK || resp.UserID == "" {
			t.Errorf("unexpected response: %s", body)
		}
		linkedUserID = resp.UserID
	})

	t.Run("me resolves the linked student", func(t *testing.T) {
		kid, err := app.usrSvc.GetByID(context.Background(), linkedUserID)
		if err != nil {
			t.Fatalf("GetByID(): %v", err)
		}
		req, rec := newAuthRequest(http.MethodGet, "/api/students/me", app.getToken(t, kid))
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("me: code = %v; body %s", rec.Code, rec.Body.String())
		}
		var detail struct {
			ID   string `json:"id"`
			User *struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
			t.Fatalf("unmarshalling me: %v", err)
		}
		if detail.ID != std.ID {
			t.Errorf("id = %q; want %q", detail.ID, std.ID)
		}
		if detail.User == nil || detail.User.Email != "kid@school.org" {
			t.Errorf("unexpected linked user: %s", rec.Body.String())
		}
	})

	t.Run("me without a linked student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/students/me", token)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "no student linked to this account"}),
		}, rec)
	})

	t.Run("unlink", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"studentId": std.ID})
		req, rec := newAuthRequest(http.MethodPost, "/api/students/unlink", token, body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"ok": true}`)}, rec)

		// repeat unlink is still OK
		req, rec = newAuthRequest(http.MethodPost, "/api/students/unlink", token, body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"ok": true}`)}, rec)
	})

	t.Run("link unknown student", func(t *testing.T) {
		code, body := link(marchallObj(t, map[string]string{
			"studentId": "nope",
			"email":     "kid@school.org",
		}))
		if code != http.StatusNotFound {
			t.Errorf("code = %v; want %v; body %s", code, http.StatusNotFound, body)
		}
	})
}
