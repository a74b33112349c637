package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/otp"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server Server
	conf   *core.Config

	usrSvc user.Service
	otpSvc otp.Service
	stdSvc student.Service
	assSvc assessment.Service
	remSvc remedial.Service
	resSvc resource.Service

	otpRepo otp.Repository
	mailer  interface {
		SentMessages() []core.EmailMessage
	}
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := core.NewTestConfig()
	db := inmemdb.Open()
	mailer := emailsvc.NewConsoleServiceMock(conf)

	otpRepo := inmemdb.NewOTPRepository(db)
	otpSvc := otp.NewService(otpRepo, mailer, conf)
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), otpSvc)
	stdSvc := student.NewService(inmemdb.NewStudentRepository(db), usrSvc)
	assSvc := assessment.NewService(inmemdb.NewAssessmentRepository(db))
	remSvc := remedial.NewService(inmemdb.NewRemedialRepository(db))
	resSvc := resource.NewService(inmemdb.NewResourceRepository(db))

	validate, translator := core.NewValidator()

	app := &testApp{
		conf:    conf,
		usrSvc:  usrSvc,
		otpSvc:  otpSvc,
		stdSvc:  stdSvc,
		assSvc:  assSvc,
		remSvc:  remSvc,
		resSvc:  resSvc,
		otpRepo: otpRepo,
		mailer:  mailer,
	}
	app.server = NewServer(
		&Options{
			DisableReqLogs: true,
			Conf:           conf,
			Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
			Validate:       validate,
			Translator:     translator,
			UserSvc:        usrSvc,
			OTPSvc:         otpSvc,
			StudentSvc:     stdSvc,
			AssessmentSvc:  assSvc,
			RemedialSvc:    remSvc,
			ResourceSvc:    resSvc,
		},
	)
	return app
}

func (app *testApp) createUser(t *testing.T, name, email, pwd string, role user.Role) user.User {
	t.Helper()
	usr, err := app.usrSvc.Create(context.Background(), user.NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     string(role),
	})
	if err != nil {
		t.Fatalf("createUser(): %v", err)
	}
	return usr
}

func (app *testApp) createStudent(t *testing.T, name, class string) student.Student {
	t.Helper()
	std, err := app.stdSvc.Create(context.Background(), student.NewStudent{Name: name, Class: class})
	if err != nil {
		t.Fatalf("createStudent(): %v", err)
	}
	return std
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr, app.conf), app.conf)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

// liveCode reads the stored OTP for email straight from the repository.
func (app *testApp) liveCode(t *testing.T, email string) otp.OneTimeCode {
	t.Helper()
	record, err := app.otpRepo.GetCodeByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("liveCode(): %v", err)
	}
	return record
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
