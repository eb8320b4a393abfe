package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/auth"
	"github.com/trezcool/darasa/core/marks"
	"github.com/trezcool/darasa/core/user"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	"github.com/trezcool/darasa/testutil"
)

var (
	errNotAuthenticated = httpErr{Error: "user not authenticated"}
	errForbidden        = httpErr{Error: "permission denied"}
)

type testEnv struct {
	srv      *echoapi.Server
	usrRepo  user.Repository
	marksSvc *marks.Service
	tokens   *auth.TokenService
}

func setup(t *testing.T, confs ...*core.Config) testEnv {
	t.Helper()

	conf := testutil.Config()
	if len(confs) > 0 {
		conf = confs[0]
	}

	db := dummydb.Open()
	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo)
	marksSvc := marks.NewService(db, dummydb.NewMarksRepository(db), usrRepo)
	tokens := auth.NewTokenService([]byte(conf.SecretKey), conf.AppName)

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     testutil.NewLogger(),
		UserSvc:    usrSvc,
		MarksSvc:   marksSvc,
		Tokens:     tokens,
		Resolver:   auth.NewResolver(tokens, usrSvc),
		Validate:   validate,
		Translator: translator,
	})
	return testEnv{srv: srv, usrRepo: usrRepo, marksSvc: marksSvc, tokens: tokens}
}

func (e testEnv) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := e.tokens.Issue(usr.Username, usr.Role)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (e testEnv) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			e.srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// expiredToken is signed with the test key but expired a minute ago.
func expiredToken(t *testing.T, usr user.User) string {
	t.Helper()
	conf := testutil.Config()
	now := time.Now()
	claims := auth.Claims{
		Role: usr.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    conf.AppName,
			Subject:   usr.Username,
			IssuedAt:  jwt.NewNumericDate(now.Add(-auth.TokenTTL - time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(conf.SecretKey))
	if err != nil {
		t.Fatalf("expiredToken() failed: %v", err)
	}
	return token
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
	wantData []byte // nil: only the code is checked
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

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
