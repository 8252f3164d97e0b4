package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/kazi/apps/api/echo"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/coverage"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
	"github.com/trezcool/kazi/tests"
)

func setup(t *testing.T, f inmemdb.Fixture, observer ...coverage.Observer) *Server {
	conf := core.NewTestConfig()

	var obs coverage.Observer
	if len(observer) > 0 {
		obs = observer[0]
	}
	db := testutil.PrepareDB(t, f)
	svc := testutil.NewCoverageService(t, conf, db, obs)

	return NewServer(
		ServerDeps{
			Conf:        conf,
			Logger:      testutil.NewLogger(),
			CoverageSvc: svc,
			Validate:    testutil.NewValidator(),
			Translator:  core.NewTranslator(),
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	actor    string
	wantCode int
	wantData []byte
}

func newActorRequest(method, path, actor string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Forwarded-User", actor)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newActorRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
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
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
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

func decodeRollup(t *testing.T, rec *httptest.ResponseRecorder) coverage.Rollup {
	var rollup coverage.Rollup
	if !assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rollup)) {
		t.FailNow()
	}
	return rollup
}
