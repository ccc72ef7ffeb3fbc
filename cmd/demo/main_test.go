package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samvad-hq/surreal-http/pkg/surreal"
)

func TestDemoCreatesThenSelects(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, r.Method+" "+r.URL.Path+" "+string(body))
		_, _ = w.Write([]byte(`[{"time":"1ms","status":"OK","result":[{"id":"test:4","name":"test"}]}]`))
	}))
	defer srv.Close()

	c, err := surreal.New(surreal.Config{URL: srv.URL, Namespace: "test", Database: "test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := demo(context.Background(), c, "test"); err != nil {
		t.Fatalf("demo: %v", err)
	}

	want := []string{
		`POST /key/test/4 {"name":"test"}`,
		`POST /sql SELECT * FROM test`,
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestErrorJSONPrefersParsedBody(t *testing.T) {
	e := &surreal.Error{Body: map[string]any{"code": 400}, Raw: []byte("ignored")}
	if got := errorJSON(e); got != `{"code":400}` {
		t.Fatalf("errorJSON = %s", got)
	}
	if got := errorJSON(&surreal.Error{Raw: []byte("oops")}); got != "oops" {
		t.Fatalf("errorJSON raw = %s", got)
	}
}
