package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
)

// captureLogger records everything resty logs.
type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (c *captureLogger) add(format string, v ...interface{}) {
	c.mu.Lock()
	c.lines = append(c.lines, fmt.Sprintf(format, v...))
	c.mu.Unlock()
}

func (c *captureLogger) Errorf(format string, v ...interface{}) { c.add(format, v...) }
func (c *captureLogger) Warnf(format string, v ...interface{})  { c.add(format, v...) }
func (c *captureLogger) Debugf(format string, v ...interface{}) { c.add(format, v...) }

func TestRestyClientDoSendsAuthHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "root" || pass != "secret" {
			t.Errorf("unexpected basic auth %q/%q ok=%v", user, pass, ok)
		}
		if got := r.Header.Get("NS"); got != "test" {
			t.Errorf("NS header = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"a":1}` {
			t.Errorf("unexpected body %q", body)
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Do(context.Background(), Request{
		Method:   http.MethodPatch,
		URL:      srv.URL + "/key/t/1",
		Headers:  map[string]string{"NS": "test"},
		Username: "root",
		Password: "secret",
		Body:     []byte(`{"a":1}`),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if string(resp.Body()) != "ok" {
		t.Fatalf("body = %q", resp.Body())
	}
}

func TestRestyClientDoReturnsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := NewRestyClient(0).Do(context.Background(), Request{Method: http.MethodGet, URL: url}); err == nil {
		t.Fatalf("expected error for closed server")
	}
}

func TestRestyClientDoRequiresMethod(t *testing.T) {
	if _, err := NewRestyClient(0).Do(context.Background(), Request{URL: "http://localhost"}); err == nil {
		t.Fatalf("expected error for empty method")
	}
}

func TestRestyClientBasicAuthOverPlainHTTPIsSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	log := &captureLogger{}
	base := newRestyBaseClient(0)
	base.SetLogger(log)
	client := &RestyClient{client: base}

	for i := 0; i < 2; i++ {
		if _, err := client.Do(context.Background(), Request{
			Method:   http.MethodGet,
			URL:      srv.URL + "/key/t",
			Username: "root",
			Password: "root",
		}); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}
	if len(log.lines) != 0 {
		t.Fatalf("expected no resty output, got %q", log.lines)
	}
}

func TestWrapRestyKeepsCallerSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Custom"); got != "1" {
			t.Errorf("X-Custom = %q", got)
		}
		if got := r.Header.Get("NS"); got != "test" {
			t.Errorf("NS = %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	log := &captureLogger{}
	custom := resty.New().SetHeader("X-Custom", "1").SetLogger(log)
	client := WrapResty(custom)

	resp, err := client.Do(context.Background(), Request{
		Method:   http.MethodGet,
		URL:      srv.URL,
		Headers:  map[string]string{"NS": "test"},
		Username: "root",
		Password: "root",
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if len(log.lines) != 0 {
		t.Fatalf("expected no resty output, got %q", log.lines)
	}

	if WrapResty(nil).client == nil {
		t.Fatalf("WrapResty(nil) should build a default client")
	}
}
