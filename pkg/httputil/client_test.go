package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("X-Token"); got != "secret" {
			t.Errorf("X-Token = %q, want secret", got)
		}
		var in map[string][]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]int{"count": len(in["files"])})
	}))
	defer srv.Close()

	c := NewClient(map[string]string{"X-Token": "secret"})
	var out struct{ Count int }
	if err := c.PostJSON(context.Background(), srv.URL, map[string][]string{"files": {"a", "b"}}, &out); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if out.Count != 2 {
		t.Errorf("Count = %d, want 2", out.Count)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(nil).WithRetry(3, time.Millisecond)
	if err := c.PostJSON(context.Background(), srv.URL, struct{}{}, &struct{}{}); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewClient(nil).WithRetry(3, time.Millisecond).PostJSON(context.Background(), srv.URL, nil, nil)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("PostJSON() error = %v, want ErrNetwork", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		header    string
		wantErr   error
		retryable bool
		after     time.Duration
	}{
		{200, "", nil, false, 0},
		{204, "", nil, false, 0},
		{404, "", ErrNotFound, false, 0},
		{429, "7", ErrRateLimited, true, 7 * time.Second},
		{503, "", ErrNetwork, true, 0},
		{418, "", ErrNetwork, false, 0},
	}

	for _, tt := range tests {
		resp := &http.Response{StatusCode: tt.code, Header: http.Header{}}
		if tt.header != "" {
			resp.Header.Set("Retry-After", tt.header)
		}
		err := CheckStatus(resp)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("CheckStatus(%d) = %v, want %v", tt.code, err, tt.wantErr)
		}
		var re *RetryableError
		if got := errors.As(err, &re); got != tt.retryable {
			t.Errorf("CheckStatus(%d) retryable = %v, want %v", tt.code, got, tt.retryable)
		}
		if re != nil && re.After != tt.after {
			t.Errorf("CheckStatus(%d) After = %v, want %v", tt.code, re.After, tt.after)
		}
	}
}
