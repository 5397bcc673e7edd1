package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCheck_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/bot123:abc/getMe") {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"username":"image_gen_bot"}}`))
	}))
	defer srv.Close()

	username, err := New(srv.URL, time.Second).Check(context.Background(), "123:abc")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if username != "image_gen_bot" {
		t.Errorf("username = %q", username)
	}
}

func TestCheck_InvalidToken(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Check(context.Background(), "bad")
	if err == nil {
		t.Fatal("expected error for invalid token")
	}
	if !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("error should carry API description: %v", err)
	}
}

func TestCheck_MissingToken(t *testing.T) {
	t.Parallel()
	_, err := New("", time.Second).Check(context.Background(), "")
	if !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("got %v, want ErrTokenMissing", err)
	}
}

func TestCheck_TimeoutBoundsTheCall(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	start := time.Now()
	_, err := New(srv.URL, 50*time.Millisecond).Check(context.Background(), "123:abc")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("probe was not bounded by its timeout: %v", elapsed)
	}
}

func TestCheck_MalformedBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	if _, err := New(srv.URL, time.Second).Check(context.Background(), "123:abc"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
