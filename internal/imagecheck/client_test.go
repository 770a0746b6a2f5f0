package imagecheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestValidURL(t *testing.T) {
	valid := []string{"https://cdn.example.com/header.jpg", "http://example.com/a"}
	for _, u := range valid {
		if !ValidURL(u) {
			t.Fatalf("expected %q to be valid", u)
		}
	}

	invalid := []string{"", "not a url", "ftp://example.com/a", "/relative/path"}
	for _, u := range invalid {
		if ValidURL(u) {
			t.Fatalf("expected %q to be rejected", u)
		}
	}
}

func TestIsImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		switch r.URL.Path {
		case "/header.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
		case "/page":
			w.Header().Set("Content-Type", "text/html")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(5 * time.Second)

	ok, err := c.IsImage(context.Background(), srv.URL+"/header.jpg")
	if err != nil || !ok {
		t.Fatalf("expected image content type, ok=%v err=%v", ok, err)
	}

	ok, err = c.IsImage(context.Background(), srv.URL+"/page")
	if err != nil || ok {
		t.Fatalf("expected non-image content type, ok=%v err=%v", ok, err)
	}

	if _, err := c.IsImage(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatalf("expected error on 404")
	}
}
