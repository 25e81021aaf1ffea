package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFileLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "beep.wav")
	if err := os.WriteFile(path, []byte("RIFF..."), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := FileLoader{}.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != "RIFF..." {
		t.Errorf("Load() = %q, want %q", data, "RIFF...")
	}
}

func TestFileLoader_Missing(t *testing.T) {
	t.Parallel()

	_, err := FileLoader{}.Load(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))
	if err == nil {
		t.Error("Load() of missing file succeeded, want error")
	}
}

func TestHTTPLoader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OggS..."))
	}))
	defer srv.Close()

	data, err := HTTPLoader{}.Load(context.Background(), srv.URL+"/a.ogg")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != "OggS..." {
		t.Errorf("Load() = %q, want %q", data, "OggS...")
	}
}

func TestHTTPLoader_BadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := (HTTPLoader{}).Load(context.Background(), srv.URL+"/missing.ogg"); err == nil {
		t.Error("Load() of 404 succeeded, want error")
	}
}

func TestSchemeLoader_Dispatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("net"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "local.wav")
	if err := os.WriteFile(path, []byte("disk"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := Default()

	data, err := loader.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load(http) error = %v", err)
	}
	if string(data) != "net" {
		t.Errorf("Load(http) = %q, want %q", data, "net")
	}

	data, err = loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load(file) error = %v", err)
	}
	if string(data) != "disk" {
		t.Errorf("Load(file) = %q, want %q", data, "disk")
	}
}

func TestFileLoader_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (FileLoader{}).Load(ctx, "whatever.wav"); err == nil {
		t.Error("Load() with canceled context succeeded, want error")
	}
}
