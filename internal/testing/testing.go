// package testing contains shared testing utilities: failing readers and writers, a canned
// [http.RoundTripper], file helpers and the in-memory soundboard backend in backend.go.
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

var (
	errWrite      = errors.New("write failed")
	errWriteLimit = errors.New("write limit exceeded")
	errRead       = errors.New("read failed")
)

// FWriter fails every Write.
type FWriter struct{}

func (*FWriter) Write([]byte) (int, error) { return 0, errWrite }

// LimitedWriter forwards to target until maxWrites calls have gone through, then fails.
type LimitedWriter struct {
	target    io.Writer
	maxWrites int
	written   int
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{target: target, maxWrites: maxWrites, written: written}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.written >= l.maxWrites {
		return 0, errWriteLimit
	}
	l.written++
	return l.target.Write(p)
}

// MockRoundTripper answers every request with the same response or error and counts the calls.
type MockRoundTripper struct {
	response *http.Response
	err      error
	Calls    int
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	m.Calls++
	return m.response, m.err
}

// FCloser is a response body whose reads always fail.
type FCloser struct{}

func (*FCloser) Read([]byte) (int, error) { return 0, errRead }
func (*FCloser) Close() error             { return nil }

// InDir switches the working directory to dir for the rest of the test.
func InDir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Errorf("Failed to restore working directory %s: %v", orig, err)
		}
	})
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// WriteAudioFile creates a small fake audio file named name inside dir and returns its path.
func WriteAudioFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("RIFF"+name), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
