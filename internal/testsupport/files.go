package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleSRT holds three cues: a sound description, a speaker-labelled line,
// and a clean line.
const SampleSRT = `1
00:00:01,000 --> 00:00:02,500
[DOOR SLAMS]

2
00:00:03,000 --> 00:00:05,000
JOHN: Where were you?

3
00:00:06,000 --> 00:00:08,000
Out.
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the content at path.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// TouchFiles creates empty files under dir.
func TouchFiles(t testing.TB, dir string, names ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		WriteFile(t, path, "")
		paths = append(paths, path)
	}
	return paths
}
