package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subclean/internal/config"
	"subclean/internal/testsupport"
)

const ffprobeStub = `cat <<'JSON'
{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video"},
    {"index": 2, "codec_name": "subrip", "codec_type": "subtitle",
     "tags": {"language": "eng", "title": "English SDH"},
     "disposition": {"hearing_impaired": 1, "forced": 0}},
    {"index": 3, "codec_name": "subrip", "codec_type": "subtitle",
     "tags": {"language": "eng", "title": "English"},
     "disposition": {"hearing_impaired": 0, "forced": 0}},
    {"index": 4, "codec_name": "hdmv_pgs_subtitle", "codec_type": "subtitle",
     "tags": {"language": "eng"}}
  ],
  "format": {"filename": "stub", "nb_streams": 4, "format_name": "matroska"}
}
JSON
`

const ffmpegStub = `stream=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-map" ]; then
    stream="$2"
  fi
  shift
done
case "$stream" in
  0:2)
    cat <<'SRT'
1
00:00:01,000 --> 00:00:02,500
[DOOR SLAMS]

2
00:00:03,000 --> 00:00:05,000
JOHN: Where were you?
SRT
    ;;
  0:3)
    cat <<'SRT'
1
00:00:03,000 --> 00:00:05,000
Where were you?

2
00:00:06,000 --> 00:00:08,000
MARY: Fine.
SRT
    ;;
  *)
    echo "stream $stream not found" >&2
    exit 1
    ;;
esac
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("NO_COLOR", "1")
	opts = append([]testsupport.ConfigOption{
		testsupport.WithFFprobeScript(ffprobeStub),
		testsupport.WithFFmpegScript(ffmpegStub),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
