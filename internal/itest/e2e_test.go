//go:build integration

package itest

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/vidsplit/internal/pipeline"
)

func requireFFmpeg(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
}

// makeFixture renders a synthetic test video with a tone track.
func makeFixture(t *testing.T, dir, name string, seconds int) string {
	t.Helper()
	out := filepath.Join(dir, name)
	ff := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi", "-i", "testsrc=size=640x360:rate=30:duration="+strconv.Itoa(seconds),
		"-f", "lavfi", "-i", "sine=frequency=440:duration="+strconv.Itoa(seconds),
		"-shortest",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		out,
	)
	if b, err := ff.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}
	return out
}

// clipSeconds reads a clip's container duration back through ffprobe.
func clipSeconds(t *testing.T, path string) float64 {
	t.Helper()
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).CombinedOutput()
	if err != nil {
		t.Fatalf("probe %s: %v\n%s", path, err, out)
	}
	sec, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		t.Fatalf("unparseable duration %q from %s: %v", out, path, err)
	}
	return sec
}

func TestE2E_FixedIntervalSplit(t *testing.T) {
	requireFFmpeg(t)

	tmp := t.TempDir()
	in := makeFixture(t, tmp, "input.mp4", 25)
	outDir := filepath.Join(tmp, "clips")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := pipeline.DefaultConfig()
	cfg.Input = in
	cfg.OutputDir = outDir
	cfg.ClipDuration = 10
	cfg.MinClipLength = 4
	cfg.Quality = "sd"

	if err := pipeline.Run(ctx, cfg); err != nil {
		t.Fatalf("run: %v", err)
	}

	// 25s at 10s: two full clips plus a 5s tail above the 4s minimum.
	clips, err := filepath.Glob(filepath.Join(outDir, "input_part_*.mp4"))
	if err != nil {
		t.Fatal(err)
	}
	if len(clips) != 3 {
		t.Fatalf("expected 3 clips, got %d: %v", len(clips), clips)
	}

	dur := clipSeconds(t, clips[0])
	if dur < 9 || dur > 11 {
		t.Fatalf("first clip duration %.2fs, want ~10s", dur)
	}

	if _, err := os.Stat(filepath.Join(outDir, "input_metadata.json")); err != nil {
		t.Fatalf("metadata missing: %v", err)
	}
}

func TestE2E_BatchProcessesDirectory(t *testing.T) {
	requireFFmpeg(t)

	tmp := t.TempDir()
	inDir := filepath.Join(tmp, "in")
	if err := os.MkdirAll(inDir, 0o755); err != nil {
		t.Fatal(err)
	}
	makeFixture(t, inDir, "a.mp4", 12)
	makeFixture(t, inDir, "b.mp4", 12)

	outDir := filepath.Join(tmp, "clips")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := pipeline.DefaultConfig()
	cfg.Input = inDir
	cfg.OutputDir = outDir
	cfg.ClipDuration = 12
	cfg.MinClipLength = 4
	cfg.Quality = "sd"
	cfg.Batch = true

	if err := pipeline.Run(ctx, cfg); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, name := range []string{"a_part_001.mp4", "b_part_001.mp4"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing clip %s: %v", name, err)
		}
	}

	// Completed batch leaves no progress ledger behind.
	if _, err := os.Stat(filepath.Join(outDir, "batch_progress.json")); !os.IsNotExist(err) {
		t.Fatalf("ledger still present after completion: %v", err)
	}
}
