package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolvePrefersEnv(t *testing.T) {
	dir := t.TempDir()
	ffmpegBin := filepath.Join(dir, "ffmpeg")
	ffprobeBin := filepath.Join(dir, "ffprobe")
	for _, p := range []string{ffmpegBin, ffprobeBin} {
		if err := os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatalf("failed to write fake binary: %v", err)
		}
	}

	env := map[string]string{
		ffmpegPathEnv:  ffmpegBin,
		ffprobePathEnv: ffprobeBin,
	}
	lookPath := func(string) (string, error) {
		t.Fatal("PATH lookup must not run when env is set")
		return "", nil
	}

	paths, err := resolve(func(k string) string { return env[k] }, lookPath)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if paths.FFmpeg != ffmpegBin || paths.FFprobe != ffprobeBin {
		t.Errorf("unexpected paths: %+v", paths)
	}
}

func TestResolveFallsBackToPath(t *testing.T) {
	lookPath := func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	}

	paths, err := resolve(func(string) string { return "" }, lookPath)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if paths.FFmpeg != "/usr/bin/ffmpeg" || paths.FFprobe != "/usr/bin/ffprobe" {
		t.Errorf("unexpected paths: %+v", paths)
	}
}

func TestResolveErrors(t *testing.T) {
	missing := func(string) (string, error) { return "", errors.New("not on PATH") }

	_, err := resolve(func(string) string { return "" }, missing)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	env := func(k string) string {
		if k == ffmpegPathEnv {
			return filepath.Join(t.TempDir(), "absent")
		}
		return ""
	}
	_, err = resolve(env, missing)
	if err == nil || !strings.Contains(err.Error(), ffmpegPathEnv) {
		t.Errorf("expected error naming %s, got %v", ffmpegPathEnv, err)
	}
}
