package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

const (
	ffmpegPathEnv  = "SRTCUE_FFMPEG_PATH"
	ffprobePathEnv = "SRTCUE_FFPROBE_PATH"
)

// ErrNotFound is returned when a binary is neither configured nor on PATH.
var ErrNotFound = errors.New("binary not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	resolveOnce sync.Once
	resolved    BinaryPaths
	resolveErr  error
)

// Resolve locates ffmpeg and ffprobe once per process.
func Resolve() (BinaryPaths, error) {
	resolveOnce.Do(func() {
		resolved, resolveErr = resolve(os.Getenv, exec.LookPath)
	})
	return resolved, resolveErr
}

func FFmpegPath() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func resolve(
	getenv func(string) string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	ffmpegPath, err := locate("ffmpeg", ffmpegPathEnv, getenv, lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := locate("ffprobe", ffprobePathEnv, getenv, lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func locate(
	name, env string,
	getenv func(string) string,
	lookPath func(string) (string, error),
) (string, error) {
	if p := getenv(env); p != "" {
		if !fileExists(p) {
			return "", fmt.Errorf("%s from %s does not exist: %s", name, env, p)
		}
		return p, nil
	}
	p, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf(
			"%s %w: install it or set %s",
			name,
			ErrNotFound,
			env,
		)
	}
	return p, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
