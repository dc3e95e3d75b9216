package subtitle

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ReadFunc loads the raw bytes behind path. It decides what a path means,
// so the parser never depends on a particular host environment.
type ReadFunc func(ctx context.Context, path string) ([]byte, error)

// ReadFile reads from the host filesystem.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	return data, nil
}

// ReadFS reads from fsys, e.g. an embed.FS bundled with the binary.
func ReadFS(fsys fs.FS) ReadFunc {
	return func(ctx context.Context, path string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to open SRT file: %w", err)
		}
		return data, nil
	}
}

// Open reads path through read, parses it and wraps the result in a Queue.
func Open(
	ctx context.Context,
	read ReadFunc,
	path string,
	opts ...ParserOption,
) (*Queue, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".srt" {
		return nil, fmt.Errorf("unsupported subtitle format: %s", ext)
	}

	data, err := read(ctx, path)
	if err != nil {
		return nil, err
	}
	text, err := DecodeText(data, "")
	if err != nil {
		return nil, err
	}

	records, err := NewParser(opts...).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return NewQueue(records), nil
}
