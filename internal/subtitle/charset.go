package subtitle

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts raw file contents to a UTF-8 string. A byte order mark
// always wins; otherwise the bytes are decoded with the named encoding
// (WHATWG labels such as "windows-1252" or "shift_jis"). An empty name means
// UTF-8.
func DecodeText(raw []byte, name string) (string, error) {
	fallback, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}

	decoder := unicode.BOMOverride(fallback.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode subtitle text as %s: %w", name, err)
	}
	return string(out), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported text encoding %q: %w", name, err)
	}
	return enc, nil
}
