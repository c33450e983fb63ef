// Package codec converts between base64 envelopes and the JSON they carry.
package codec

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	apperrors "github.com/vmoranv/aolastar/internal/platform/errors"
)

// Kind classifies raw content.
type Kind int

const (
	// KindUnknown is neither JSON nor base64.
	KindUnknown Kind = iota
	// KindJSON is a valid JSON document.
	KindJSON
	// KindBase64 is standard base64 that is not itself JSON.
	KindBase64
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "JSON"
	case KindBase64:
		return "Base64"
	default:
		return "unknown"
	}
}

var prettyOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "  "}

// Detect reports whether content is JSON, base64 or neither. JSON wins when
// content is both.
func Detect(content string) Kind {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return KindUnknown
	}
	if gjson.Valid(trimmed) {
		return KindJSON
	}
	if _, ok := decodeBase64(trimmed); ok {
		return KindBase64
	}
	return KindUnknown
}

// Decode turns base64 content into two-space indented JSON. Non-ASCII text
// is kept as is.
func Decode(content string) (string, error) {
	raw, ok := decodeBase64(content)
	if !ok {
		return "", invalidInput("decode base64", KindBase64)
	}
	if !utf8.Valid(raw) || !gjson.ValidBytes(raw) {
		return "", invalidInput("decoded content is not json", KindJSON)
	}
	return strings.TrimRight(string(pretty.PrettyOptions(raw, prettyOptions)), "\n"), nil
}

// Encode compacts JSON content and returns it as standard base64.
func Encode(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || !gjson.Valid(trimmed) {
		return "", invalidInput("encode json", KindJSON)
	}
	return base64.StdEncoding.EncodeToString(pretty.Ugly([]byte(trimmed))), nil
}

// decodeBase64 accepts padded or unpadded standard base64 with embedded
// whitespace.
func decodeBase64(content string) ([]byte, bool) {
	compact := strings.Join(strings.Fields(content), "")
	if compact == "" {
		return nil, false
	}
	if raw, err := base64.StdEncoding.DecodeString(compact); err == nil {
		return raw, true
	}
	if raw, err := base64.RawStdEncoding.DecodeString(compact); err == nil {
		return raw, true
	}
	return nil, false
}

func invalidInput(message string, expected Kind) error {
	return apperrors.WithMetadata(
		apperrors.CodeCodecInvalidInput,
		message,
		map[string]string{apperrors.MetadataExpected: expected.String()},
	)
}
