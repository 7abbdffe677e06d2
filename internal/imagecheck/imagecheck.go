// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imagecheck decides whether a catalog field carries an inline image.
//
// A field qualifies when it is a base64 PNG data URI whose payload is
// recognized by one of the registered image decoders. Only the image header
// is inspected; pixels are never decoded.
package imagecheck

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DataURIPrefix is the leading string of an inline base64 PNG.
const DataURIPrefix = "data:image/png;base64,"

// IsValidImage reports whether v is a string holding a decodable image data
// URI. Any other value, including non-string types, yields false.
func IsValidImage(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return IsValidImageString(s)
}

// IsValidImageString is IsValidImage for a value already known to be text.
// Whitespace inside the base64 payload, such as line wrapping, is ignored.
// Base64 and decoder failures, including decoder panics, yield false.
func IsValidImageString(s string) (ok bool) {
	payload, found := strings.CutPrefix(s, DataURIPrefix)
	if !found {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(stripSpace(payload))
	if err != nil {
		return false
	}

	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_, _, err = image.DecodeConfig(bytes.NewReader(raw))
	return err == nil
}

// stripSpace drops ASCII whitespace from s, returning s unchanged when it
// has none.
func stripSpace(s string) string {
	if strings.IndexAny(s, " \t\r\n\f\v") < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			return -1
		}
		return r
	}, s)
}
