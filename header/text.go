// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"bytes"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ErrNotText is returned for files whose content is not UTF-8 text. Content
// with a NUL byte counts as binary even though it is valid UTF-8.
var ErrNotText = errors.New("not a text file")

// decodeText returns b as a string if it looks like UTF-8 text.
func decodeText(b []byte) (string, error) {
	if !utf8.Valid(b) || bytes.IndexByte(b, 0) >= 0 {
		return "", ErrNotText
	}
	return string(b), nil
}
