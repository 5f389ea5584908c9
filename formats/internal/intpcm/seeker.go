// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	"bytes"
	"fmt"
	"io"
)

// ReadSeeker returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek. The go-audio decoders need to walk chunk headers.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}
