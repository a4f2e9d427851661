package runner

import (
	"strings"
	"unicode/utf8"
)

// tailBuffer keeps only the last limit bytes written to it.
type tailBuffer struct {
	limit     int
	buf       []byte
	truncated bool
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n >= t.limit {
		if n > t.limit || len(t.buf) > 0 {
			t.truncated = true
		}
		t.buf = append(t.buf[:0], p[n-t.limit:]...)
		return n, nil
	}
	if over := len(t.buf) + n - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
		t.truncated = true
	}
	t.buf = append(t.buf, p...)
	return n, nil
}

// String returns the captured text. A cut never leaves half a character
// at the start, and invalid UTF-8 is replaced so it can go into JSON.
func (t *tailBuffer) String() string {
	if !t.truncated {
		return strings.ToValidUTF8(string(t.buf), "\uFFFD")
	}

	b := t.buf
	for i := 0; i < utf8.UTFMax && len(b) > 0 && !utf8.RuneStart(b[0]); i++ {
		b = b[1:]
	}
	return "[...truncated...]\n" + strings.ToValidUTF8(string(b), "\uFFFD")
}
