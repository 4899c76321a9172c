package wire

import (
	"bufio"
	"bytes"
	"io"

	"tunelib/internal/textutil"
)

// Marshal renders v in compact form.
func Marshal(v Value) []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	writeValue(w, v)
	_ = w.Flush()
	return buf.Bytes()
}

// Write renders v in compact form to w.
func Write(w io.Writer, v Value) error {
	bw := bufio.NewWriter(w)
	writeValue(bw, v)
	return bw.Flush()
}

func writeValue(w *bufio.Writer, v Value) {
	switch v.Kind {
	case KindString:
		writeString(w, v.Text)
	case KindBare:
		_, _ = w.WriteString(v.Text)
	case KindArray:
		_ = w.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				_ = w.WriteByte(',')
			}
			writeValue(w, item)
		}
		_ = w.WriteByte(']')
	case KindObject:
		_ = w.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				_ = w.WriteByte(',')
			}
			writeString(w, m.Key)
			_ = w.WriteByte(':')
			writeValue(w, m.Value)
		}
		_ = w.WriteByte('}')
	default:
		_, _ = w.WriteString("null")
	}
}

// writeString quotes s, escaping only the quote and the backslash. Invalid
// UTF-8 is converted first so the output always lexes.
func writeString(w *bufio.Writer, s string) {
	s = textutil.ValidUTF8(s)
	_ = w.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			_ = w.WriteByte('\\')
		}
		_ = w.WriteByte(c)
	}
	_ = w.WriteByte('"')
}
