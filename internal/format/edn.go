package format

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes an EDN rendering of v. Object keys that are safe keywords become
// kebab-case keywords (:selectedTopics -> :selected-topics); anything else (answer
// props such as "0" or "needs review") stays a string key.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	e := ednWriter{pretty: pretty}
	e.value(x, 0)
	e.buf.WriteByte('\n')
	_, err = w.Write(e.buf.Bytes())
	return err
}

type ednWriter struct {
	buf    bytes.Buffer
	pretty bool
}

func (e *ednWriter) sep(level int, last bool) {
	switch {
	case last && e.pretty:
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", level))
	case last:
	case e.pretty:
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", level+1))
	default:
		e.buf.WriteByte(' ')
	}
}

func (e *ednWriter) value(v any, level int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case json.Number:
		e.buf.WriteString(t.String())
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case []any:
		e.buf.WriteByte('[')
		if len(t) > 0 && e.pretty {
			e.sep(level, false)
		}
		for i, it := range t {
			e.value(it, level+1)
			e.sep(level, i == len(t)-1)
		}
		e.buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.buf.WriteByte('{')
		if len(keys) > 0 && e.pretty {
			e.sep(level, false)
		}
		for i, k := range keys {
			e.key(k)
			e.buf.WriteByte(' ')
			e.value(t[k], level+1)
			e.sep(level, i == len(keys)-1)
		}
		e.buf.WriteByte('}')
	default:
		e.buf.WriteString(strconv.Quote(""))
	}
}

func (e *ednWriter) key(k string) {
	if kw, ok := keyword(k); ok {
		e.buf.WriteByte(':')
		e.buf.WriteString(kw)
		return
	}
	e.buf.WriteString(strconv.Quote(k))
}

// keyword converts a camelCase json key into a kebab-case keyword.
func keyword(k string) (string, bool) {
	if k == "" {
		return "", false
	}
	var b strings.Builder
	for i, r := range k {
		switch {
		case i == 0 && !unicode.IsLetter(r) && r != '_':
			return "", false
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '?' || r == '!':
			b.WriteRune(r)
		default:
			return "", false
		}
	}
	return b.String(), true
}
