package util

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeOctetString attempts to convert raw octet string bytes into a
// human-friendly UTF-8 string. It tries UTF-8 first, then falls back to a
// single-byte ISO-8859-1 style decoding (direct byte->rune mapping). It also
// strips common non-printable control characters and trims whitespace.
func DecodeOctetString(b []byte) string {
	if b == nil {
		return ""
	}
	if utf8.Valid(b) {
		return sanitizeString(string(b))
	}
	// Fallback: map bytes to runes (ISO-8859-1 / Windows-1252 best-effort)
	runes := make([]rune, 0, len(b))
	for _, by := range b {
		runes = append(runes, rune(by))
	}
	return sanitizeString(string(runes))
}

// sanitizeString removes C0 control characters (except tab, newline and
// carriage return) and trims surrounding whitespace.
func sanitizeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// CoerceToInt attempts to convert a variety of SNMP-returned value types to
// an integer. It supports numeric types, decimal strings, hex-prefixed strings
// (0x...), and byte-slices containing textual numbers. Returns (value, ok).
func CoerceToInt(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), true
	case string:
		return parseStringInt(t)
	case []byte:
		return parseStringInt(string(t))
	}
	return 0, false
}

func parseStringInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i, true
		}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	return 0, false
}

// LeadingInt converts s to an integer the lossy way raw tool output is
// usually read: surrounding whitespace and quotes are ignored, an optional
// sign and the leading run of decimal digits are used, and anything else
// yields 0. "42 pages" is 42, "abc" and "" are 0.
func LeadingInt(s string) int64 {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// StripQuotes removes every double quote character from s and trims the
// remaining whitespace. net-snmp renders OCTET STRING values quoted.
func StripQuotes(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}
