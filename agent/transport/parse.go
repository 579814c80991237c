package transport

import (
	"encoding/hex"
	"strings"

	"printinfo/agent/util"
)

// noSuchMarkers are the texts net-snmp prints in place of a value when the
// agent has nothing at the requested OID.
var noSuchMarkers = []string{
	"No Such Object",
	"No Such Instance",
	"No more variables left",
	"End of MIB",
}

// ScalarValue extracts the value of a single-OID response: the substring after
// the last ':' of the first non-blank line, trimmed. A line without ':' is
// returned whole, trimmed. ok is false when out holds no line at all.
//
//	SNMPv2-SMI::mib-2.43.10.2.1.4.1.1 = Counter32: 48213  ->  "48213"
func ScalarValue(out string) (value string, ok bool) {
	for _, line := range SplitLines(out) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return lastField(line), true
	}
	return "", false
}

func lastField(line string) string {
	if i := strings.LastIndex(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line)
}

// ParseLine splits one net-snmp response line of the form
// "OID = TYPE: value" into its parts. Values keep any ':' they contain, which
// makes it the right choice for labels. Lines without " = " fall back to the
// last-':' rule and report no OID or type.
func ParseLine(line string) (oid, typ, value string) {
	line = strings.TrimRight(line, "\r\n")
	i := strings.Index(line, " = ")
	if i < 0 {
		return "", "", lastField(line)
	}
	oid = strings.TrimSpace(line[:i])
	rest := line[i+3:]
	if j := strings.Index(rest, ": "); j > 0 && isTypeTag(rest[:j]) {
		return oid, rest[:j], strings.TrimSpace(rest[j+2:])
	}
	return oid, "", strings.TrimSpace(rest)
}

// isTypeTag reports whether s looks like a net-snmp type prefix such as
// STRING, INTEGER, Counter32 or Hex-STRING.
func isTypeTag(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}

// SplitLines splits tool output on newlines, drops carriage returns and
// removes trailing blank lines. Leading and inner content is untouched.
func SplitLines(out string) []string {
	if out == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinContinuations folds lines that net-snmp wrapped onto the record they
// belong to, so each element of the result is one "OID = TYPE: value" record.
// Long Hex-STRING values are the usual case:
//
//	.1.3.6.1.2.1.43.11.1.1.6.1.1 = Hex-STRING: 42 6C 61 63 6B 20 54 6F 6E 65
//	72 00
func JoinContinuations(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(out) == 0 || isRecordStart(line) {
			out = append(out, line)
			continue
		}
		if cont := strings.TrimSpace(line); cont != "" {
			out[len(out)-1] = strings.TrimRight(out[len(out)-1], " ") + " " + cont
		}
	}
	return out
}

// isRecordStart reports whether line begins a new response record: an OID
// (numeric, or MIB-qualified like SNMPv2-SMI::mib-2.43...) followed by " = ".
func isRecordStart(line string) bool {
	i := strings.Index(line, " = ")
	if i <= 0 {
		return false
	}
	head := line[:i]
	if strings.ContainsAny(head, " \t") {
		return false
	}
	c := head[0]
	return c == '.' || (c >= '0' && c <= '9') || strings.Contains(head, "::") || strings.HasPrefix(head, "iso")
}

// DecodeHexValue turns a net-snmp Hex-STRING value ("42 6C 61 00") into
// text. ok is false when value is not a sequence of hex byte pairs.
func DecodeHexValue(value string) (string, bool) {
	raw, err := hex.DecodeString(strings.Join(strings.Fields(value), ""))
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return util.DecodeOctetString(raw), true
}

// isNoSuch reports whether a response line carries one of net-snmp's
// missing-value texts instead of a value.
func isNoSuch(line string) bool {
	for _, m := range noSuchMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}
