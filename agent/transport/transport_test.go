package transport

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestErrorMatchesErrTransport(t *testing.T) {
	t.Parallel()

	cause := errors.New("request timeout")
	var err error = &Error{Op: "get", OID: "1.3.6.1.2.1.1.1.0", Host: "10.0.0.5", Err: cause}

	if !errors.Is(err, ErrTransport) {
		t.Error("errors.Is(err, ErrTransport) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	for _, part := range []string{"get", "1.3.6.1.2.1.1.1.0", "10.0.0.5", "request timeout"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error %q missing %q", err.Error(), part)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{Host: "printer", Retries: -4}.withDefaults()
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.Retries != 0 {
		t.Errorf("Retries = %d, want 0", cfg.Retries)
	}
	if cfg.SnmpGetPath != "snmpget" || cfg.SnmpWalkPath != "snmpwalk" {
		t.Errorf("tool paths = %q/%q", cfg.SnmpGetPath, cfg.SnmpWalkPath)
	}

	kept := Config{Port: 1161, Timeout: 5 * time.Second, Retries: 2}.withDefaults()
	if kept.Port != 1161 || kept.Timeout != 5*time.Second || kept.Retries != 2 {
		t.Errorf("explicit values overwritten: %+v", kept)
	}
}

func TestNewSelectsKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind    string
		want    string
		wantErr bool
	}{
		{"", "*transport.SNMP", false},
		{"gosnmp", "*transport.SNMP", false},
		{" EXEC ", "*transport.Exec", false},
		{"telnet", "", true},
	}

	for _, tc := range tests {
		tr, err := New(tc.kind, Config{Host: "h"}, nil)
		if tc.wantErr {
			if err == nil {
				t.Errorf("New(%q) expected error", tc.kind)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%q) error: %v", tc.kind, err)
		}
		switch tr.(type) {
		case *SNMP:
			if tc.want != "*transport.SNMP" {
				t.Errorf("New(%q) = *SNMP, want %s", tc.kind, tc.want)
			}
		case *Exec:
			if tc.want != "*transport.Exec" {
				t.Errorf("New(%q) = *Exec, want %s", tc.kind, tc.want)
			}
		}
	}
}

func TestFuncsUnsupported(t *testing.T) {
	t.Parallel()

	var f Funcs
	if _, err := f.Get(context.Background(), "1.3"); !errors.Is(err, ErrUnsupported) || !errors.Is(err, ErrTransport) {
		t.Errorf("Get error = %v", err)
	}
	if _, err := f.Walk(context.Background(), "1.3"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Walk error = %v", err)
	}

	f.GetFunc = func(_ context.Context, oid string) (string, error) { return "v:" + oid, nil }
	if got, err := f.Get(context.Background(), "1.3"); err != nil || got != "v:1.3" {
		t.Errorf("Get = %q, %v", got, err)
	}
}
