package printer

import (
	"context"
	"errors"
	"math"
	"testing"

	"printinfo/agent/transport"
	"printinfo/common/snmp/oids"
)

func TestDerivePercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		max     int64
		actual  int64
		want    Level
		wantErr error
	}{
		{"quarter", 200, 50, 25, nil},
		{"full", 100, 100, 100, nil},
		{"fractional", 300, 100, Level(100.0 / 3.0), nil},
		{"genuine zero", 100, 0, 0, nil},
		{"unavailable passes through", 100, -1, SuppliesUnavailable, nil},
		{"unknown passes through", 100, -2, SuppliesUnknown, nil},
		{"some remaining passes through", 100, -3, SuppliesSomeRemaining, nil},
		{"sentinel with zero max", 0, -3, SuppliesSomeRemaining, nil},
		{"over capacity capped", 100, 150, 100, nil},
		{"division by zero", 0, 10, 0, ErrDivisionByZero},
		{"negative max", -2, 10, 0, ErrInvalidCapacity},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := DerivePercentage(tc.max, tc.actual)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v, want %v", err, tc.wantErr)
				}
				var de *DerivationError
				if !errors.As(err, &de) || de.Max != tc.max || de.Actual != tc.actual {
					t.Errorf("expected *DerivationError with inputs, got %#v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(float64(got-tc.want)) > 1e-9 {
				t.Errorf("DerivePercentage(%d, %d) = %v, want %v", tc.max, tc.actual, got, tc.want)
			}
			if math.IsInf(float64(got), 0) || math.IsNaN(float64(got)) {
				t.Errorf("non-finite level %v", got)
			}
		})
	}
}

func TestLevelSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level    Level
		sentinel bool
		str      string
	}{
		{SuppliesUnavailable, true, "unavailable"},
		{SuppliesUnknown, true, "unknown"},
		{SuppliesSomeRemaining, true, "some remaining"},
		{0, false, "0.0%"},
		{42.5, false, "42.5%"},
	}

	for _, tc := range tests {
		if tc.level.IsSentinel() != tc.sentinel {
			t.Errorf("%v.IsSentinel() = %v", float64(tc.level), !tc.sentinel)
		}
		if tc.level.String() != tc.str {
			t.Errorf("%v.String() = %q, want %q", float64(tc.level), tc.level.String(), tc.str)
		}
	}
}

func TestPercentageLevel(t *testing.T) {
	t.Parallel()

	const maxOID, actualOID = "1.3.6.1.2.1.43.11.1.1.8.1.2", "1.3.6.1.2.1.43.11.1.1.9.1.2"

	tests := []struct {
		name    string
		values  map[string]string
		want    Level
		wantErr error
	}{
		{"derived", map[string]string{maxOID: "200", actualOID: "50"}, 25, nil},
		{"sentinel", map[string]string{maxOID: "100", actualOID: "-3"}, SuppliesSomeRemaining, nil},
		{"non-numeric actual coerces to zero", map[string]string{maxOID: "100", actualOID: "n/a"}, 0, nil},
		{"zero max", map[string]string{maxOID: "0", actualOID: "10"}, 0, ErrDivisionByZero},
		{"max query fails", map[string]string{actualOID: "10"}, 0, transport.ErrTransport},
		{"actual query fails", map[string]string{maxOID: "100"}, 0, transport.ErrTransport},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := newTestPrinter(newFake(tc.values, nil))
			got, err := p.PercentageLevel(context.Background(), maxOID, actualOID)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("PercentageLevel = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBlackCartridgeLevelIgnoresPrinterType(t *testing.T) {
	t.Parallel()

	for _, colorant := range []string{"cyan", "black", ""} {
		values := map[string]string{
			oids.PrtMarkerSuppliesMaxCapSlot1: "7500",
			oids.PrtMarkerSuppliesLevelSlot1:  "3000",
		}
		if colorant != "" {
			values[oids.PrtMarkerColorantValueSlot1] = colorant
		}
		f := newFake(values, nil)
		got, err := newTestPrinter(f).BlackCartridgeLevel(context.Background())
		if err != nil {
			t.Fatalf("colorant %q: unexpected error %v", colorant, err)
		}
		if got != 40 {
			t.Errorf("colorant %q: BlackCartridgeLevel = %v, want 40", colorant, got)
		}
		if f.gets[oids.PrtMarkerSuppliesMaxCapSlot1] != 1 || f.gets[oids.PrtMarkerSuppliesLevelSlot1] != 1 {
			t.Errorf("colorant %q: slot-1 OIDs not queried exactly once: %v", colorant, f.gets)
		}
	}
}
