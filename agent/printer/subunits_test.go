package printer

import (
	"context"
	"errors"
	"testing"

	"printinfo/agent/supplies"
	"printinfo/agent/transport"
	"printinfo/common/snmp/oids"
)

var (
	nameLines = []string{
		`.1.3.6.1.2.1.43.11.1.1.6.1.1 = STRING: "Black Cartridge HP CF410A"`,
		`.1.3.6.1.2.1.43.11.1.1.6.1.2 = STRING: "Cyan Cartridge HP CF411A"`,
		`.1.3.6.1.2.1.43.11.1.1.6.1.3 = STRING: "Imaging Drum"`,
	}
	maxLines = []string{
		`.1.3.6.1.2.1.43.11.1.1.8.1.1 = INTEGER: 200`,
		`.1.3.6.1.2.1.43.11.1.1.8.1.2 = INTEGER: 100`,
		`.1.3.6.1.2.1.43.11.1.1.8.1.3 = INTEGER: 0`,
	}
	actualLines = []string{
		`.1.3.6.1.2.1.43.11.1.1.9.1.1 = INTEGER: 50`,
		`.1.3.6.1.2.1.43.11.1.1.9.1.2 = INTEGER: -3`,
		`.1.3.6.1.2.1.43.11.1.1.9.1.3 = INTEGER: 10`,
	}
)

func standardWalks(names, maxes, actuals []string) map[string][]string {
	return map[string][]string{
		oids.PrtMarkerSuppliesDescColumn:   names,
		oids.PrtMarkerSuppliesMaxCapColumn: maxes,
		oids.PrtMarkerSuppliesLevelColumn:  actuals,
	}
}

func TestAllSubUnits(t *testing.T) {
	t.Parallel()

	p := newTestPrinter(newFake(nil, standardWalks(nameLines, maxLines, actualLines)))
	rows, err := p.AllSubUnits(context.Background())
	if err != nil {
		t.Fatalf("AllSubUnits error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	want := []struct {
		name    string
		kind    supplies.Kind
		max     string
		actual  string
		percent *float64
	}{
		{"Black Cartridge HP CF410A", supplies.TonerBlack, "200", "50", ptr(25)},
		// negative sentinel: no percentage
		{"Cyan Cartridge HP CF411A", supplies.TonerCyan, "100", "-3", nil},
		// zero max: no percentage instead of a division by zero
		{"Imaging Drum", supplies.DrumLife, "0", "10", nil},
	}

	for i, w := range want {
		got := rows[i]
		if got.Name != w.name || got.Kind != w.kind || got.MaxValue != w.max || got.ActualValue != w.actual {
			t.Errorf("row %d = %+v, want name=%q kind=%q max=%q actual=%q", i, got, w.name, w.kind, w.max, w.actual)
		}
		switch {
		case w.percent == nil && got.Percentage != nil:
			t.Errorf("row %d percentage = %v, want nil", i, *got.Percentage)
		case w.percent != nil && (got.Percentage == nil || *got.Percentage != *w.percent):
			t.Errorf("row %d percentage = %v, want %v", i, got.Percentage, *w.percent)
		}
	}
}

func TestAllSubUnitsLengthMismatch(t *testing.T) {
	t.Parallel()

	p := newTestPrinter(newFake(nil, standardWalks(nameLines, maxLines[:2], actualLines[:2])))
	rows, err := p.AllSubUnits(context.Background())
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("error = %v, want ErrLengthMismatch", err)
	}
	var mismatch *LengthMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error should be *LengthMismatchError, got %T", err)
	}
	if mismatch.Names != 3 || mismatch.Max != 2 || mismatch.Actual != 2 {
		t.Errorf("mismatch counts = %+v", mismatch)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1].Name != "Cyan Cartridge HP CF411A" {
		t.Errorf("row 1 name = %q", rows[1].Name)
	}
}

func TestAllSubUnitsShortestWalkWins(t *testing.T) {
	t.Parallel()

	p := newTestPrinter(newFake(nil, standardWalks(nameLines[:1], maxLines, actualLines[:2])))
	rows, err := p.AllSubUnits(context.Background())
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("error = %v, want ErrLengthMismatch", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
}

func TestAllSubUnitsWalkFailure(t *testing.T) {
	t.Parallel()

	walks := standardWalks(nameLines, maxLines, actualLines)
	delete(walks, oids.PrtMarkerSuppliesLevelColumn)
	rows, err := newTestPrinter(newFake(nil, walks)).AllSubUnits(context.Background())
	if !errors.Is(err, transport.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if rows != nil {
		t.Errorf("rows = %v, want nil", rows)
	}
}

func TestAllSubUnitsEmpty(t *testing.T) {
	t.Parallel()

	rows, err := newTestPrinter(newFake(nil, standardWalks(nil, nil, nil))).AllSubUnits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestAllSubUnitsLegacyLayout(t *testing.T) {
	t.Parallel()

	f := newFake(nil, map[string][]string{
		oids.PrtMarkerSuppliesMaxCapSlot1: {`.1.3.6.1.2.1.43.11.1.1.8.1.1 = INTEGER: 7500`},
		oids.PrtMarkerSuppliesLevelSlot1:  {`.1.3.6.1.2.1.43.11.1.1.9.1.1 = INTEGER: 3000`},
	})
	p := NewWithOptions("192.0.2.10", "public", Options{Transport: f, Layout: LayoutLegacy})
	rows, err := p.AllSubUnits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Name != "7500" || row.MaxValue != "3000" || row.ActualValue != "7500" {
		t.Errorf("legacy row = %+v", row)
	}
	// max and actual come from swapped walks, so the level is capped
	if row.Percentage == nil || *row.Percentage != 100 {
		t.Errorf("legacy percentage = %v, want 100", row.Percentage)
	}
}

func TestAllSubUnitsDecodesHexNames(t *testing.T) {
	t.Parallel()

	names := []string{`.1.3.6.1.2.1.43.11.1.1.6.1.1 = Hex-STRING: 46 75 73 65 72 20 4B 69 74 00`}
	p := newTestPrinter(newFake(nil, standardWalks(names, maxLines[:1], actualLines[:1])))
	rows, err := p.AllSubUnits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Fuser Kit" || rows[0].Kind != supplies.FuserLife {
		t.Errorf("rows = %+v", rows)
	}
}

func TestParseLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    WalkLayout
		wantErr bool
	}{
		{"", LayoutStandard, false},
		{"Standard", LayoutStandard, false},
		{" legacy ", LayoutLegacy, false},
		{"fixed", WalkLayout{}, true},
	}

	for _, tc := range tests {
		got, err := ParseLayout(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLayout(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseLayout(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func ptr(f float64) *float64 { return &f }
