package printer

import (
	"context"
	"fmt"
	"strings"

	"printinfo/agent/supplies"
	"printinfo/agent/transport"
	"printinfo/agent/util"
	"printinfo/common/snmp/oids"
)

// WalkLayout names the three OID roots AllSubUnits walks.
type WalkLayout struct {
	Names  string
	Max    string
	Actual string
}

var (
	// LayoutStandard walks the supplies description, max-capacity and level
	// columns of printer device 1 (hrDeviceIndex 1).
	LayoutStandard = WalkLayout{
		Names:  oids.PrtMarkerSuppliesDescColumn,
		Max:    oids.PrtMarkerSuppliesMaxCapColumn,
		Actual: oids.PrtMarkerSuppliesLevelColumn,
	}
	// LayoutLegacy reproduces the walks of the older deployed collector:
	// names and actual values from max-capacity slot 1, max values from
	// level slot 1.
	LayoutLegacy = WalkLayout{
		Names:  oids.PrtMarkerSuppliesMaxCapSlot1,
		Max:    oids.PrtMarkerSuppliesLevelSlot1,
		Actual: oids.PrtMarkerSuppliesMaxCapSlot1,
	}
)

// ParseLayout maps a configuration value to a WalkLayout. An empty name is
// the standard layout.
func ParseLayout(name string) (WalkLayout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard":
		return LayoutStandard, nil
	case "legacy":
		return LayoutLegacy, nil
	default:
		return WalkLayout{}, fmt.Errorf("unknown sub-unit layout %q (use \"standard\" or \"legacy\")", name)
	}
}

// SubUnit is one consumable row. MaxValue and ActualValue are the raw values
// the device returned; Percentage is nil when it cannot be derived.
type SubUnit struct {
	Name        string        `json:"name"`
	Kind        supplies.Kind `json:"kind,omitempty"`
	MaxValue    string        `json:"max_value"`
	ActualValue string        `json:"actual_value"`
	Percentage  *float64      `json:"percentage"`
}

// AllSubUnits walks the consumable table and zips names, max and actual
// values by position. When the walks disagree on length the rows are
// truncated to the shortest walk and a *LengthMismatchError is returned with
// them. A failed walk returns no rows.
func (p *PrinterInfo) AllSubUnits(ctx context.Context) ([]SubUnit, error) {
	names, err := p.tr.Walk(ctx, p.layout.Names)
	if err != nil {
		return nil, err
	}
	maxes, err := p.tr.Walk(ctx, p.layout.Max)
	if err != nil {
		return nil, err
	}
	actuals, err := p.tr.Walk(ctx, p.layout.Actual)
	if err != nil {
		return nil, err
	}

	n := min(len(names), len(maxes), len(actuals))
	rows := make([]SubUnit, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, buildSubUnit(names[i], maxes[i], actuals[i]))
	}

	if len(names) != len(maxes) || len(names) != len(actuals) {
		mismatch := &LengthMismatchError{Names: len(names), Max: len(maxes), Actual: len(actuals)}
		p.log.Warn("Sub-unit walks disagree, truncating", "host", p.host,
			"names", len(names), "max", len(maxes), "actual", len(actuals))
		return rows, mismatch
	}
	return rows, nil
}

func buildSubUnit(nameLine, maxLine, actualLine string) SubUnit {
	_, nameType, name := transport.ParseLine(nameLine)
	if strings.EqualFold(nameType, "Hex-STRING") {
		if decoded, ok := transport.DecodeHexValue(name); ok {
			name = decoded
		}
	}
	_, _, maxValue := transport.ParseLine(maxLine)
	_, _, actualValue := transport.ParseLine(actualLine)

	row := SubUnit{
		Name:        util.StripQuotes(name),
		MaxValue:    maxValue,
		ActualValue: actualValue,
	}
	row.Kind = supplies.NormalizeDescription(row.Name)

	maxCap := util.LeadingInt(maxValue)
	actual := util.LeadingInt(actualValue)
	if actual >= 0 && maxCap > 0 {
		pct := float64(actual) / (float64(maxCap) / 100)
		if pct > 100 {
			pct = 100
		}
		row.Percentage = &pct
	}
	return row
}
