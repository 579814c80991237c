package printer

import (
	"context"
	"fmt"

	"printinfo/agent/util"
	"printinfo/common/snmp/oids"
)

// Level is a consumable reading: a percentage in [0, 100] or one of the
// negative Printer MIB sentinels passed through from the device.
type Level float64

const (
	SuppliesUnavailable   Level = -1
	SuppliesUnknown       Level = -2
	SuppliesSomeRemaining Level = -3
)

// IsSentinel reports whether l is one of the device-state sentinels rather
// than a percentage.
func (l Level) IsSentinel() bool {
	return l == SuppliesUnavailable || l == SuppliesUnknown || l == SuppliesSomeRemaining
}

var sentinelNames = map[Level]string{
	SuppliesUnavailable:   "unavailable",
	SuppliesUnknown:       "unknown",
	SuppliesSomeRemaining: "some remaining",
}

func (l Level) String() string {
	if l.IsSentinel() {
		return sentinelNames[l]
	}
	return fmt.Sprintf("%.1f%%", float64(l))
}

// DerivePercentage turns raw max/actual capacity readings into a Level.
// actual <= 0 is returned unchanged, so sentinels and a genuine zero pass
// through. Otherwise the result is actual / (max / 100), capped at 100.
func DerivePercentage(maxCap, actual int64) (Level, error) {
	if actual <= 0 {
		return Level(actual), nil
	}
	if maxCap == 0 {
		return 0, &DerivationError{Max: maxCap, Actual: actual, Err: ErrDivisionByZero}
	}
	if maxCap < 0 {
		return 0, &DerivationError{Max: maxCap, Actual: actual, Err: ErrInvalidCapacity}
	}
	pct := float64(actual) / (float64(maxCap) / 100)
	if pct > 100 {
		pct = 100
	}
	return Level(pct), nil
}

// PercentageLevel reads a max-capacity and an actual-level OID and derives the
// consumable level. A failed query is returned as is.
func (p *PrinterInfo) PercentageLevel(ctx context.Context, maxOID, actualOID string) (Level, error) {
	rawMax, err := p.tr.Get(ctx, maxOID)
	if err != nil {
		return 0, err
	}
	rawActual, err := p.tr.Get(ctx, actualOID)
	if err != nil {
		return 0, err
	}
	return DerivePercentage(util.LeadingInt(rawMax), util.LeadingInt(rawActual))
}

// BlackCartridgeLevel returns the level of the first marker supply. Colour and
// mono devices are read from the same slot-1 OIDs.
func (p *PrinterInfo) BlackCartridgeLevel(ctx context.Context) (Level, error) {
	if typ, err := p.Classify(ctx); err != nil {
		p.log.Debug("Printer type unknown while reading black level", "host", p.host, "error", err)
	} else {
		p.log.Debug("Reading black level", "host", p.host, "type", typ.String())
	}
	return p.blackLevel(ctx)
}

func (p *PrinterInfo) blackLevel(ctx context.Context) (Level, error) {
	return p.PercentageLevel(ctx, oids.PrtMarkerSuppliesMaxCapSlot1, oids.PrtMarkerSuppliesLevelSlot1)
}
