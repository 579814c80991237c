// Package printer derives printer identity, type and consumable levels from
// SNMP reads. Every accessor re-queries the device; nothing is cached, so a
// PrinterInfo is safe for concurrent use whenever its transport is.
package printer

import (
	"context"
	"strings"

	"printinfo/agent/transport"
	"printinfo/agent/util"
	"printinfo/common/snmp/oids"
)

// PrinterType is the colour classification of a device.
type PrinterType int

const (
	Unknown PrinterType = iota
	Mono
	Color
)

func (t PrinterType) String() string {
	switch t {
	case Mono:
		return "mono printer"
	case Color:
		return "color printer"
	default:
		return "unknown"
	}
}

// MarshalText renders the type by name in JSON reports.
func (t PrinterType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// cyanColorant is the colorant name a colour device reports on slot 1.
const cyanColorant = "cyan"

// Logger is the subset of the structured logger used by this package.
type Logger interface {
	Error(msg string, context ...interface{})
	Warn(msg string, context ...interface{})
	Info(msg string, context ...interface{})
	Debug(msg string, context ...interface{})
}

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// Options customises a PrinterInfo. The zero value queries the device with the
// gosnmp transport and the standard sub-unit layout.
type Options struct {
	// Transport overrides the default gosnmp transport built from host and
	// community.
	Transport transport.Transport
	Logger    Logger
	Layout    WalkLayout
}

// PrinterInfo queries one printer. It holds only its construction parameters.
type PrinterInfo struct {
	host   string
	tr     transport.Transport
	log    Logger
	layout WalkLayout
}

// New returns a PrinterInfo for host using the read community. Neither value is
// validated; a bad host or community surfaces as query failures.
func New(host, community string) *PrinterInfo {
	return NewWithOptions(host, community, Options{})
}

// NewWithOptions is New with an explicit transport, logger or walk layout.
func NewWithOptions(host, community string, opts Options) *PrinterInfo {
	p := &PrinterInfo{
		host:   host,
		tr:     opts.Transport,
		log:    opts.Logger,
		layout: opts.Layout,
	}
	if p.log == nil {
		p.log = nopLogger{}
	}
	if p.tr == nil {
		p.tr = transport.NewSNMP(transport.Config{Host: host, Community: community}, p.log)
	}
	if p.layout == (WalkLayout{}) {
		p.layout = LayoutStandard
	}
	return p
}

// Classify reads the slot-1 colorant. A device whose first colorant is cyan
// is a colour printer; any other readable value means mono. When the read
// fails the type is Unknown and the transport error is returned alongside.
func (p *PrinterInfo) Classify(ctx context.Context) (PrinterType, error) {
	value, err := p.tr.Get(ctx, oids.PrtMarkerColorantValueSlot1)
	if err != nil {
		return Unknown, err
	}
	return classifyColorant(value), nil
}

func classifyColorant(value string) PrinterType {
	if strings.EqualFold(util.StripQuotes(value), cyanColorant) {
		return Color
	}
	return Mono
}

// IsColor reports whether Classify returns Color.
func (p *PrinterInfo) IsColor(ctx context.Context) bool {
	t, _ := p.Classify(ctx)
	return t == Color
}

// IsMono reports whether Classify returns Mono.
func (p *PrinterInfo) IsMono(ctx context.Context) bool {
	t, _ := p.Classify(ctx)
	return t == Mono
}

// FactoryID returns the system description, which printers fill with the
// factory/model identifier.
func (p *PrinterInfo) FactoryID(ctx context.Context) (string, error) {
	return p.tr.Get(ctx, oids.SysDescr)
}

func (p *PrinterInfo) VendorName(ctx context.Context) (string, error) {
	return p.tr.Get(ctx, oids.PrtOutputVendorNameSlot1)
}

func (p *PrinterInfo) SerialNumber(ctx context.Context) (string, error) {
	return p.tr.Get(ctx, oids.PrtGeneralSerialNumber)
}

// PrintedPages returns the marker life count. A failed read or a non-numeric
// value yields 0.
func (p *PrinterInfo) PrintedPages(ctx context.Context) int64 {
	value, err := p.tr.Get(ctx, oids.PrtMarkerLifeCountSlot1)
	if err != nil {
		p.log.Debug("Page counter unreadable, reporting 0", "host", p.host, "error", err)
		return 0
	}
	return util.LeadingInt(value)
}

// BlackCartridgeType returns the raw slot-1 value that identifies the black
// cartridge: the colorant name on colour devices and the max-capacity reading
// on mono devices. It fails with the classification error when the type is
// unknown.
func (p *PrinterInfo) BlackCartridgeType(ctx context.Context) (string, error) {
	typ, err := p.Classify(ctx)
	if err != nil {
		return "", err
	}
	return p.cartridgeType(ctx, typ)
}

func (p *PrinterInfo) cartridgeType(ctx context.Context, typ PrinterType) (string, error) {
	switch typ {
	case Color:
		return p.tr.Get(ctx, oids.PrtMarkerColorantValueSlot1)
	case Mono:
		return p.tr.Get(ctx, oids.PrtMarkerSuppliesMaxCapSlot1)
	default:
		return "", ErrUnknownType
	}
}
