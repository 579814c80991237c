package printer

import (
	"context"
	"time"
)

// Report is a one-shot snapshot of everything PrinterInfo can read. Failed
// reads leave their field empty and add a line to Errors.
type Report struct {
	Host           string      `json:"host"`
	Type           PrinterType `json:"type"`
	FactoryID      string      `json:"factory_id,omitempty"`
	Vendor         string      `json:"vendor,omitempty"`
	SerialNumber   string      `json:"serial_number,omitempty"`
	PrintedPages   int64       `json:"printed_pages"`
	BlackLevel     *Level      `json:"black_level,omitempty"`
	BlackCartridge string      `json:"black_cartridge,omitempty"`
	SubUnits       []SubUnit   `json:"sub_units"`
	Errors         []string    `json:"errors,omitempty"`
	CollectedAt    time.Time   `json:"collected_at"`
}

// Collect runs every accessor once and gathers the results. It never fails;
// a cancelled context simply shows up as errors in the report.
func (p *PrinterInfo) Collect(ctx context.Context) *Report {
	r := &Report{Host: p.host, SubUnits: []SubUnit{}}
	addErr := func(field string, err error) {
		r.Errors = append(r.Errors, field+": "+err.Error())
		p.log.Warn("Printer read failed", "host", p.host, "field", field, "error", err)
	}

	typ, err := p.Classify(ctx)
	r.Type = typ
	if err != nil {
		addErr("type", err)
	}

	if r.FactoryID, err = p.FactoryID(ctx); err != nil {
		addErr("factory_id", err)
	}
	if r.Vendor, err = p.VendorName(ctx); err != nil {
		addErr("vendor", err)
	}
	if r.SerialNumber, err = p.SerialNumber(ctx); err != nil {
		addErr("serial_number", err)
	}
	r.PrintedPages = p.PrintedPages(ctx)

	if level, err := p.blackLevel(ctx); err != nil {
		addErr("black_level", err)
	} else {
		r.BlackLevel = &level
	}
	if typ != Unknown {
		if r.BlackCartridge, err = p.cartridgeType(ctx, typ); err != nil {
			addErr("black_cartridge", err)
		}
	}

	rows, err := p.AllSubUnits(ctx)
	if rows != nil {
		r.SubUnits = rows
	}
	if err != nil {
		addErr("sub_units", err)
	}

	r.CollectedAt = time.Now().UTC()
	p.log.Info("Printer report collected", "host", p.host, "type", typ.String(),
		"sub_units", len(r.SubUnits), "errors", len(r.Errors))
	return r
}
