// snmpwalk dumps the raw responses printinfo reads from a printer, one scalar
// get per known OID and one walk per supplies column, so they can be kept as
// test fixtures or attached to bug reports.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"printinfo/agent/transport"
	"printinfo/common/snmp/oids"
)

// Entry is one query and what the device answered.
type Entry struct {
	OID   string   `json:"oid"`
	Op    string   `json:"op"`
	Value string   `json:"value,omitempty"`
	Lines []string `json:"lines,omitempty"`
	Error string   `json:"error,omitempty"`
}

// DumpResult contains everything read from one device.
type DumpResult struct {
	Target    string    `json:"target"`
	Transport string    `json:"transport"`
	Timestamp time.Time `json:"timestamp"`
	Entries   []Entry   `json:"entries"`
}

func dump(ctx context.Context, tr transport.Transport) []Entry {
	var entries []Entry
	for _, oid := range oids.Scalars() {
		e := Entry{OID: oid, Op: "get"}
		if v, err := tr.Get(ctx, oid); err != nil {
			e.Error = err.Error()
		} else {
			e.Value = v
		}
		entries = append(entries, e)
	}
	for _, col := range oids.Columns() {
		e := Entry{OID: col, Op: "walk"}
		if lines, err := tr.Walk(ctx, col); err != nil {
			e.Error = err.Error()
		} else {
			e.Lines = lines
		}
		entries = append(entries, e)
	}
	return entries
}

func writeText(w io.Writer, entries []Entry) {
	for _, e := range entries {
		switch {
		case e.Error != "":
			fmt.Fprintf(w, "# %s %s: %s\n", e.Op, e.OID, e.Error)
		case e.Op == "get":
			fmt.Fprintf(w, "%s = %s\n", e.OID, e.Value)
		default:
			for _, l := range e.Lines {
				fmt.Fprintln(w, l)
			}
		}
	}
}

func main() {
	target := flag.String("target", "", "Target IP address (required)")
	community := flag.String("community", "public", "SNMP community string")
	port := flag.Uint("port", 161, "SNMP port")
	timeout := flag.Duration("timeout", 5*time.Second, "SNMP timeout")
	retries := flag.Int("retries", 2, "Number of retries")
	kind := flag.String("transport", transport.KindGoSNMP, "Transport: gosnmp or exec")
	asJSON := flag.Bool("json", false, "Output JSON instead of net-snmp style lines")
	output := flag.String("output", "", "Output file (default: stdout)")
	flag.Parse()

	if *target == "" {
		fmt.Fprintf(os.Stderr, "Error: -target is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	tr, err := transport.New(*kind, transport.Config{
		Host:      *target,
		Community: *community,
		Port:      uint16(*port),
		Timeout:   *timeout,
		Retries:   *retries,
	}, nil)
	if err != nil {
		log.Fatalf("Invalid transport: %v", err)
	}

	result := DumpResult{
		Target:    *target,
		Transport: *kind,
		Timestamp: time.Now(),
		Entries:   dump(context.Background(), tr),
	}

	out := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("Failed to marshal JSON: %v", err)
		}
		return
	}
	writeText(out, result.Entries)
}
