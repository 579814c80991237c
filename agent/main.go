// printinfo reads identity, counters and supply levels from a network
// printer over SNMP v2c.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"printinfo/agent/discover"
	"printinfo/agent/printer"
	"printinfo/agent/transport"
	"printinfo/common/config"
	"printinfo/common/logger"
)

// Version information (set at build time via -ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cliFlags struct {
	configPath    string
	host          string
	community     string
	transportKind string
	layout        string
	timeout       time.Duration
	asJSON        bool
	discover      bool
	discoverWait  time.Duration
	writeConfig   string
	traceTags     string
	showVersion   bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, map[string]bool, error) {
	fs := flag.NewFlagSet("printinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &cliFlags{}
	fs.StringVar(&f.configPath, "config", "", "Configuration file path (default: search standard locations)")
	fs.StringVar(&f.host, "host", "", "Printer host name or IPv4 address")
	fs.StringVar(&f.community, "community", "", "SNMP v2c community")
	fs.StringVar(&f.transportKind, "transport", "", "SNMP transport: gosnmp or exec")
	fs.StringVar(&f.layout, "layout", "", "Sub-unit walk layout: standard or legacy")
	fs.DurationVar(&f.timeout, "timeout", 0, "Per-query timeout (e.g. 2s)")
	fs.BoolVar(&f.asJSON, "json", false, "Print the report as JSON")
	fs.BoolVar(&f.discover, "discover", false, "List printers advertised over mDNS and exit")
	fs.DurationVar(&f.discoverWait, "discover-timeout", discover.DefaultTimeout, "How long to listen for mDNS advertisements")
	fs.StringVar(&f.writeConfig, "write-config", "", "Write a default config file to this path and exit")
	fs.StringVar(&f.traceTags, "trace", "", "Comma-separated trace tags to log at TRACE level (e.g. mdns)")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set, nil
}

// loadConfig resolves configuration from an explicit path, the standard
// search locations, or defaults, then applies flag overrides.
func loadConfig(f *cliFlags, set map[string]bool) (*AgentConfig, string, error) {
	var (
		cfg  *AgentConfig
		path string
		err  error
	)
	switch {
	case f.configPath != "":
		path = f.configPath
		if cfg, err = LoadAgentConfig(path); err != nil {
			return nil, path, err
		}
	default:
		if found, _, findErr := config.FindConfigFile("config.toml", "agent"); findErr == nil {
			path = found
			if cfg, err = LoadAgentConfig(path); err != nil {
				return nil, path, err
			}
		} else {
			cfg = DefaultAgentConfig()
			ApplyEnvOverrides(cfg)
		}
	}

	if set["host"] {
		cfg.Printer.Host = f.host
	}
	if set["community"] {
		cfg.Printer.Community = f.community
	}
	if set["transport"] {
		cfg.SNMP.Transport = strings.ToLower(f.transportKind)
	}
	if set["layout"] {
		cfg.SubUnits.Layout = f.layout
	}
	if set["timeout"] {
		cfg.SNMP.TimeoutMs = int(f.timeout / time.Millisecond)
	}
	return cfg, path, nil
}

func newLogger(cfg config.LoggingConfig, traceTags string, stderr io.Writer) *logger.Logger {
	log := logger.New(logger.LevelFromString(cfg.Level), cfg.Dir)
	log.SetConsoleOutput(stderr)
	log.SetRotationPolicy(logger.RotationPolicy{
		Enabled:   cfg.MaxSizeMB > 0,
		MaxSizeMB: cfg.MaxSizeMB,
		MaxFiles:  cfg.MaxFiles,
	})

	var tags []string
	for _, tag := range strings.Split(traceTags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) > 0 {
		if log.GetLevel() < logger.TRACE {
			log.SetLevel(logger.TRACE)
		}
		for _, tag := range tags {
			log.EnableTraceTag(tag)
		}
	}
	return log
}

func run(args []string, stdout, stderr io.Writer) int {
	f, set, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	if f.showVersion {
		fmt.Fprintf(stdout, "printinfo %s\n", Version)
		fmt.Fprintf(stdout, "Build Time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "Git Commit: %s\n", GitCommit)
		fmt.Fprintf(stdout, "Go Version: %s\n", runtime.Version())
		return 0
	}

	if f.writeConfig != "" {
		if err := WriteDefaultAgentConfig(f.writeConfig); err != nil {
			fmt.Fprintf(stderr, "Failed to write config: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote default configuration to %s\n", f.writeConfig)
		return 0
	}

	cfg, path, err := loadConfig(f, set)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config %s: %v\n", path, err)
		return 1
	}

	log := newLogger(cfg.Logging, f.traceTags, stderr)
	defer log.Close()
	if path != "" {
		log.Debug("Loaded configuration", "path", path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if f.discover {
		discover.SetLogger(log)
		return runDiscover(ctx, f, stdout, stderr)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	layout, _ := printer.ParseLayout(cfg.SubUnits.Layout)
	tr, err := transport.New(cfg.SNMP.Transport, cfg.TransportConfig(), log)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	p := printer.NewWithOptions(cfg.Printer.Host, cfg.Printer.Community, printer.Options{
		Transport: tr,
		Logger:    log,
		Layout:    layout,
	})
	log.Info("Querying printer", "host", cfg.Printer.Host, "transport", cfg.SNMP.Transport, "layout", cfg.SubUnits.Layout)
	report := p.Collect(ctx)

	if f.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "Failed to encode report: %v\n", err)
			return 1
		}
		return 0
	}
	writeReport(stdout, report)
	return 0
}

func runDiscover(ctx context.Context, f *cliFlags, stdout, stderr io.Writer) int {
	printers, err := discover.Browse(ctx, f.discoverWait)
	if err != nil {
		fmt.Fprintf(stderr, "Discovery failed: %v\n", err)
		return 1
	}
	if f.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(printers); err != nil {
			fmt.Fprintf(stderr, "Failed to encode printers: %v\n", err)
			return 1
		}
		return 0
	}
	writePrinters(stdout, printers)
	return 0
}

func writeReport(w io.Writer, r *printer.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Host:\t%s\n", r.Host)
	fmt.Fprintf(tw, "Type:\t%s\n", r.Type)
	fmt.Fprintf(tw, "Factory ID:\t%s\n", r.FactoryID)
	fmt.Fprintf(tw, "Vendor:\t%s\n", r.Vendor)
	fmt.Fprintf(tw, "Serial number:\t%s\n", r.SerialNumber)
	fmt.Fprintf(tw, "Printed pages:\t%d\n", r.PrintedPages)
	if r.BlackLevel != nil {
		fmt.Fprintf(tw, "Black level:\t%s\n", r.BlackLevel)
	} else {
		fmt.Fprintf(tw, "Black level:\t-\n")
	}
	if r.BlackCartridge != "" {
		fmt.Fprintf(tw, "Black cartridge:\t%s\n", r.BlackCartridge)
	}
	_ = tw.Flush()

	if len(r.SubUnits) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SUB-UNIT\tKIND\tMAX\tLEVEL\tPERCENT")
		for _, su := range r.SubUnits {
			pct := "-"
			if su.Percentage != nil {
				pct = fmt.Sprintf("%.1f%%", *su.Percentage)
			}
			kind := string(su.Kind)
			if kind == "" {
				kind = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", su.Name, kind, su.MaxValue, su.ActualValue, pct)
		}
		_ = tw.Flush()
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors:")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
}

func writePrinters(w io.Writer, printers []discover.Printer) {
	if len(printers) == 0 {
		fmt.Fprintln(w, "No printers found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IPV4\tHOST\tSERVICE\tINSTANCE")
	for _, p := range printers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.IPv4, p.Host, p.Service, p.Instance)
	}
	_ = tw.Flush()
}
