package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"printinfo/agent/printer"
	"printinfo/agent/transport"
	"printinfo/common/config"
)

// AgentConfig represents the printinfo configuration
type AgentConfig struct {
	Printer  PrinterConfig        `toml:"printer"`
	SNMP     SNMPConfig           `toml:"snmp"`
	SubUnits SubUnitsConfig       `toml:"sub_units"`
	Logging  config.LoggingConfig `toml:"logging"`
}

// PrinterConfig identifies the device to query
type PrinterConfig struct {
	Host      string `toml:"host"`
	Community string `toml:"community"`
	Port      int    `toml:"port"`
}

// SNMPConfig holds SNMP client settings
type SNMPConfig struct {
	// Transport is "gosnmp" (native client) or "exec" (net-snmp tools).
	Transport    string `toml:"transport"`
	TimeoutMs    int    `toml:"timeout_ms"`
	Retries      int    `toml:"retries"`
	SnmpGetPath  string `toml:"snmpget_path"`
	SnmpWalkPath string `toml:"snmpwalk_path"`
}

// SubUnitsConfig selects the OIDs walked for the supplies table
type SubUnitsConfig struct {
	Layout string `toml:"layout"`
}

// DefaultAgentConfig returns configuration with sensible defaults
func DefaultAgentConfig() *AgentConfig {
	return &AgentConfig{
		Printer: PrinterConfig{
			Community: "public",
			Port:      transport.DefaultPort,
		},
		SNMP: SNMPConfig{
			Transport:    transport.KindGoSNMP,
			TimeoutMs:    2000,
			Retries:      1,
			SnmpGetPath:  "snmpget",
			SnmpWalkPath: "snmpwalk",
		},
		SubUnits: SubUnitsConfig{Layout: "standard"},
		Logging: config.LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// LoadAgentConfig loads configuration from a TOML file and applies
// environment variable overrides. The file must exist.
func LoadAgentConfig(configPath string) (*AgentConfig, error) {
	cfg := DefaultAgentConfig()

	if err := config.LoadTOML(configPath, cfg); err != nil {
		return nil, err
	}
	ApplyEnvOverrides(cfg)
	return cfg, nil
}

// ApplyEnvOverrides applies PRINTINFO_HOST, SNMP_COMMUNITY, SNMP_TRANSPORT,
// SNMP_TIMEOUT_MS, SNMP_RETRIES and the shared logging variables.
func ApplyEnvOverrides(cfg *AgentConfig) {
	if val := os.Getenv("PRINTINFO_HOST"); val != "" {
		cfg.Printer.Host = val
	}
	if val := os.Getenv("SNMP_COMMUNITY"); val != "" {
		cfg.Printer.Community = val
	}
	if val := os.Getenv("SNMP_TRANSPORT"); val != "" {
		cfg.SNMP.Transport = strings.ToLower(val)
	}
	if val := os.Getenv("SNMP_TIMEOUT_MS"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil {
			cfg.SNMP.TimeoutMs = timeout
		}
	}
	if val := os.Getenv("SNMP_RETRIES"); val != "" {
		if retries, err := strconv.Atoi(val); err == nil {
			cfg.SNMP.Retries = retries
		}
	}
	config.ApplyLoggingEnvOverrides(&cfg.Logging)
}

// Validate checks the fields that cannot be fixed up with defaults.
func (c *AgentConfig) Validate() error {
	if strings.TrimSpace(c.Printer.Host) == "" {
		return fmt.Errorf("printer host is required (set -host, PRINTINFO_HOST or [printer] host)")
	}
	if c.Printer.Port < 0 || c.Printer.Port > 65535 {
		return fmt.Errorf("invalid printer port %d", c.Printer.Port)
	}
	switch strings.ToLower(strings.TrimSpace(c.SNMP.Transport)) {
	case "", transport.KindGoSNMP, transport.KindExec:
	default:
		return fmt.Errorf("unknown snmp transport %q", c.SNMP.Transport)
	}
	if _, err := printer.ParseLayout(c.SubUnits.Layout); err != nil {
		return err
	}
	return nil
}

// TransportConfig converts the settings into transport parameters.
func (c *AgentConfig) TransportConfig() transport.Config {
	return transport.Config{
		Host:         c.Printer.Host,
		Community:    c.Printer.Community,
		Port:         uint16(c.Printer.Port),
		Timeout:      time.Duration(c.SNMP.TimeoutMs) * time.Millisecond,
		Retries:      c.SNMP.Retries,
		SnmpGetPath:  c.SNMP.SnmpGetPath,
		SnmpWalkPath: c.SNMP.SnmpWalkPath,
	}
}

// WriteDefaultAgentConfig writes a default configuration file
func WriteDefaultAgentConfig(configPath string) error {
	return config.WriteDefaultTOML(configPath, DefaultAgentConfig())
}
