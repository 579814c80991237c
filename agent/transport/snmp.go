package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"printinfo/agent/util"

	"github.com/gosnmp/gosnmp"
)

// snmpClient abstracts gosnmp so tests can inject canned PDUs.
type snmpClient interface {
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	BulkWalk(rootOid string, walkFn gosnmp.WalkFunc) error
	Close() error
}

// gosnmpClient wraps gosnmp.GoSNMP to implement snmpClient.
type gosnmpClient struct {
	conn *gosnmp.GoSNMP
}

func (c *gosnmpClient) Get(oids []string) (*gosnmp.SnmpPacket, error) {
	return c.conn.Get(oids)
}

func (c *gosnmpClient) BulkWalk(rootOid string, walkFn gosnmp.WalkFunc) error {
	return c.conn.BulkWalk(rootOid, walkFn)
}

func (c *gosnmpClient) Close() error {
	if c.conn != nil && c.conn.Conn != nil {
		return c.conn.Conn.Close()
	}
	return nil
}

// dialGoSNMP opens a v2c session bound to ctx. The session lives for exactly
// one query.
func dialGoSNMP(ctx context.Context, cfg Config) (snmpClient, error) {
	conn := &gosnmp.GoSNMP{
		Context:        ctx,
		Target:         cfg.Host,
		Port:           cfg.Port,
		Community:      cfg.Community,
		Version:        gosnmp.Version2c,
		Timeout:        cfg.Timeout,
		Retries:        cfg.Retries,
		MaxRepetitions: cfg.MaxRepetitions,
	}
	if err := conn.Connect(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Host, err)
	}
	return &gosnmpClient{conn: conn}, nil
}

// SNMP queries the device through the gosnmp library. PDUs are rendered the
// way net-snmp prints them so values match the Exec transport exactly.
type SNMP struct {
	cfg  Config
	log  Logger
	dial func(ctx context.Context, cfg Config) (snmpClient, error)
}

// NewSNMP returns a gosnmp-backed transport. log may be nil.
func NewSNMP(cfg Config, log Logger) *SNMP {
	if log == nil {
		log = nopLogger{}
	}
	return &SNMP{cfg: cfg.withDefaults(), log: log, dial: dialGoSNMP}
}

func (s *SNMP) fail(op, oid string, err error) error {
	s.log.Debug("SNMP query failed", "op", op, "oid", oid, "host", s.cfg.Host, "error", err)
	return &Error{Op: op, OID: oid, Host: s.cfg.Host, Err: err}
}

// Get implements Transport.
func (s *SNMP) Get(ctx context.Context, oid string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", s.fail("get", oid, err)
	}
	client, err := s.dial(ctx, s.cfg)
	if err != nil {
		return "", s.fail("get", oid, err)
	}
	defer client.Close()

	packet, err := client.Get([]string{oid})
	if err != nil {
		return "", s.fail("get", oid, err)
	}
	if packet == nil || len(packet.Variables) == 0 {
		return "", s.fail("get", oid, errors.New("response contained no variables"))
	}
	if packet.Error != gosnmp.NoError {
		return "", s.fail("get", oid, fmt.Errorf("agent error %v", packet.Error))
	}
	pdu := packet.Variables[0]
	if missingValue(pdu.Type) {
		return "", s.fail("get", oid, fmt.Errorf("no value: %v", pdu.Type))
	}
	value, _ := ScalarValue(FormatPDU(pdu))
	s.log.Debug("SNMP get", "oid", oid, "host", s.cfg.Host, "value", value)
	return value, nil
}

// Walk implements Transport using GETBULK. Missing-value PDUs are skipped;
// a walk that returned nothing else fails.
func (s *SNMP) Walk(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.fail("walk", prefix, err)
	}
	client, err := s.dial(ctx, s.cfg)
	if err != nil {
		return nil, s.fail("walk", prefix, err)
	}
	defer client.Close()

	var (
		lines   []string
		missing []gosnmp.Asn1BER
	)
	err = client.BulkWalk(prefix, func(pdu gosnmp.SnmpPDU) error {
		if missingValue(pdu.Type) {
			missing = append(missing, pdu.Type)
			return nil
		}
		lines = append(lines, FormatPDU(pdu))
		return nil
	})
	if err != nil {
		return nil, s.fail("walk", prefix, err)
	}
	// net-snmp reports a root with nothing under it as a single no-such line,
	// which the exec transport treats as a failure.
	if len(lines) == 0 && len(missing) > 0 {
		return nil, s.fail("walk", prefix, fmt.Errorf("no value: %v", missing[0]))
	}
	s.log.Debug("SNMP walk", "oid", prefix, "host", s.cfg.Host, "count", len(lines))
	return lines, nil
}

func missingValue(t gosnmp.Asn1BER) bool {
	switch t {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return true
	}
	return false
}

// FormatPDU renders a PDU as a net-snmp style response line, e.g.
//
//	.1.3.6.1.2.1.43.11.1.1.9.1.1 = INTEGER: 42
//	.1.3.6.1.2.1.43.12.1.1.4.1.1 = STRING: "cyan"
func FormatPDU(pdu gosnmp.SnmpPDU) string {
	name := pdu.Name
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}
	return name + " = " + formatValue(pdu)
}

func formatValue(pdu gosnmp.SnmpPDU) string {
	switch pdu.Type {
	case gosnmp.OctetString:
		var s string
		switch v := pdu.Value.(type) {
		case []byte:
			s = util.DecodeOctetString(v)
		case string:
			s = v
		}
		return `STRING: "` + s + `"`
	case gosnmp.Integer:
		return "INTEGER: " + formatInt(pdu.Value)
	case gosnmp.Counter32:
		return "Counter32: " + formatInt(pdu.Value)
	case gosnmp.Gauge32, gosnmp.Uinteger32:
		return "Gauge32: " + formatInt(pdu.Value)
	case gosnmp.Counter64:
		return "Counter64: " + formatInt(pdu.Value)
	case gosnmp.TimeTicks:
		return "Timeticks: (" + formatInt(pdu.Value) + ")"
	case gosnmp.ObjectIdentifier:
		return fmt.Sprintf("OID: %v", pdu.Value)
	case gosnmp.IPAddress:
		return fmt.Sprintf("IpAddress: %v", pdu.Value)
	default:
		return fmt.Sprintf("%v", pdu.Value)
	}
}

func formatInt(v interface{}) string {
	if n, ok := util.CoerceToInt(v); ok {
		return fmt.Sprintf("%d", n)
	}
	return gosnmp.ToBigInt(v).String()
}
