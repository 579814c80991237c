package transport

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// runFunc executes a tool and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr != "" {
				return out, fmt.Errorf("%s exited with %d: %s", name, exitErr.ExitCode(), stderr)
			}
			return out, fmt.Errorf("%s exited with %d", name, exitErr.ExitCode())
		}
		return out, err
	}
	return out, nil
}

// Exec queries the device by running the net-snmp command line tools
// (snmpget and snmpwalk). A non-zero exit status is a failed query.
type Exec struct {
	cfg Config
	log Logger
	run runFunc
}

// NewExec returns a transport that shells out to net-snmp. log may be nil.
func NewExec(cfg Config, log Logger) *Exec {
	if log == nil {
		log = nopLogger{}
	}
	return &Exec{cfg: cfg.withDefaults(), log: log, run: runCommand}
}

// args builds the common argument list: v2c, community, per-query timeout in
// seconds, retries, then the agent address and the OID.
func (e *Exec) args(oid string) []string {
	target := e.cfg.Host
	if e.cfg.Port != DefaultPort {
		target = fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	}
	return []string{
		"-v2c",
		"-c", e.cfg.Community,
		"-t", strconv.FormatFloat(e.cfg.Timeout.Seconds(), 'f', -1, 64),
		"-r", strconv.Itoa(e.cfg.Retries),
		target,
		oid,
	}
}

func (e *Exec) fail(op, oid string, err error) error {
	e.log.Debug("SNMP tool failed", "op", op, "oid", oid, "host", e.cfg.Host, "error", err)
	return &Error{Op: op, OID: oid, Host: e.cfg.Host, Err: err}
}

// Get implements Transport.
func (e *Exec) Get(ctx context.Context, oid string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", e.fail("get", oid, err)
	}
	out, err := e.run(ctx, e.cfg.SnmpGetPath, e.args(oid)...)
	if err != nil {
		return "", e.fail("get", oid, err)
	}
	lines := SplitLines(string(out))
	if len(lines) > 0 && isNoSuch(lines[0]) {
		return "", e.fail("get", oid, errors.New(strings.TrimSpace(lines[0])))
	}
	value, ok := ScalarValue(string(out))
	if !ok {
		return "", e.fail("get", oid, errors.New("empty response"))
	}
	e.log.Debug("SNMP get", "oid", oid, "host", e.cfg.Host, "value", value)
	return value, nil
}

// Walk implements Transport.
func (e *Exec) Walk(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.fail("walk", prefix, err)
	}
	out, err := e.run(ctx, e.cfg.SnmpWalkPath, e.args(prefix)...)
	if err != nil {
		return nil, e.fail("walk", prefix, err)
	}
	lines := JoinContinuations(SplitLines(string(out)))
	if len(lines) == 1 && isNoSuch(lines[0]) {
		return nil, e.fail("walk", prefix, errors.New(strings.TrimSpace(lines[0])))
	}
	e.log.Debug("SNMP walk", "oid", prefix, "host", e.cfg.Host, "count", len(lines))
	return lines, nil
}
