// Package discover finds printers advertising themselves over mDNS/DNS-SD so
// the CLI can suggest hosts to query.
package discover

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

// ServiceTypes are the printer service types browsed.
var ServiceTypes = []string{"_ipp._tcp", "_ipps._tcp", "_printer._tcp"}

// DefaultTimeout bounds a browse when the caller passes zero.
const DefaultTimeout = 3 * time.Second

// Printer is one advertised printer endpoint.
type Printer struct {
	Instance string `json:"instance"`
	Host     string `json:"host"`
	IPv4     string `json:"ipv4"`
	Service  string `json:"service"`
}

// browseFunc runs one browse for service and sends results to entries until
// ctx is done. It must close entries when it returns.
type browseFunc func(ctx context.Context, service string, entries chan<- *zeroconf.ServiceEntry) error

func zeroconfBrowse(ctx context.Context, service string, entries chan<- *zeroconf.ServiceEntry) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		close(entries)
		return fmt.Errorf("mdns resolver: %w", err)
	}
	// Browse returns once the query is sent; entries is closed when ctx ends.
	return resolver.Browse(ctx, service, "local.", entries)
}

// Browse listens for printer advertisements for timeout and returns every
// distinct IPv4 endpoint seen, sorted by address. An error is returned only
// when no service type could be browsed at all.
func Browse(ctx context.Context, timeout time.Duration) ([]Printer, error) {
	return browse(ctx, timeout, zeroconfBrowse)
}

func browse(ctx context.Context, timeout time.Duration, run browseFunc) ([]Printer, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		found   []Printer
		errs    []error
		wg      sync.WaitGroup
		started int
	)

	for _, st := range ServiceTypes {
		st := st
		entries := make(chan *zeroconf.ServiceEntry)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case e, ok := <-entries:
					if !ok {
						return
					}
					got := fromEntry(st, e)
					trace("mDNS entry", "service", st, "instance", entryInstance(e), "addrs", len(got))
					mu.Lock()
					found = append(found, got...)
					mu.Unlock()
				}
			}
		}()

		info("mDNS browse start", "service", st)
		if err := run(ctx, st, entries); err != nil {
			warn("mDNS browse error", "service", st, "error", err)
			errs = append(errs, err)
			continue
		}
		started++
	}

	<-ctx.Done()
	wg.Wait()

	if started == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("mdns browse failed: %w", errors.Join(errs...))
	}
	return dedupe(found), nil
}

func entryInstance(e *zeroconf.ServiceEntry) string {
	if e == nil {
		return ""
	}
	return e.Instance
}

func fromEntry(service string, e *zeroconf.ServiceEntry) []Printer {
	if e == nil {
		return nil
	}
	host := strings.TrimSuffix(e.HostName, ".")
	out := make([]Printer, 0, len(e.AddrIPv4))
	for _, ip := range e.AddrIPv4 {
		if ip == nil || ip.To4() == nil {
			continue
		}
		out = append(out, Printer{
			Instance: e.Instance,
			Host:     host,
			IPv4:     ip.String(),
			Service:  service,
		})
	}
	return out
}

// dedupe keeps the first record per IPv4 address, in ServiceTypes order, and
// sorts by numeric address.
func dedupe(in []Printer) []Printer {
	rank := make(map[string]int, len(ServiceTypes))
	for i, st := range ServiceTypes {
		rank[st] = i
	}
	sort.SliceStable(in, func(i, j int) bool { return rank[in[i].Service] < rank[in[j].Service] })

	seen := make(map[string]bool, len(in))
	out := make([]Printer, 0, len(in))
	for _, p := range in {
		if seen[p.IPv4] {
			continue
		}
		seen[p.IPv4] = true
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := net.ParseIP(out[i].IPv4).To4(), net.ParseIP(out[j].IPv4).To4()
		for k := 0; k < 4; k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return out
}
