package discover

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entry(instance, host string, ips ...string) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, "", "local.")
	e.HostName = host
	for _, ip := range ips {
		e.AddrIPv4 = append(e.AddrIPv4, net.ParseIP(ip))
	}
	return e
}

// fakeBrowse replays canned entries per service and closes the channel when
// the browse context ends.
func fakeBrowse(results map[string][]*zeroconf.ServiceEntry, failing map[string]bool) browseFunc {
	return func(ctx context.Context, service string, entries chan<- *zeroconf.ServiceEntry) error {
		if failing[service] {
			close(entries)
			return errors.New("no multicast interface")
		}
		go func() {
			defer close(entries)
			for _, e := range results[service] {
				select {
				case entries <- e:
				case <-ctx.Done():
					return
				}
			}
			<-ctx.Done()
		}()
		return nil
	}
}

func TestBrowse(t *testing.T) {
	t.Parallel()

	run := fakeBrowse(map[string][]*zeroconf.ServiceEntry{
		"_ipp._tcp": {
			entry("Brother HL-L8260CDW", "BRN3C2AF4.local.", "192.0.2.20"),
			entry("HP LaserJet M404", "NPI1A2B3C.local.", "192.0.2.3"),
		},
		"_printer._tcp": {
			entry("Brother HL-L8260CDW LPD", "BRN3C2AF4.local.", "192.0.2.20", "192.0.2.21"),
		},
	}, nil)

	got, err := browse(context.Background(), 50*time.Millisecond, run)
	if err != nil {
		t.Fatalf("browse error: %v", err)
	}

	want := []Printer{
		{Instance: "HP LaserJet M404", Host: "NPI1A2B3C.local", IPv4: "192.0.2.3", Service: "_ipp._tcp"},
		{Instance: "Brother HL-L8260CDW", Host: "BRN3C2AF4.local", IPv4: "192.0.2.20", Service: "_ipp._tcp"},
		{Instance: "Brother HL-L8260CDW LPD", Host: "BRN3C2AF4.local", IPv4: "192.0.2.21", Service: "_printer._tcp"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d printers %+v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("printer %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBrowsePartialFailure(t *testing.T) {
	t.Parallel()

	run := fakeBrowse(map[string][]*zeroconf.ServiceEntry{
		"_ipps._tcp": {entry("Secure", "secure.local.", "192.0.2.9")},
	}, map[string]bool{"_ipp._tcp": true, "_printer._tcp": true})

	got, err := browse(context.Background(), 50*time.Millisecond, run)
	if err != nil {
		t.Fatalf("browse error: %v", err)
	}
	if len(got) != 1 || got[0].IPv4 != "192.0.2.9" {
		t.Errorf("got %+v", got)
	}
}

func TestBrowseAllFail(t *testing.T) {
	t.Parallel()

	failing := map[string]bool{}
	for _, st := range ServiceTypes {
		failing[st] = true
	}
	got, err := browse(context.Background(), 10*time.Millisecond, fakeBrowse(nil, failing))
	if err == nil {
		t.Fatalf("expected error, got %+v", got)
	}
}

func TestFromEntrySkipsNonIPv4(t *testing.T) {
	t.Parallel()

	e := entry("dual", "dual.local.", "192.0.2.1")
	e.AddrIPv4 = append(e.AddrIPv4, net.ParseIP("2001:db8::1"), nil)

	got := fromEntry("_ipp._tcp", e)
	if len(got) != 1 || got[0].IPv4 != "192.0.2.1" || got[0].Host != "dual.local" {
		t.Errorf("fromEntry = %+v", got)
	}
	if fromEntry("_ipp._tcp", nil) != nil {
		t.Error("nil entry should yield nothing")
	}
}
