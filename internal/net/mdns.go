package net

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_localsketch._tcp"

// Advertise publishes the browser front end on the local network. Shut the
// returned server down to withdraw the record.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"LocalSketch", "path=/"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[MDNS] Advertising %s on port %d as %q", serviceType, port, host)
	return server, nil
}

// Browse collects the addresses ("ip:port") of sketch servers that answer
// within timeout.
func Browse(timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	seen := make(map[string]bool)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			seen[fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port)] = true
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	params.Logger = log.New(io.Discard, "", 0)
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("mDNS query failed: %w", err)
	}

	found := make([]string, 0, len(seen))
	for addr := range seen {
		found = append(found, addr)
	}
	sort.Strings(found)
	return found, nil
}
