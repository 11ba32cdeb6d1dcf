// Package netutil helps the server pick a usable bind address.
package netutil

import (
	"fmt"
	"net"
)

// SelectBindAddr returns the preferred address when it can be listened on.
// When it cannot and autoFallback is set, the candidates are probed in order.
func SelectBindAddr(preferred string, candidates []string, autoFallback bool) (string, error) {
	if preferred != "" {
		if addrAvailable(preferred) {
			return preferred, nil
		}
		if !autoFallback {
			return "", fmt.Errorf("preferred bind address in use: %s", preferred)
		}
	}

	for _, addr := range candidates {
		if addr == preferred {
			continue
		}
		if addrAvailable(addr) {
			return addr, nil
		}
	}
	return "", fmt.Errorf("no available bind address among %d candidates", len(candidates))
}

// addrAvailable probes the address with a short-lived listener.
func addrAvailable(addr string) bool {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}
