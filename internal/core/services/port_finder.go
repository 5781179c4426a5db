package services

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrNoFreePort is returned when every port in the range is taken.
var ErrNoFreePort = errors.New("no free port")

// FreeAddr probes ports first to last on host and returns the first
// address that can be bound, as host:port. The probe listener is closed
// before returning, so another process may still win the port.
func FreeAddr(host string, first, last int) (string, error) {
	if first < 1 || last > 65535 || first > last {
		return "", fmt.Errorf("invalid port range %d-%d", first, last)
	}
	for port := first; port <= last; port++ {
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		l, err := net.Listen("tcp", addr)
		if err != nil {
			continue
		}
		_ = l.Close()
		return addr, nil
	}
	return "", fmt.Errorf("%w in %d-%d on %s", ErrNoFreePort, first, last, host)
}
