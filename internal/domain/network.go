package domain

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// NetErrorKind is a high-level classification of transport failures.
type NetErrorKind string

const (
	NetErrorUnknown NetErrorKind = "unknown"
	NetErrorTimeout NetErrorKind = "timeout"
	NetErrorDNS     NetErrorKind = "dns"
	NetErrorConn    NetErrorKind = "connection"
)

// ClassifyNetError maps a client error onto a NetErrorKind.
func ClassifyNetError(err error) NetErrorKind {
	if err == nil {
		return NetErrorUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NetErrorTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return NetErrorTimeout
		}
		return NetErrorDNS
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return NetErrorTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return NetErrorConn
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return NetErrorConn
	}

	return NetErrorUnknown
}
