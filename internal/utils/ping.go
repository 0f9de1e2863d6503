package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// AuthorizerPingTimeout bounds the reachability check of the identity provider
const AuthorizerPingTimeout = 1500 * time.Millisecond

var defaultPorts = map[string]string{
	"http":    "80",
	"https":   "443",
	"mongodb": "27017",
	"redis":   "6379",
}

// PingService checks that a TCP connection to the host of serviceURL can be opened
func PingService(ctx context.Context, serviceURL string) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	port := parsedURL.Port()
	if port == "" {
		port = defaultPorts[parsedURL.Scheme]
		if port == "" {
			port = "80"
		}
	}

	return PingAddr(ctx, net.JoinHostPort(parsedURL.Hostname(), port))
}

// PingAddr checks that a TCP connection to host:port can be opened
func PingAddr(ctx context.Context, address string) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// PingAuthorizer checks if the Authorizer service is reachable
func PingAuthorizer(ctx context.Context, authzURL string) error {
	ctx, cancel := context.WithTimeout(ctx, AuthorizerPingTimeout)
	defer cancel()
	return PingService(ctx, authzURL)
}
