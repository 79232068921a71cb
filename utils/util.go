package utils

import (
	"log"
	"net"
)

// ListenURL builds the URL to advertise for a bound listener: the
// configured host name paired with the port the listener actually got,
// which matters when listening on port 0.
func ListenURL(scheme, host string, lnAddr net.Addr) string {
	_, port, err := net.SplitHostPort(lnAddr.String())
	if err != nil {
		log.Fatalf("invalid listener addr %q: %v", lnAddr, err)
	}
	return scheme + "://" + net.JoinHostPort(host, port)
}
