// Package privacy reduces personal data before it reaches logs.
package privacy

import "net/netip"

// AnonymizeIP keeps the network part of an address: the /24 of an IPv4
// address, the /48 of an IPv6 address. Anything unparsable becomes "invalid".
func AnonymizeIP(ip string) string {
	if ip == "" {
		return ""
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	bits := 48
	if addr.Is4() || addr.Is4In6() {
		addr = addr.Unmap()
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.String()
}
