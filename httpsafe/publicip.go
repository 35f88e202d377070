package httpsafe

import "net"

// ipv4Disallowed is the union of private/reserved/special-use IPv4 ranges.
// Per spec.md's open-questions note, this is deliberately the broadest
// rejection set observed across source variants, not the narrower subset
// any single one of them checks.
var ipv4Disallowed = mustParseCIDRs(
	"0.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"192.88.99.0/24",
	"192.31.196.0/24",
	"192.52.193.0/24",
	"192.175.48.0/24",
	"198.18.0.0/15",
	"224.0.0.0/3",
)

// ipv6Disallowed is the set of static (non-embedding) disallowed IPv6
// ranges; ::, ::1, and the four embedded-IPv4 forms (mapped, NAT64, 6to4,
// and the deprecated IPv4-compatible ::/96) are handled separately, because
// they require unwrapping and IPv4 reclassification: the mapped form is
// unwrapped by IsPublicIP via To4, the others in isPublicIPv6.
var ipv6Disallowed = mustParseCIDRs(
	"100::/64",      // discard-only
	"2001:2::/48",   // benchmarking
	"2001:db8::/32", // documentation
	"fe80::/10",     // link-local
	"fec0::/10",     // deprecated site-local
	"fc00::/7",      // unique local
	"ff00::/8",      // multicast
)

// ipv6Mapped (::ffff:0:0/96) is not checked directly: Go's net.IP.To4
// already recognizes and unwraps this exact prefix, so IsPublicIP routes
// those addresses straight to isPublicIPv4 before isPublicIPv6 ever runs.
var ipv6NAT64 = mustParseCIDR("64:ff9b::/96")
var ipv6SixToFour = mustParseCIDR("2002::/16")
var ipv6Compatible = mustParseCIDR("::/96")

func mustParseCIDR(s string) *net.IPNet {
	_, n, err := net.ParseCIDR(s)
	if err != nil {
		panic("httpsafe: invalid CIDR literal " + s)
	}
	return n
}

func mustParseCIDRs(ss ...string) []*net.IPNet {
	out := make([]*net.IPNet, len(ss))
	for i, s := range ss {
		out[i] = mustParseCIDR(s)
	}
	return out
}

// IsPublicIP reports whether ip is a publicly routable address: not in any
// private/reserved/special-use range, with embedded IPv4 addresses
// (mapped, NAT64, 6to4, IPv4-compatible) unwrapped and reclassified under
// the IPv4 rules.
func IsPublicIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	if v4 := ip.To4(); v4 != nil {
		// Go's To4 already unwraps the standard ::ffff:0:0/96 mapped form.
		return isPublicIPv4(v4)
	}
	return isPublicIPv6(ip)
}

func isPublicIPv4(v4 net.IP) bool {
	for _, n := range ipv4Disallowed {
		if n.Contains(v4) {
			return false
		}
	}
	return true
}

func isPublicIPv6(ip net.IP) bool {
	if ip.Equal(net.IPv6unspecified) || ip.Equal(net.IPv6loopback) {
		return false
	}
	if ipv6NAT64.Contains(ip) {
		return isPublicIPv4(embeddedIPv4(ip, 12))
	}
	if ipv6SixToFour.Contains(ip) {
		return isPublicIPv4(embeddedIPv4(ip, 2))
	}
	if ipv6Compatible.Contains(ip) {
		return isPublicIPv4(embeddedIPv4(ip, 12))
	}
	for _, n := range ipv6Disallowed {
		if n.Contains(ip) {
			return false
		}
	}
	return true
}

// embeddedIPv4 extracts the 4 bytes starting at offset from a 16-byte IPv6
// address and returns them as a 4-byte net.IP.
func embeddedIPv4(ip net.IP, offset int) net.IP {
	ip16 := ip.To16()
	if ip16 == nil || offset+4 > len(ip16) {
		return nil
	}
	out := make(net.IP, 4)
	copy(out, ip16[offset:offset+4])
	return out
}
