// Copyright (c) 2015 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import "net"

// NormalizeAddress returns the address in host:port form, appending the
// default port when the address carries none.  An address that is invalid
// even with the default port appended returns the original split error.
func NormalizeAddress(addr, defaultPort string) (string, error) {
	host, port, origErr := net.SplitHostPort(addr)
	if origErr == nil {
		return net.JoinHostPort(host, port), nil
	}

	withPort := net.JoinHostPort(addr, defaultPort)
	if _, _, err := net.SplitHostPort(withPort); err != nil {
		return "", origErr
	}
	return withPort, nil
}

// NormalizeAddresses normalizes each listen address with the default port
// and drops duplicates, preserving first-seen order.
func NormalizeAddresses(addrs []string, defaultPort string) ([]string, error) {
	normalized := make([]string, 0, len(addrs))
	seen := make(map[string]struct{}, len(addrs))

	for _, addr := range addrs {
		normalizedAddr, err := NormalizeAddress(addr, defaultPort)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[normalizedAddr]; ok {
			continue
		}
		seen[normalizedAddr] = struct{}{}
		normalized = append(normalized, normalizedAddr)
	}

	return normalized, nil
}
