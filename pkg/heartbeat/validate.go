/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package heartbeat pkg/heartbeat/validate.go
package heartbeat

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"
	"time"
)

var macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}$`)

// NormalizeMAC validates a hardware address and returns it in upper-case
// colon form. Mixed separators are rejected.
func NormalizeMAC(raw string) (string, error) {
	mac := strings.TrimSpace(raw)
	if mac == "" {
		return "", fmt.Errorf("%w: %w", ErrInvalidHeartbeat, errEmptyMAC)
	}

	if !macPattern.MatchString(mac) || (strings.Contains(mac, ":") && strings.Contains(mac, "-")) {
		return "", fmt.Errorf("%w: %w %q", ErrInvalidHeartbeat, errMalformedMAC, raw)
	}

	return strings.ToUpper(strings.ReplaceAll(mac, "-", ":")), nil
}

// ParseBeatTime parses a timezone-aware RFC 3339 timestamp.
func ParseBeatTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w: %q", ErrInvalidHeartbeat, errMalformedTime, raw)
	}

	return t, nil
}

// validateIP accepts an empty address (unknown) or any IPv4/IPv6 literal.
func validateIP(raw string) (string, error) {
	ip := strings.TrimSpace(raw)
	if ip == "" {
		return "", nil
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "", fmt.Errorf("%w: %w %q", ErrInvalidHeartbeat, errMalformedIP, raw)
	}

	return addr.String(), nil
}
