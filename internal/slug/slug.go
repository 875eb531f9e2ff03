// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns category names into URL path segments.
package slug

import (
	"strings"
	"unicode"
)

// Generate lowercases s, keeps ASCII letters and digits, turns whitespace
// and separators ("-", "_", "/", "&", "+") into single hyphens and drops
// everything else.
// Example: "College Life" → "college-life", "Q&A / Tips" → "q-a-tips"
func Generate(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || strings.ContainsRune("-_/&+", r):
			pendingHyphen = true
		}
	}
	return b.String()
}
