// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"time"
)

// SecurityTxt generates an RFC 9116 security.txt body. contact is a
// mailto: or https: URI for vulnerability reports; a zero expires
// defaults to one year out, since the RFC requires the field.
func SecurityTxt(contact string, expires time.Time) string {
	if expires.IsZero() {
		expires = time.Now().AddDate(1, 0, 0)
	}

	var b strings.Builder
	b.WriteString("Contact: " + contact + "\n")
	b.WriteString("Expires: " + expires.Format(time.RFC3339) + "\n")
	b.WriteString("Preferred-Languages: fr, en\n")
	return b.String()
}
