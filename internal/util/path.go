// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
)

// SanitizeFilename strips any directory components from an uploaded
// filename, so "../../etc/passwd" comes back as "passwd". Names that
// reduce to nothing usable are rejected.
func SanitizeFilename(filename string) (string, error) {
	name := filepath.Base(filename)
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return name, nil
}
