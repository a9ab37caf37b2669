// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// DefaultSiteName is used until the site_name setting is loaded.
const DefaultSiteName = "Valforêt"

// Keys of the editable site settings.
const (
	ConfigKeySiteName        = "site_name"
	ConfigKeySiteDescription = "site_description"
	ConfigKeyContactEmail    = "contact_email"
)

// Config is one row of the site settings table.
type Config struct {
	Key       string
	Value     string
	UpdatedAt time.Time
	UpdatedBy sql.NullInt64
}
