// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves client IPs to ISO country codes with a MaxMind
// GeoLite2-Country database. The database file is optional; without one
// every lookup degrades to an empty code.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// countryLocal is returned for private and loopback addresses, which no
// public database can place.
const countryLocal = "LOCAL"

// Lookup wraps a GeoLite2-Country reader. The zero value is unusable;
// call Init first.
type Lookup struct {
	mu      sync.RWMutex
	path    string
	reader  *maxminddb.Reader
	modTime time.Time
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewLookup returns an empty Lookup.
func NewLookup() *Lookup {
	return &Lookup{}
}

// Init opens the database at path. An empty path disables lookups
// without error; a present-but-broken database returns an error so the
// caller can log it and carry on.
func (g *Lookup) Init(path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.path = path
	if path == "" {
		return nil
	}
	return g.open()
}

// Reload re-opens the database when its file has changed on disk. The
// scheduler calls this nightly so a refreshed GeoLite2 download is picked
// up without a restart.
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.path == "" {
		return nil
	}
	return g.open()
}

// open loads the database unless the file is unchanged since the last
// load. Caller holds the write lock.
func (g *Lookup) open() error {
	info, err := os.Stat(g.path)
	if err != nil {
		g.closeLocked()
		return fmt.Errorf("geoip database %s: %w", g.path, err)
	}
	if g.reader != nil && info.ModTime().Equal(g.modTime) {
		return nil
	}

	reader, err := maxminddb.Open(g.path)
	if err != nil {
		g.closeLocked()
		return fmt.Errorf("opening geoip database %s: %w", g.path, err)
	}

	g.closeLocked()
	g.reader = reader
	g.modTime = info.ModTime()
	return nil
}

// LookupCountry returns the two-letter ISO code for an IP, "LOCAL" for
// private and loopback addresses, and "" for anything it cannot place.
func (g *Lookup) LookupCountry(ip string) string {
	addr := net.ParseIP(ip)
	if addr == nil {
		return ""
	}
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() {
		return countryLocal
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.reader == nil {
		return ""
	}

	var rec countryRecord
	if err := g.reader.Lookup(addr, &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// IsEnabled reports whether a database is loaded.
func (g *Lookup) IsEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.reader != nil
}

// Close releases the database reader.
func (g *Lookup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closeLocked()
}

func (g *Lookup) closeLocked() error {
	if g.reader == nil {
		return nil
	}
	err := g.reader.Close()
	g.reader = nil
	return err
}
