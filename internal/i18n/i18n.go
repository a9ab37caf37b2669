// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n carries the UI message catalogs. French is the site
// language; English is a fallback catalog with the same keys.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// DefaultLanguage is the site's primary language.
const DefaultLanguage = "fr"

// SupportedLanguages lists the UI languages, primary first.
var SupportedLanguages = []string{"fr", "en"}

// localeFile mirrors locales/<lang>/messages.json.
type localeFile struct {
	Language string `json:"language"`
	Messages []struct {
		ID          string `json:"id"`
		Translation string `json:"translation"`
	} `json:"messages"`
}

// catalog is built once by Init and read-only afterwards.
type messageCatalog struct {
	byLang  map[string]map[string]string
	matcher language.Matcher
	tags    []language.Tag
}

var catalog *messageCatalog

// Init loads every embedded catalog. It must complete before any request
// is served; T and MatchLanguage read the catalog without locking.
func Init(logger *slog.Logger) error {
	c := &messageCatalog{byLang: make(map[string]map[string]string)}

	for _, lang := range SupportedLanguages {
		path := fmt.Sprintf("locales/%s/messages.json", lang)
		data, err := localesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		var file localeFile
		if err := json.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		messages := make(map[string]string, len(file.Messages))
		for _, m := range file.Messages {
			messages[m.ID] = m.Translation
		}
		c.byLang[lang] = messages
		c.tags = append(c.tags, language.MustParse(lang))
	}
	c.matcher = language.NewMatcher(c.tags)

	catalog = c
	if logger != nil {
		logger.Info("message catalogs loaded", "languages", SupportedLanguages)
	}
	return nil
}

// T translates a key, falling back to French for unknown languages or
// keys missing from a catalog, and to the key itself as a last resort.
// Extra arguments go through fmt.Sprintf.
func T(lang, key string, args ...any) string {
	msg, ok := lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func lookup(lang, key string) (string, bool) {
	if catalog == nil {
		return "", false
	}
	if messages, ok := catalog.byLang[lang]; ok {
		if msg, ok := messages[key]; ok {
			return msg, true
		}
	}
	if lang != DefaultLanguage {
		if msg, ok := catalog.byLang[DefaultLanguage][key]; ok {
			return msg, true
		}
	}
	return "", false
}

// MatchLanguage picks the best supported language for an Accept-Language
// header (or bare language code), defaulting to French.
func MatchLanguage(acceptLang string) string {
	if catalog == nil {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return DefaultLanguage
		}
		tags = []language.Tag{tag}
	}

	if _, idx, _ := catalog.matcher.Match(tags...); idx >= 0 && idx < len(catalog.tags) {
		return catalog.tags[idx].String()
	}
	return DefaultLanguage
}

// IsSupported reports whether lang is one of the UI languages.
func IsSupported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, s := range SupportedLanguages {
		if s == lang {
			return true
		}
	}
	return false
}

// TranslationCount returns how many messages a catalog carries.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}
	return len(catalog.byLang[lang])
}
