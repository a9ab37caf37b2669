// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"fmt"
	"time"
)

// RelativeDate renders a calendar-day distance in the given language, the
// way the search results present publication dates. Distances are counted
// in whole days between the two dates' local midnights.
func RelativeDate(lang string, t, now time.Time) string {
	days := int(truncateDay(now).Sub(truncateDay(t)).Hours() / 24)

	if lang == "en" {
		return relativeEN(days)
	}
	return relativeFR(days)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func relativeFR(days int) string {
	switch {
	case days <= 0:
		return "aujourd'hui"
	case days == 1:
		return "hier"
	case days < 30:
		return fmt.Sprintf("il y a %d jours", days)
	case days < 365:
		months := days / 30
		if months == 1 {
			return "il y a 1 mois"
		}
		return fmt.Sprintf("il y a %d mois", months)
	default:
		years := days / 365
		if years == 1 {
			return "il y a 1 an"
		}
		return fmt.Sprintf("il y a %d ans", years)
	}
}

func relativeEN(days int) string {
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	case days < 365:
		months := days / 30
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := days / 365
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}
