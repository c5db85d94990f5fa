package helper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const (
	slugDefaultLen = 100
	slugFallback   = "dorm"
	slugScanPrefix = 8
)

// Slugify turns free text into [a-z0-9-], dropping diacritics. Empty input yields "dorm".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = slugDefaultLen
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}

	out := cutSlug(b.String(), maxLen)
	if out == "" {
		return slugFallback
	}
	return out
}

// cutSlug shortens an ASCII slug without leaving a trailing dash.
func cutSlug(s string, n int) string {
	if n < 1 {
		n = 1
	}
	if len(s) > n {
		s = s[:n]
	}
	return strings.TrimRight(s, "-")
}

// EnsureUniqueSlugCI returns baseSlug, or the first free baseSlug-2, -3, ... in table.column (case-insensitive).
// Archived rows count as taken.
func EnsureUniqueSlugCI(ctx context.Context, db *gorm.DB, table, column, baseSlug string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = slugDefaultLen
	}
	base := strings.ToLower(cutSlug(baseSlug, maxLen))
	if base == "" {
		base = slugFallback
	}

	var existing []string
	err := db.WithContext(ctx).
		Table(table).
		Where(fmt.Sprintf("LOWER(%s) LIKE ?", column), cutSlug(base, slugScanPrefix)+"%").
		Pluck(column, &existing).Error
	if err != nil {
		return "", err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		taken[strings.ToLower(v)] = struct{}{}
	}

	candidate := base
	for n := 2; ; n++ {
		if _, dup := taken[candidate]; !dup {
			return candidate, nil
		}
		suffix := "-" + strconv.Itoa(n)
		candidate = cutSlug(base, maxLen-len(suffix)) + suffix
	}
}
