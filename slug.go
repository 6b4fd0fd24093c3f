package custos

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// slugify lowercases a name and collapses whitespace runs into sep.
func slugify(name, sep string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), sep)
}

// roleSlug derives a role slug from its display name
// ("Content Editor" -> "content_editor").
func roleSlug(name string) string { return slugify(name, "_") }

// tenantSlug derives a tenant slug from its display name
// ("Hospital A" -> "hospital-a").
func tenantSlug(name string) string { return slugify(name, "-") }
