// Package sanitizer normalizes user-supplied values before they enter the
// pipeline, so suppression keys and account lookups agree on one canonical
// form per address.
package sanitizer

import (
	"regexp"
	"strings"
)

var dotRegex = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an address and collapses consecutive
// dots in the local part. Input without exactly one @ is returned trimmed
// and lowercased; validation is a separate concern.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	local = dotRegex.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")

	return local + "@" + domain
}

// ExtractEmailDomain returns the domain part of an address, or the empty
// string when there is none.
func ExtractEmailDomain(email string) string {
	_, domain, ok := strings.Cut(NormalizeEmail(email), "@")
	if !ok {
		return ""
	}
	return domain
}
