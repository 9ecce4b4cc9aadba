// Package license holds the fixed license knowledge: categorization,
// the pairwise compatibility lattice and per-category obligations.
package license

import "strings"

// Category of a license id
type Category string

const (
	CategoryPermissive      Category = "PERMISSIVE"
	CategoryWeakCopyleft    Category = "WEAK_COPYLEFT"
	CategoryStrongCopyleft  Category = "STRONG_COPYLEFT"
	CategoryNetworkCopyleft Category = "NETWORK_COPYLEFT"
	CategoryProprietary     Category = "PROPRIETARY"
	CategoryPublicDomain    Category = "PUBLIC_DOMAIN"
	CategoryUnknown         Category = "UNKNOWN"
	CategoryOther           Category = "OTHER"
)

// Keyword lists, matched case-insensitively as substrings.
// Order matters: the first matching bucket wins, most specific first.
var (
	publicDomainKeywords    = []string{"cc0", "unlicense", "public domain", "0bsd", "wtfpl"}
	permissiveKeywords      = []string{"mit", "apache", "bsd", "isc", "zlib", "x11"}
	networkCopyleftKeywords = []string{"agpl", "sspl", "osl-3", "euplnet"}
	strongCopyleftKeywords  = []string{"gpl"}
	weakCopyleftKeywords    = []string{"lgpl", "mpl", "epl", "cddl", "cpl", "eupl"}
	proprietaryKeywords     = []string{"proprietary", "commercial", "all rights reserved"}
)

// Categorize maps a license identifier to its category.
// Pure function, never errors; unmatched identifiers are OTHER.
func Categorize(licenseID string) Category {
	id := strings.ToLower(strings.TrimSpace(licenseID))

	if id == "" || id == "noassertion" || id == "unknown" || id == "none" {
		return CategoryUnknown
	}

	for _, kw := range publicDomainKeywords {
		if strings.Contains(id, kw) {
			return CategoryPublicDomain
		}
	}
	for _, kw := range proprietaryKeywords {
		if strings.Contains(id, kw) {
			return CategoryProprietary
		}
	}
	for _, kw := range networkCopyleftKeywords {
		if strings.Contains(id, kw) {
			return CategoryNetworkCopyleft
		}
	}
	// LGPL must be checked before the bare GPL substring
	for _, kw := range weakCopyleftKeywords {
		if strings.Contains(id, kw) {
			return CategoryWeakCopyleft
		}
	}
	for _, kw := range strongCopyleftKeywords {
		if strings.Contains(id, kw) {
			return CategoryStrongCopyleft
		}
	}
	for _, kw := range permissiveKeywords {
		if strings.Contains(id, kw) {
			return CategoryPermissive
		}
	}

	return CategoryOther
}

// IsCopyleft groups the three copyleft strengths
func IsCopyleft(c Category) bool {
	switch c {
	case CategoryWeakCopyleft, CategoryStrongCopyleft, CategoryNetworkCopyleft:
		return true
	}
	return false
}

// IsPermissive includes public domain, which imposes no obligations
func IsPermissive(c Category) bool {
	return c == CategoryPermissive || c == CategoryPublicDomain
}
