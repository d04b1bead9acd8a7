package services

import "strings"

// regionAliases maps the historical spelling of renamed zones to the current
// one, both in normalized form. Catalogs and estimations created before the
// renames still carry the old spellings and must keep matching.
var regionAliases = map[string]string{
	"chittagong": "chattogram",
	"comilla":    "cumilla",
	"barisal":    "barishal",
	"jessore":    "jashore",
	"bogra":      "bogura",
}

// normalizeKey lowercases s and strips everything but letters and digits.
// It is the shared normalization for codes, descriptions, units, regions and
// header tokens.
func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalRegion returns the normalized region key with historical zone
// spellings rewritten to their current form, so "Chittagong Zone" and
// "Chattogram Zone" compare equal.
func CanonicalRegion(region string) string {
	norm := normalizeKey(region)
	for old, current := range regionAliases {
		norm = strings.ReplaceAll(norm, old, current)
	}
	return norm
}

// SameRegion reports whether two region labels refer to the same zone,
// treating known alias pairs as interchangeable.
func SameRegion(a, b string) bool {
	return CanonicalRegion(a) == CanonicalRegion(b)
}

// FilterByRegion keeps the catalog items belonging to the given region,
// applying alias-aware comparison. This is a pre-filter for resolution, not
// part of code/description matching itself.
func FilterByRegion(items []CatalogItem, region string) []CatalogItem {
	out := make([]CatalogItem, 0, len(items))
	for _, it := range items {
		if SameRegion(it.Region, region) {
			out = append(out, it)
		}
	}
	return out
}

// FindItemForRow resolves a spreadsheet row's code and/or description cell
// against the catalog. Matching short-circuits on the first hit:
//
//  1. exact code (after trimming), then normalized code;
//  2. exact case-insensitive description, then unique substring containment
//     on normalized descriptions; zero or two-plus candidates both resolve
//     to no match, never a guess.
//
// Returns nil when neither cell yields a match.
func FindItemForRow(codeCell, descCell string, catalog []CatalogItem) *CatalogItem {
	code := strings.TrimSpace(codeCell)
	if code != "" {
		for i := range catalog {
			if strings.TrimSpace(catalog[i].Code) == code {
				return &catalog[i]
			}
		}
		normCode := normalizeKey(code)
		if normCode != "" {
			for i := range catalog {
				if normalizeKey(catalog[i].Code) == normCode {
					return &catalog[i]
				}
			}
		}
	}

	desc := strings.TrimSpace(descCell)
	if desc != "" {
		for i := range catalog {
			if strings.EqualFold(strings.TrimSpace(catalog[i].Description), desc) {
				return &catalog[i]
			}
		}

		normDesc := normalizeKey(desc)
		if normDesc != "" {
			var candidate *CatalogItem
			for i := range catalog {
				itemDesc := normalizeKey(catalog[i].Description)
				if itemDesc == "" {
					continue
				}
				if strings.Contains(itemDesc, normDesc) || strings.Contains(normDesc, itemDesc) {
					if candidate != nil {
						// ambiguous: favor a false negative over a wrong item
						return nil
					}
					candidate = &catalog[i]
				}
			}
			if candidate != nil {
				return candidate
			}
		}
	}

	return nil
}
