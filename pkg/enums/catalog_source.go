package enums

import (
	"fmt"
	"strings"
)

// CatalogSource selects which provider backs the product grid.
type CatalogSource string

const (
	CatalogSourceStatic CatalogSource = "static"
	CatalogSourceDB     CatalogSource = "db"
)

var validCatalogSources = []CatalogSource{
	CatalogSourceStatic,
	CatalogSourceDB,
}

// String implements fmt.Stringer.
func (c CatalogSource) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CatalogSource.
func (c CatalogSource) IsValid() bool {
	for _, candidate := range validCatalogSources {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCatalogSource converts raw input into a CatalogSource.
func ParseCatalogSource(value string) (CatalogSource, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validCatalogSources {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog source %q", value)
}
