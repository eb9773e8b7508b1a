package products

import (
	"net/url"

	"github.com/backoffice-labs/catalog/pkg/query"
)

// Filters defines optional criteria for querying products.
type Filters struct {
	Search *string
}

// FiltersFromQuery extracts product filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("search"); s != "" {
		f.Search = &s
	}

	return f
}

// Apply adds filter conditions to a query builder. Search matches the
// product name as a case-insensitive substring.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Search != nil {
		b.WhereContains("Name", f.Search)
	}

	return b
}
