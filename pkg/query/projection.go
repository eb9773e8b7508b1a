// Package query provides SQL query construction with field-to-column
// projections and automatic parameter numbering.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps struct field names to database columns for a table.
// It keeps query builders free of raw column strings and guards sort and
// filter fields against arbitrary input.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	fields  map[string]string
}

// NewProjectionMap creates a projection for the given schema-qualified table.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Project registers a column under a struct field name. Registration order
// determines column order in generated SELECT statements.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	p.columns = append(p.columns, column)
	p.fields[field] = column
	return p
}

// Table returns the aliased table reference for FROM clauses.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Columns returns the alias-qualified column list for SELECT clauses.
func (p *ProjectionMap) Columns() string {
	qualified := make([]string, len(p.columns))
	for i, col := range p.columns {
		qualified[i] = p.alias + "." + col
	}
	return strings.Join(qualified, ", ")
}

// Column resolves a struct field name to its alias-qualified column.
// Unknown fields panic: they indicate a programming error, not user input.
func (p *ProjectionMap) Column(field string) string {
	col, ok := p.fields[field]
	if !ok {
		panic(fmt.Sprintf("query: field %q not projected on %s.%s", field, p.schema, p.table))
	}
	return p.alias + "." + col
}

// SortField pairs a projected field with a sort direction.
type SortField struct {
	Field      string
	Descending bool
}
