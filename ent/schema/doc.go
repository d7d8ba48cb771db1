// Package schema declares the homeroom entities in ent's schema DSL. The
// store's migration tables in internal/store mirror these declarations
// column for column.
package schema
