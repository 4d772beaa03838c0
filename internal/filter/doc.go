// Package filter compiles user-authored column filters into literal SQL
// query text.
//
// The compiler is permissive while a filter is being edited: descriptors
// that name an unknown column, carry no operator, or lack a required value
// are skipped rather than reported. Values are quoted by column type:
// NUMBER columns get bare numeric literals, everything else becomes a
// single-quoted string with embedded quotes doubled. LIKE wildcards inside
// user values ('%' and '_') are passed through unescaped.
//
// Example:
//
//	cols := schema.Columns{{Name: "Age", Type: schema.Number}}
//	q := filter.Compile([]filter.Descriptor{
//		filter.NewDescriptor("Age", filter.GreaterThan, "25"),
//	}, cols, filter.Options{TableName: "users", Format: true})
//	// SELECT * FROM users
//	// WHERE "Age" > 25
package filter
