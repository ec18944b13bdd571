package generator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/schemato/schema"
)

// BuildColumnConstraints returns the ordered constraint fragments for one
// column: PRIMARY KEY, nullability, UNIQUE, DEFAULT, CHECKs, COLLATE.
//
// PRIMARY KEY is emitted inline only for a single-column primary key
// (hasCompositePK false) and only when the caller allows it; ALTER TABLE
// ADD COLUMN cannot attach one, so those callers pass skipPrimaryKey. Under
// the default nullability policy NOT NULL appears only for non-nullable
// non-PK columns (the PK already implies it); the explicit policy always
// emits NULL or NOT NULL, with PK columns pinned to NOT NULL.
func BuildColumnConstraints(col schema.ColumnSchema, hasCompositePK, skipPrimaryKey, explicitNullability bool) []string {
	var parts []string

	if col.IsPrimaryKey && !hasCompositePK && !skipPrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}

	if explicitNullability {
		if col.IsPrimaryKey || !col.IsNullable {
			parts = append(parts, "NOT NULL")
		} else {
			parts = append(parts, "NULL")
		}
	} else if !col.IsNullable && !col.IsPrimaryKey {
		parts = append(parts, "NOT NULL")
	}

	if col.IsUnique && !col.IsPrimaryKey {
		parts = append(parts, "UNIQUE")
	}

	if col.Default != nil {
		parts = append(parts, "DEFAULT "+col.Default.SQL())
	}

	for _, check := range col.Checks {
		parts = append(parts, fmt.Sprintf("CHECK (%s)", check))
	}

	if col.Collation != "" {
		parts = append(parts, fmt.Sprintf("COLLATE %q", col.Collation))
	}

	return parts
}

// BuildColumnDefinition renders "<name> <type> <constraints...>".
func BuildColumnDefinition(col schema.ColumnSchema, hasCompositePK, skipPrimaryKey, explicitNullability bool) string {
	def := col.Name + " " + col.Type
	constraints := BuildColumnConstraints(col, hasCompositePK, skipPrimaryKey, explicitNullability)
	if len(constraints) > 0 {
		def += " " + strings.Join(constraints, " ")
	}
	return def
}
