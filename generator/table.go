package generator

import (
	"strings"

	"github.com/ridoystarlord/schemato/schema"
)

// effectivePrimaryKey returns the primary-key column set used for composite
// detection and the trailing PRIMARY KEY line. Partition columns are folded
// in because PostgreSQL requires partition keys to participate in any
// unique constraint on a partitioned table. Folding only happens when at
// least one column is declared primary-key; otherwise the table simply has
// no primary key.
func effectivePrimaryKey(s schema.TableSchema) []string {
	pk := s.PrimaryKeyColumns()
	if s.Partition == nil || len(pk) == 0 {
		return pk
	}
	present := make(map[string]bool, len(pk))
	for _, col := range pk {
		present[col] = true
	}
	for _, col := range s.Partition.Columns() {
		if !present[col] {
			pk = append(pk, col)
			present[col] = true
		}
	}
	return pk
}

// BuildCreateTable renders the CREATE TABLE statement for the schema,
// optionally with IF NOT EXISTS. Composite primary keys (after partition
// folding) move from the column lines to a trailing PRIMARY KEY line, and a
// declared partition strategy is appended after the closing paren.
func BuildCreateTable(s schema.TableSchema, ifNotExists bool, cfg GeneratorConfig) (string, error) {
	if strings.TrimSpace(s.Name) == "" {
		return "", configErr(s.Name, "", "table name cannot be empty")
	}
	if len(s.Columns) == 0 {
		return "", configErr(s.Name, "", "table has no columns")
	}

	pk := effectivePrimaryKey(s)
	composite := len(pk) > 1

	var lines []string
	for _, col := range s.Columns {
		lines = append(lines, "  "+BuildColumnDefinition(col, composite, false, cfg.UseExplicitNullability))
	}
	pkConstraints := 0
	for _, constraint := range s.Constraints {
		if err := constraint.Validate(); err != nil {
			return "", configErr(s.Name, "constraint "+constraint.ConstraintName(), "%v", err)
		}
		if _, ok := constraint.(schema.PrimaryKeyConstraint); ok {
			pkConstraints++
			if pkConstraints > 1 {
				return "", configErr(s.Name, "constraint "+constraint.ConstraintName(), "table already has a primary key constraint")
			}
			if len(pk) > 0 {
				return "", configErr(s.Name, "constraint "+constraint.ConstraintName(),
					"conflicts with primary key columns (%s)", strings.Join(pk, ", "))
			}
		}
		lines = append(lines, "  "+constraint.SQL())
	}
	if composite {
		lines = append(lines, "  PRIMARY KEY ("+strings.Join(pk, ", ")+")")
	}

	// Every line except the structurally last gets a trailing comma.
	for i := 0; i < len(lines)-1; i++ {
		lines[i] += ","
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(s.Name)
	b.WriteString(" (\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n)")
	if s.Partition != nil {
		if err := s.Partition.Validate(); err != nil {
			return "", configErr(s.Name, "partition", "%v", err)
		}
		b.WriteString("\n")
		b.WriteString(s.Partition.SQL())
	}
	b.WriteString(";")

	return b.String(), nil
}
