package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ridoystarlord/schemato/schema"
)

// BuildIndexes renders one CREATE INDEX statement per declared index,
// enforcing the access-method restrictions (hash is single-column, brin is
// never unique, only btree takes INCLUDE).
func BuildIndexes(s schema.TableSchema) ([]string, error) {
	var stmts []string

	for _, ix := range s.Indexes {
		name := ix.ResolvedName(s.Name)

		if len(ix.Columns) > 0 && ix.Expression != "" {
			return nil, configErr(s.Name, "index "+name, "columns and expression are mutually exclusive")
		}
		if len(ix.Columns) == 0 && ix.Expression == "" {
			return nil, configErr(s.Name, "index "+name, "index needs columns or an expression")
		}
		if ix.Expression != "" && ix.Name == "" {
			return nil, configErr(s.Name, "index", "expression index requires an explicit name")
		}
		if !ix.Type.Valid() {
			return nil, configErr(s.Name, "index "+name, "invalid index type %q", string(ix.Type))
		}
		if ix.Type.SingleColumnOnly() && len(ix.Columns) > 1 {
			return nil, configErr(s.Name, "index "+name, "%s indexes support a single column, got %d", ix.Type, len(ix.Columns))
		}
		if ix.Unique && !ix.Type.SupportsUnique() {
			return nil, configErr(s.Name, "index "+name, "%s indexes cannot be unique", ix.Type)
		}
		if len(ix.Include) > 0 && !ix.Type.SupportsInclude() {
			return nil, configErr(s.Name, "index "+name, "%s indexes do not support INCLUDE", ix.Type)
		}

		var b strings.Builder
		b.WriteString("CREATE ")
		if ix.Unique {
			b.WriteString("UNIQUE ")
		}
		b.WriteString("INDEX IF NOT EXISTS ")
		b.WriteString(name)
		b.WriteString(" ON ")
		b.WriteString(s.Name)
		if ix.Type != "" && ix.Type != schema.BTree {
			b.WriteString(" USING ")
			b.WriteString(string(ix.Type))
		}
		if ix.Expression != "" {
			fmt.Fprintf(&b, " ((%s))", ix.Expression)
		} else {
			fmt.Fprintf(&b, " (%s)", strings.Join(ix.Columns, ", "))
		}
		if len(ix.Include) > 0 {
			fmt.Fprintf(&b, " INCLUDE (%s)", strings.Join(ix.Include, ", "))
		}
		if len(ix.StorageParameters) > 0 {
			keys := make([]string, 0, len(ix.StorageParameters))
			for k := range ix.StorageParameters {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			params := make([]string, len(keys))
			for i, k := range keys {
				params[i] = fmt.Sprintf("%s = %s", k, ix.StorageParameters[k])
			}
			fmt.Fprintf(&b, " WITH (%s)", strings.Join(params, ", "))
		}
		if ix.Where != "" {
			fmt.Fprintf(&b, " WHERE %s", ix.Where)
		}
		b.WriteString(";")

		stmts = append(stmts, b.String())
	}

	return stmts, nil
}

// BuildForeignKeys renders ALTER TABLE ADD CONSTRAINT statements for every
// column with a declared foreign key, in column declaration order. When a
// column has duplicate foreign keys the first declared one wins. A foreign
// key naming a source column that is not declared on the table is an error
// rather than being dropped silently.
func BuildForeignKeys(s schema.TableSchema) ([]string, error) {
	for _, fk := range s.ForeignKeys {
		if !s.HasColumn(fk.Column) {
			return nil, configErr(s.Name, "foreign key on "+fk.Column, "column %q is not declared on the table", fk.Column)
		}
	}

	var stmts []string
	for _, col := range s.Columns {
		fk, ok := s.ForeignKeyFor(col.Name)
		if !ok {
			continue
		}
		if strings.TrimSpace(fk.ReferencesTable) == "" {
			return nil, configErr(s.Name, "foreign key on "+col.Name, "references table cannot be empty")
		}
		if fk.OnDelete != "" {
			if !fk.OnDelete.Valid() {
				return nil, configErr(s.Name, "foreign key on "+col.Name, "invalid ON DELETE action %q", string(fk.OnDelete))
			}
			if err := fk.OnDelete.CompatibleWith(col); err != nil {
				return nil, configErr(s.Name, "foreign key on "+col.Name, "ON DELETE %v", err)
			}
		}
		if fk.OnUpdate != "" {
			if !fk.OnUpdate.Valid() {
				return nil, configErr(s.Name, "foreign key on "+col.Name, "invalid ON UPDATE action %q", string(fk.OnUpdate))
			}
			if err := fk.OnUpdate.CompatibleWith(col); err != nil {
				return nil, configErr(s.Name, "foreign key on "+col.Name, "ON UPDATE %v", err)
			}
		}

		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
			s.Name,
			fk.ConstraintName(s.Name),
			col.Name,
			fk.ReferencesTable,
			fk.TargetColumn(),
		)
		if fk.OnDelete != "" {
			stmt += " ON DELETE " + fk.OnDelete.SQL()
		}
		if fk.OnUpdate != "" {
			stmt += " ON UPDATE " + fk.OnUpdate.SQL()
		}
		stmts = append(stmts, stmt+";")
	}

	return stmts, nil
}

// BuildRLS renders the ENABLE ROW LEVEL SECURITY statement followed by one
// CREATE POLICY per declared policy, in declaration order. An empty role
// list omits the TO clause, which PostgreSQL treats as TO PUBLIC.
func BuildRLS(s schema.TableSchema, generateComments bool) ([]string, error) {
	if !s.EnableRLS {
		return nil, nil
	}

	stmts := []string{fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY;", s.Name)}

	for _, policy := range s.Policies {
		if strings.TrimSpace(policy.Name) == "" {
			return nil, configErr(s.Name, "policy", "policy name cannot be empty")
		}
		if strings.TrimSpace(policy.Using) == "" {
			return nil, configErr(s.Name, "policy "+policy.Name, "USING condition cannot be empty")
		}
		command := policy.Command
		if command == "" {
			command = schema.PolicyAll
		}

		var b strings.Builder
		fmt.Fprintf(&b, "CREATE POLICY %s ON %s FOR %s", policy.Name, s.Name, command)
		if len(policy.Roles) > 0 {
			fmt.Fprintf(&b, " TO %s", strings.Join(policy.Roles, ", "))
		}
		fmt.Fprintf(&b, " USING (%s)", policy.Using)
		if policy.WithCheck != "" {
			fmt.Fprintf(&b, " WITH CHECK (%s)", policy.WithCheck)
		}
		b.WriteString(";")
		stmts = append(stmts, b.String())

		if generateComments && policy.Comment != "" {
			stmts = append(stmts, fmt.Sprintf("COMMENT ON POLICY %s ON %s IS '%s';",
				policy.Name, s.Name, escapeLiteral(policy.Comment)))
		}
	}

	return stmts, nil
}

// BuildTableComment renders the COMMENT ON TABLE statement.
func BuildTableComment(s schema.TableSchema) string {
	return fmt.Sprintf("COMMENT ON TABLE %s IS '%s';", s.Name, escapeLiteral(s.Comment))
}

// BuildColumnComments renders one COMMENT ON COLUMN statement per commented
// column, in declaration order.
func BuildColumnComments(s schema.TableSchema) []string {
	var stmts []string
	for _, col := range s.Columns {
		if col.Comment == "" {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("COMMENT ON COLUMN %s.%s IS '%s';",
			s.Name, col.Name, escapeLiteral(col.Comment)))
	}
	return stmts
}

// escapeLiteral doubles single quotes for embedding in an SQL string
// literal.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
