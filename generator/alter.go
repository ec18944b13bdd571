package generator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/schemato/schema"
)

// BuildAddColumns renders the conditional ADD COLUMN block for the alter
// and create-or-alter modes. Primary-key columns are skipped entirely: a
// primary key cannot be attached through ADD COLUMN. Returns nothing when
// column adding is disabled or no column qualifies.
func BuildAddColumns(s schema.TableSchema, cfg GeneratorConfig) ([]string, error) {
	if !cfg.Migration.EnableColumnAdding {
		return nil, nil
	}
	if strings.TrimSpace(s.Name) == "" {
		return nil, configErr(s.Name, "", "table name cannot be empty")
	}

	var addable []schema.ColumnSchema
	for _, col := range s.Columns {
		if col.IsPrimaryKey {
			continue
		}
		addable = append(addable, col)
	}
	if len(addable) == 0 {
		return nil, nil
	}

	composite := len(effectivePrimaryKey(s)) > 1

	if cfg.Migration.GenerateDoBlocks {
		return []string{buildGuardedAddColumns(s, addable, composite, cfg)}, nil
	}

	var stmts []string
	for _, col := range addable {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s;",
			s.Name, BuildColumnDefinition(col, composite, true, cfg.UseExplicitNullability)))
	}
	return stmts, nil
}

// buildGuardedAddColumns wraps every ADD COLUMN in an information_schema
// existence probe inside a single DO block, for PostgreSQL versions and
// tooling where ADD COLUMN IF NOT EXISTS is not acceptable.
func buildGuardedAddColumns(s schema.TableSchema, cols []schema.ColumnSchema, composite bool, cfg GeneratorConfig) string {
	var b strings.Builder
	b.WriteString("DO $$\nBEGIN\n")
	for _, col := range cols {
		fmt.Fprintf(&b, "  IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = '%s' AND column_name = '%s') THEN\n",
			s.Name, col.Name)
		fmt.Fprintf(&b, "    ALTER TABLE %s ADD COLUMN %s;\n",
			s.Name, BuildColumnDefinition(col, composite, true, cfg.UseExplicitNullability))
		b.WriteString("  END IF;\n")
	}
	b.WriteString("END $$;")
	return b.String()
}
