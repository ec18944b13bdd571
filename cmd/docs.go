package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/schemato/loader"
	"github.com/ridoystarlord/schemato/schema"
)

var (
	docsFile   string
	docsOutput string
)

func init() {
	docsCmd.Flags().StringVarP(&docsFile, "file", "f", "schema.yaml", "Schema YAML file to load")
	docsCmd.Flags().StringVarP(&docsOutput, "output", "o", "", "Output file (default: stdout)")
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate a Mermaid ERD from the schema",
	Long: `Generate a Mermaid entity-relationship diagram from your schema.yaml.

Examples:
  schemato docs                      # Print Mermaid ERD to stdout
  schemato docs --output erd.md      # Write ERD to erd.md
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadGeneratorConfig()
		if err != nil {
			fmt.Println("❌", err)
			os.Exit(1)
		}

		tables, err := loader.LoadTablesFromYAML(docsFile, cfg)
		if err != nil {
			fmt.Println("❌ Loading schema:", err)
			os.Exit(1)
		}

		diagram := buildMermaidERD(tables)

		if docsOutput == "" {
			fmt.Println(diagram)
			return
		}
		if err := os.WriteFile(docsOutput, []byte(diagram), 0644); err != nil {
			fmt.Println("❌ Writing output:", err)
			os.Exit(1)
		}
		fmt.Println("✅ ERD written to", docsOutput)
	},
}

func buildMermaidERD(tables []schema.TableSchema) string {
	var b strings.Builder
	b.WriteString("```mermaid\nerDiagram\n")

	for _, table := range tables {
		fmt.Fprintf(&b, "  %s {\n", table.Name)
		for _, col := range table.Columns {
			// Mermaid attribute types cannot contain spaces or parens.
			colType := strings.NewReplacer(" ", "_", "(", "_", ")", "", ",", "_").Replace(col.Type)
			fmt.Fprintf(&b, "    %s %s", colType, col.Name)
			if col.IsPrimaryKey {
				b.WriteString(" PK")
			} else if col.IsUnique {
				b.WriteString(" UK")
			}
			b.WriteString("\n")
		}
		b.WriteString("  }\n")
	}

	for _, table := range tables {
		for _, fk := range table.ForeignKeys {
			fmt.Fprintf(&b, "  %s }o--|| %s : %s\n", table.Name, fk.ReferencesTable, fk.Column)
		}
	}

	b.WriteString("```\n")
	return b.String()
}
