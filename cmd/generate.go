package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ridoystarlord/schemato/generator"
	"github.com/ridoystarlord/schemato/loader"
	"github.com/ridoystarlord/schemato/schema"
)

var (
	schemaFile        string
	generateModelsDir string
	useStructs        bool
	outputDir         string
	dryRunGenerate    bool
)

func init() {
	generateCmd.Flags().StringVarP(&schemaFile, "file", "f", "schema.yaml", "Schema YAML file to load")
	generateCmd.Flags().StringVarP(&generateModelsDir, "models", "m", "models", "Models directory to load structs from")
	generateCmd.Flags().BoolVar(&useStructs, "structs", false, "Load schema from Go structs instead of YAML")
	generateCmd.Flags().StringVarP(&outputDir, "out", "o", "migrations", "Directory to write .schema.sql files to")
	generateCmd.Flags().BoolVar(&dryRunGenerate, "dry-run", false, "Preview the SQL that would be generated without writing files")

	generateCmd.Flags().String("mode", "", "Migration mode (create, create-if-not-exists, create-or-alter, alter, drop-and-recreate)")
	generateCmd.Flags().Bool("do-blocks", false, "Guard ADD COLUMN statements with DO blocks")
	generateCmd.Flags().Bool("explicit-nullability", false, "Always emit NULL/NOT NULL on every column")
	viper.BindPFlag("migration.mode", generateCmd.Flags().Lookup("mode"))
	viper.BindPFlag("migration.generateDoBlocks", generateCmd.Flags().Lookup("do-blocks"))
	viper.BindPFlag("useExplicitNullability", generateCmd.Flags().Lookup("explicit-nullability"))
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate .schema.sql files from schema definition",
	Long: `Generate PostgreSQL DDL files from schema definition.

Default: YAML schema file
- schemato generate                   # Generate from schema.yaml
- schemato generate -f custom.yaml    # Generate from custom YAML file

With --structs flag: Go structs with schemato tags
- schemato generate --structs         # Generate from models/ directory
- schemato generate --structs -m app/models

Each table compiles independently to <out>/<table>.schema.sql; one invalid
table does not stop the others.

Examples:
  schemato generate                         # Write migrations/<table>.schema.sql
  schemato generate --mode drop-and-recreate
  schemato generate --dry-run               # Print SQL without writing files
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadGeneratorConfig()
		if err != nil {
			fmt.Println("❌", err)
			os.Exit(1)
		}

		var tables []schema.TableSchema
		if useStructs {
			tables, err = loader.LoadTablesFromTags(generateModelsDir, cfg)
		} else {
			tables, err = loader.LoadTablesFromYAML(schemaFile, cfg)
		}
		if err != nil {
			fmt.Println("❌ Loading schema:", err)
			os.Exit(1)
		}
		if len(tables) == 0 {
			fmt.Println("✅ No tables defined, nothing to generate.")
			return
		}

		failed := 0
		for _, table := range tables {
			sqlText, err := generator.Generate(table, cfg)
			if err != nil {
				color.Red("❌ %s: %v", table.Name, err)
				failed++
				continue
			}
			if sqlText == "" {
				fmt.Printf("ℹ️  %s: no statements for mode %s\n", table.Name, cfg.Migration.Mode)
				continue
			}

			if dryRunGenerate {
				fmt.Printf("-- %s --\n%s\n", table.Name, sqlText)
				continue
			}

			filename, err := generator.WriteSchemaFile(outputDir, table.Name, sqlText)
			if err != nil {
				color.Red("❌ %s: %v", table.Name, err)
				failed++
				continue
			}
			color.Green("✅ %s -> %s", table.Name, filename)
		}

		if failed > 0 {
			fmt.Printf("\n❌ %d of %d tables failed.\n", failed, len(tables))
			os.Exit(1)
		}
	},
}
