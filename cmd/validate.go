package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/schemato/generator"
	"github.com/ridoystarlord/schemato/loader"
	"github.com/ridoystarlord/schemato/schema"
	"github.com/ridoystarlord/schemato/validator"
)

var (
	validateSchemaFile string
	validateModelsDir  string
	validateStructs    bool
	validateFormat     string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "schema.yaml", "Schema file to validate")
	validateCmd.Flags().StringVarP(&validateModelsDir, "models", "m", "models", "Models directory to load structs from")
	validateCmd.Flags().BoolVar(&validateStructs, "structs", false, "Validate Go structs instead of YAML")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate schema definition against structural rules",
	Long: `Validate your schema definition against PostgreSQL structural rules.

This command performs offline validation including:
- Table and column naming (PostgreSQL identifier rules)
- Primary key presence (warning only, a table without one is legal)
- Foreign key references (non-empty target tables, declared source columns)
- Index definitions (columns must exist on the table)
- RLS policies (non-empty USING conditions)
- Partitioning (partition columns must be part of the primary key)
- Default values (type compatibility, required extensions)

No database connection is used; validation is purely structural.

Examples:
  schemato validate                      # Validate schema.yaml
  schemato validate -s custom.yaml       # Validate custom schema file
  schemato validate --structs            # Validate Go struct models
  schemato validate --format json        # Output validation results as JSON
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(); err != nil {
			fmt.Printf("❌ Schema validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runValidate() error {
	cfg, err := loadGeneratorConfig()
	if err != nil {
		return err
	}

	tables, err := loadSchema(cfg)
	if err != nil {
		return fmt.Errorf("failed to load schema: %v", err)
	}

	result := validator.ValidateTables(tables)

	if validateFormat == "json" {
		if err := outputJSON(result); err != nil {
			return err
		}
	} else {
		outputText(result)
	}

	if !result.Valid {
		os.Exit(1)
	}
	return nil
}

func loadSchema(cfg generator.GeneratorConfig) ([]schema.TableSchema, error) {
	if validateStructs {
		return loader.LoadTablesFromTags(validateModelsDir, cfg)
	}
	return loader.LoadTablesFromYAML(validateSchemaFile, cfg)
}

func outputJSON(result *validator.ValidationResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *validator.ValidationResult) {
	if result.Valid {
		color.Green("✅ Schema validation passed!")
	} else {
		color.Red("❌ Schema validation failed!")
	}

	printFindings("\n🔴 Errors (%d):\n", result.Errors)
	printFindings("\n🟡 Warnings (%d):\n", result.Warnings)
	printFindings("\n🔵 Info (%d):\n", result.Info)

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  • Errors: %d\n", len(result.Errors))
	fmt.Printf("  • Warnings: %d\n", len(result.Warnings))
	fmt.Printf("  • Info: %d\n", len(result.Info))
}

func printFindings(header string, findings []validator.ValidationError) {
	if len(findings) == 0 {
		return
	}
	fmt.Printf(header, len(findings))
	for i, f := range findings {
		fmt.Printf("  %d. ", i+1)
		if f.Table != "" {
			fmt.Printf("[%s]", f.Table)
		}
		if f.Column != "" {
			fmt.Printf(".%s", f.Column)
		}
		if f.Index != "" {
			fmt.Printf(" (index: %s)", f.Index)
		}
		if f.Policy != "" {
			fmt.Printf(" (policy: %s)", f.Policy)
		}
		fmt.Printf(": %s\n", f.Message)
	}
}
