package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ridoystarlord/schemato/generator"
	"github.com/ridoystarlord/schemato/utils"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "schemato",
	Short: "Generate PostgreSQL DDL from declarative table schemas",
	Long: `schemato compiles declarative table schemas (YAML files or Go structs
with schemato tags) into PostgreSQL DDL, without ever touching a database.

Examples:

  schemato init
  schemato generate
  schemato validate
`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: schemato.yaml in the working directory)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(docsCmd)
}

// initConfig loads .env, the optional schemato.yaml config file and
// SCHEMATO_* environment overrides into viper, seeded with the generator
// defaults.
func initConfig() {
	utils.LoadEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("schemato")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("SCHEMATO")
	viper.AutomaticEnv()

	defaults := generator.DefaultConfig()
	viper.SetDefault("formatSql", defaults.FormatSQL)
	viper.SetDefault("enableRlsByDefault", defaults.EnableRLSByDefault)
	viper.SetDefault("addTimestamps", defaults.AddTimestamps)
	viper.SetDefault("useExplicitNullability", defaults.UseExplicitNullability)
	viper.SetDefault("generateComments", defaults.GenerateComments)
	viper.SetDefault("validateSchema", defaults.ValidateSchema)
	viper.SetDefault("migration.mode", string(defaults.Migration.Mode))
	viper.SetDefault("migration.enableColumnAdding", defaults.Migration.EnableColumnAdding)
	viper.SetDefault("migration.enableColumnDropping", defaults.Migration.EnableColumnDropping)
	viper.SetDefault("migration.enableIndexCreation", defaults.Migration.EnableIndexCreation)
	viper.SetDefault("migration.enableConstraintModification", defaults.Migration.EnableConstraintModification)
	viper.SetDefault("migration.generateDoBlocks", defaults.Migration.GenerateDoBlocks)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			fmt.Println("❌ Reading config:", err)
			os.Exit(1)
		}
	}
}

// loadGeneratorConfig materializes the resolved viper settings into a
// GeneratorConfig.
func loadGeneratorConfig() (generator.GeneratorConfig, error) {
	mode, err := generator.ParseMigrationMode(viper.GetString("migration.mode"))
	if err != nil {
		return generator.GeneratorConfig{}, err
	}

	return generator.GeneratorConfig{
		FormatSQL:              viper.GetBool("formatSql"),
		EnableRLSByDefault:     viper.GetBool("enableRlsByDefault"),
		AddTimestamps:          viper.GetBool("addTimestamps"),
		UseExplicitNullability: viper.GetBool("useExplicitNullability"),
		GenerateComments:       viper.GetBool("generateComments"),
		ValidateSchema:         viper.GetBool("validateSchema"),
		Migration: generator.MigrationConfig{
			Mode:                         mode,
			EnableColumnAdding:           viper.GetBool("migration.enableColumnAdding"),
			EnableColumnDropping:         viper.GetBool("migration.enableColumnDropping"),
			EnableIndexCreation:          viper.GetBool("migration.enableIndexCreation"),
			EnableConstraintModification: viper.GetBool("migration.enableConstraintModification"),
			GenerateDoBlocks:             viper.GetBool("migration.generateDoBlocks"),
		},
	}, nil
}
