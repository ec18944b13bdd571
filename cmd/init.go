package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initStructs bool

func init() {
	initCmd.Flags().BoolVar(&initStructs, "structs", false, "Scaffold Go struct models instead of a YAML schema")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new schemato project",
	Long: `Initialize a new schemato project with your preferred schema definition method.

Default: YAML schema file
- Simple, declarative schema definition
- Covers every feature: constraints, indexes, RLS policies, partitioning

Alternative: Go structs with schemato tags (--structs)
- Type-safe, IDE-friendly schema definition

Examples:
  schemato init                   # Create an example schema.yaml
  schemato init --structs         # Create an example models/user.go`,
	Run: func(cmd *cobra.Command, args []string) {
		if initStructs {
			initStructModels()
			return
		}
		initYAMLSchema()
	},
}

func initYAMLSchema() {
	if _, err := os.Stat("schema.yaml"); err == nil {
		fmt.Println("❌ schema.yaml already exists!")
		return
	}

	content := `# Declarative table schemas compiled to PostgreSQL DDL
tables:
  - name: users
    comment: Registered user accounts
    rls: true
    columns:
      - name: id
        type: uuid
        primary: true
        default: gen_random_uuid()
      - name: email
        type: text
        unique: true
        nullable: false
        checks:
          - "email <> ''"
      - name: status
        type: varchar(32)
        nullable: false
        default: "'active'"
      - name: created_at
        type: timestamptz
        nullable: false
        default: CURRENT_TIMESTAMP
    indexes:
      - columns: [status, created_at]
    policies:
      - name: own_data
        command: all
        using: "auth.uid() = id"

  - name: posts
    columns:
      - name: id
        type: bigserial
        primary: true
      - name: user_id
        type: uuid
        nullable: false
        foreign_key:
          table: users
          column: id
          on_delete: cascade
      - name: title
        type: text
        nullable: false
      - name: body
        type: text
    indexes:
      - columns: [user_id]
`

	if err := os.WriteFile("schema.yaml", []byte(content), 0644); err != nil {
		fmt.Println("❌ Writing schema.yaml:", err)
		os.Exit(1)
	}
	fmt.Println("✅ Created schema.yaml")
	fmt.Println("Next: edit schema.yaml, then run 'schemato generate'")
}

func initStructModels() {
	path := filepath.Join("models", "user.go")
	if _, err := os.Stat(path); err == nil {
		fmt.Println("❌ models/user.go already exists!")
		return
	}
	if err := os.MkdirAll("models", 0755); err != nil {
		fmt.Println("❌ Creating models directory:", err)
		os.Exit(1)
	}

	content := `package models

import "time"

// User maps to the users table.
type User struct {
	ID        string    ` + "`schemato:\"type:uuid;primary;default:gen_random_uuid()\"`" + `
	Email     string    ` + "`schemato:\"unique;index\"`" + `
	Status    string    ` + "`schemato:\"type:varchar(32);default:'active'\"`" + `
	CreatedAt time.Time ` + "`schemato:\"default:CURRENT_TIMESTAMP\"`" + `
}

// Post maps to the posts table.
type Post struct {
	ID     int64  ` + "`schemato:\"primary\"`" + `
	UserID string ` + "`schemato:\"type:uuid;fk:users.id:cascade;index\"`" + `
	Title  string
	Body   *string
}
`

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		fmt.Println("❌ Writing models/user.go:", err)
		os.Exit(1)
	}
	fmt.Println("✅ Created models/user.go")
	fmt.Println("Next: edit your models, then run 'schemato generate --structs'")
}
