package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ridoystarlord/schemato/schema"
	"github.com/ridoystarlord/schemato/validator"
)

// Generate compiles one table schema into PostgreSQL DDL text under the
// configured migration mode. The result is either a complete statement
// sequence (blank-line separated, semicolon terminated) or an error; no
// partial SQL is ever returned. Compilation is deterministic: the same
// schema and config always produce byte-identical output.
func Generate(s schema.TableSchema, cfg GeneratorConfig) (string, error) {
	if cfg.ValidateSchema {
		result := validator.ValidateTable(s)
		if !result.Valid {
			return "", result.Err(s.Name)
		}
	}

	strategy, err := strategyFor(cfg.Migration.Mode)
	if err != nil {
		return "", err
	}

	stmts, err := strategy(s, cfg)
	if err != nil {
		return "", err
	}
	if len(stmts) == 0 {
		return "", nil
	}

	text := strings.Join(stmts, "\n\n") + "\n"
	if cfg.FormatSQL {
		text = Format(text)
	}
	return text, nil
}

// WriteSchemaFile saves generated DDL as <table>.schema.sql under dir,
// creating the directory if needed. Returns the written path.
func WriteSchemaFile(dir, table, sqlText string) (string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output folder: %v", err)
		}
	}

	filename := filepath.Join(dir, table+".schema.sql")
	if err := os.WriteFile(filename, []byte(sqlText), 0644); err != nil {
		return "", fmt.Errorf("writing schema file: %v", err)
	}
	return filename, nil
}
