package generator

import (
	"fmt"
	"strings"
)

// MigrationMode selects which of the five emission strategies compiles the
// schema. The mode is fixed for the duration of one Generate call.
type MigrationMode string

const (
	ModeCreateOnly        MigrationMode = "create"
	ModeCreateIfNotExists MigrationMode = "create-if-not-exists"
	ModeCreateOrAlter     MigrationMode = "create-or-alter"
	ModeAlterOnly         MigrationMode = "alter"
	ModeDropAndRecreate   MigrationMode = "drop-and-recreate"
)

// ParseMigrationMode accepts mode names case-insensitively.
func ParseMigrationMode(s string) (MigrationMode, error) {
	mode := MigrationMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case ModeCreateOnly, ModeCreateIfNotExists, ModeCreateOrAlter, ModeAlterOnly, ModeDropAndRecreate:
		return mode, nil
	}
	return "", fmt.Errorf("invalid migration mode %q, must be one of: create, create-if-not-exists, create-or-alter, alter, drop-and-recreate", s)
}

// MigrationConfig tunes strategy behavior.
type MigrationConfig struct {
	Mode MigrationMode

	// EnableColumnAdding gates the conditional ADD COLUMN block in the
	// create-or-alter and alter modes.
	EnableColumnAdding bool

	// EnableColumnDropping is accepted for config compatibility but has no
	// effect: dropping columns requires diffing against a live database,
	// which this generator never does.
	EnableColumnDropping bool

	// EnableIndexCreation gates CREATE INDEX emission.
	EnableIndexCreation bool

	// EnableConstraintModification gates ALTER TABLE ADD CONSTRAINT
	// emission for foreign keys.
	EnableConstraintModification bool

	// GenerateDoBlocks switches the ADD COLUMN block from per-column
	// ADD COLUMN IF NOT EXISTS statements to a single guarded DO block
	// probing information_schema.
	GenerateDoBlocks bool
}

// GeneratorConfig carries the recognized generation options.
type GeneratorConfig struct {
	FormatSQL              bool
	EnableRLSByDefault     bool
	AddTimestamps          bool
	UseExplicitNullability bool
	GenerateComments       bool
	ValidateSchema         bool
	Migration              MigrationConfig
}

// DefaultConfig returns the documented defaults: formatted output, comments
// and validation on, create-if-not-exists mode with column adding, index
// creation and constraint emission enabled.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		FormatSQL:        true,
		GenerateComments: true,
		ValidateSchema:   true,
		Migration: MigrationConfig{
			Mode:                         ModeCreateIfNotExists,
			EnableColumnAdding:           true,
			EnableIndexCreation:          true,
			EnableConstraintModification: true,
		},
	}
}
