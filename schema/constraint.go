package schema

import (
	"fmt"
	"strings"
)

// TableConstraint is a table-level constraint: CHECK, UNIQUE or PRIMARY KEY.
// Each variant validates its own shape and renders its CONSTRAINT clause.
type TableConstraint interface {
	ConstraintName() string
	SQL() string
	Validate() error
}

type CheckConstraint struct {
	Name      string
	Condition string
}

func (c CheckConstraint) ConstraintName() string { return c.Name }

func (c CheckConstraint) SQL() string {
	return fmt.Sprintf("CONSTRAINT %s CHECK (%s)", c.Name, c.Condition)
}

func (c CheckConstraint) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("check constraint name cannot be empty")
	}
	if strings.TrimSpace(c.Condition) == "" {
		return fmt.Errorf("check constraint %q has an empty condition", c.Name)
	}
	return nil
}

type UniqueConstraint struct {
	Name    string
	Columns []string
}

func (c UniqueConstraint) ConstraintName() string { return c.Name }

func (c UniqueConstraint) SQL() string {
	return fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)", c.Name, strings.Join(c.Columns, ", "))
}

func (c UniqueConstraint) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("unique constraint name cannot be empty")
	}
	if len(c.Columns) == 0 {
		return fmt.Errorf("unique constraint %q has no columns", c.Name)
	}
	return nil
}

type PrimaryKeyConstraint struct {
	Name    string
	Columns []string
}

func (c PrimaryKeyConstraint) ConstraintName() string { return c.Name }

func (c PrimaryKeyConstraint) SQL() string {
	return fmt.Sprintf("CONSTRAINT %s PRIMARY KEY (%s)", c.Name, strings.Join(c.Columns, ", "))
}

func (c PrimaryKeyConstraint) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("primary key constraint name cannot be empty")
	}
	if len(c.Columns) == 0 {
		return fmt.Errorf("primary key constraint %q has no columns", c.Name)
	}
	return nil
}
