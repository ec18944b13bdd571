package schema

import (
	"fmt"
	"strings"
)

// TableSchema is the full declared specification of one table. It is built
// once by a loader and read-only for the duration of a compile call.
type TableSchema struct {
	Name        string
	Columns     []ColumnSchema
	Constraints []TableConstraint
	Indexes     []DatabaseIndex
	Policies    []RlsPolicy
	ForeignKeys []ForeignKey
	Comment     string
	EnableRLS   bool
	Partition   *PartitionStrategy
}

// ColumnSchema is one declared column. A primary-key column is always
// treated as NOT NULL and unique regardless of IsNullable/IsUnique.
type ColumnSchema struct {
	Name         string
	Type         string // rendered SQL type, see ColumnType
	IsNullable   bool
	IsPrimaryKey bool
	IsUnique     bool
	Default      *DefaultValue
	Checks       []string
	Collation    string
	Comment      string
}

// DatabaseIndex declares a secondary index. Columns and Expression are
// mutually exclusive; an unnamed column index gets a deterministic derived
// name so repeated generation is idempotent.
type DatabaseIndex struct {
	Name              string
	Columns           []string
	Expression        string
	Unique            bool
	Type              IndexType
	Where             string
	Include           []string
	StorageParameters map[string]string
}

// ResolvedName returns the explicit index name, or derives
// idx[_unique]_<table>_<columns> from the target table and columns.
func (ix DatabaseIndex) ResolvedName(table string) string {
	if ix.Name != "" {
		return ix.Name
	}
	prefix := "idx"
	if ix.Unique {
		prefix = "idx_unique"
	}
	return fmt.Sprintf("%s_%s_%s", prefix, table, strings.Join(ix.Columns, "_"))
}

// PolicyCommand is the statement class an RLS policy applies to.
type PolicyCommand string

const (
	PolicyAll    PolicyCommand = "ALL"
	PolicySelect PolicyCommand = "SELECT"
	PolicyInsert PolicyCommand = "INSERT"
	PolicyUpdate PolicyCommand = "UPDATE"
	PolicyDelete PolicyCommand = "DELETE"
)

// ParsePolicyCommand accepts command names case-insensitively; "" means ALL.
func ParsePolicyCommand(s string) (PolicyCommand, error) {
	cmd := PolicyCommand(strings.ToUpper(strings.TrimSpace(s)))
	switch cmd {
	case "":
		return PolicyAll, nil
	case PolicyAll, PolicySelect, PolicyInsert, PolicyUpdate, PolicyDelete:
		return cmd, nil
	}
	return "", fmt.Errorf("invalid policy command %q, must be one of: all, select, insert, update, delete", s)
}

// RlsPolicy declares one row-level-security policy. An empty role list emits
// no TO clause, which PostgreSQL treats as TO PUBLIC.
type RlsPolicy struct {
	Name      string
	Command   PolicyCommand
	Roles     []string
	Using     string
	WithCheck string
	Comment   string
}

// ForeignKey declares a single-column reference to another table.
type ForeignKey struct {
	Column           string
	ReferencesTable  string
	ReferencesColumn string // defaults to "id"
	OnDelete         ForeignKeyAction
	OnUpdate         ForeignKeyAction
	Name             string
}

// TargetColumn returns the referenced column, defaulting to id.
func (fk ForeignKey) TargetColumn() string {
	if fk.ReferencesColumn == "" {
		return "id"
	}
	return fk.ReferencesColumn
}

// ConstraintName returns the explicit constraint name, or derives
// fk_<table>_<column>_<target_table>_<target_column>.
func (fk ForeignKey) ConstraintName(table string) string {
	if fk.Name != "" {
		return fk.Name
	}
	return fmt.Sprintf("fk_%s_%s_%s_%s", table, fk.Column, fk.ReferencesTable, fk.TargetColumn())
}

// PrimaryKeyColumns returns the names of primary-key columns in declaration
// order.
func (s TableSchema) PrimaryKeyColumns() []string {
	var cols []string
	for _, c := range s.Columns {
		if c.IsPrimaryKey {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// HasCompositePrimaryKey reports whether more than one column is flagged
// primary-key.
func (s TableSchema) HasCompositePrimaryKey() bool {
	return len(s.PrimaryKeyColumns()) > 1
}

// Column looks a column up by name.
func (s TableSchema) Column(name string) (ColumnSchema, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSchema{}, false
}

// HasColumn reports whether a column with the given name is declared.
func (s TableSchema) HasColumn(name string) bool {
	_, ok := s.Column(name)
	return ok
}

// ForeignKeyFor returns the first declared foreign key for the given source
// column. First match wins when duplicates exist.
func (s TableSchema) ForeignKeyFor(column string) (ForeignKey, bool) {
	for _, fk := range s.ForeignKeys {
		if fk.Column == column {
			return fk, true
		}
	}
	return ForeignKey{}, false
}
