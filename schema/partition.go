package schema

import (
	"fmt"
	"strings"
)

// PartitionKind is the declared partitioning method.
type PartitionKind string

const (
	PartitionRange PartitionKind = "RANGE"
	PartitionHash  PartitionKind = "HASH"
	PartitionList  PartitionKind = "LIST"
)

// PartitionStrategy declares how PostgreSQL splits the table into
// sub-tables. Construct via PartitionByRange, PartitionByHash or
// PartitionByList.
type PartitionStrategy struct {
	kind    PartitionKind
	columns []string
}

func PartitionByRange(columns ...string) PartitionStrategy {
	return PartitionStrategy{kind: PartitionRange, columns: columns}
}

func PartitionByHash(columns ...string) PartitionStrategy {
	return PartitionStrategy{kind: PartitionHash, columns: columns}
}

func PartitionByList(columns ...string) PartitionStrategy {
	return PartitionStrategy{kind: PartitionList, columns: columns}
}

func (p PartitionStrategy) Kind() PartitionKind { return p.kind }

// Columns returns the partition key columns in declaration order.
func (p PartitionStrategy) Columns() []string {
	out := make([]string, len(p.columns))
	copy(out, p.columns)
	return out
}

// SQL renders the PARTITION BY clause.
func (p PartitionStrategy) SQL() string {
	return fmt.Sprintf("PARTITION BY %s (%s)", p.kind, strings.Join(p.columns, ", "))
}

func (p PartitionStrategy) Validate() error {
	switch p.kind {
	case PartitionRange, PartitionHash, PartitionList:
	default:
		return fmt.Errorf("invalid partition kind %q", string(p.kind))
	}
	if len(p.columns) == 0 {
		return fmt.Errorf("%s partitioning requires at least one column", strings.ToLower(string(p.kind)))
	}
	for _, col := range p.columns {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("%s partitioning has an empty column name", strings.ToLower(string(p.kind)))
		}
	}
	return nil
}

// ParsePartitionKind accepts "range", "hash" or "list" case-insensitively.
func ParsePartitionKind(s string) (PartitionKind, error) {
	kind := PartitionKind(strings.ToUpper(strings.TrimSpace(s)))
	switch kind {
	case PartitionRange, PartitionHash, PartitionList:
		return kind, nil
	}
	return "", fmt.Errorf("invalid partition type %q, must be one of: range, hash, list", s)
}

// NewPartition builds a strategy from an already-parsed kind.
func NewPartition(kind PartitionKind, columns ...string) PartitionStrategy {
	return PartitionStrategy{kind: kind, columns: columns}
}
