package generator

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/schemato/schema"
)

func usersTable() schema.TableSchema {
	return schema.TableSchema{
		Name: "users",
		Columns: []schema.ColumnSchema{
			{Name: "id", Type: "UUID", IsPrimaryKey: true},
			{Name: "email", Type: "TEXT", IsUnique: true},
		},
		EnableRLS: true,
		Policies: []schema.RlsPolicy{
			{Name: "own_data", Command: schema.PolicyAll, Using: "auth.uid() = id"},
		},
	}
}

func TestBuildCreateTable(t *testing.T) {
	t.Parallel()

	sql, err := BuildCreateTable(usersTable(), false, DefaultConfig())
	require.NoError(t, err)

	want := strings.Join([]string{
		"CREATE TABLE users (",
		"  id UUID PRIMARY KEY,",
		"  email TEXT NOT NULL UNIQUE",
		");",
	}, "\n")
	if diff := cmp.Diff(want, sql); diff != "" {
		t.Errorf("create table mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCreateTableIfNotExists(t *testing.T) {
	t.Parallel()

	sql, err := BuildCreateTable(usersTable(), true, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, "CREATE TABLE IF NOT EXISTS users ("))
}

func TestBuildCreateTableCompositePrimaryKey(t *testing.T) {
	t.Parallel()

	s := schema.TableSchema{
		Name: "order_items",
		Columns: []schema.ColumnSchema{
			{Name: "order_id", Type: "BIGINT", IsPrimaryKey: true},
			{Name: "product_id", Type: "BIGINT", IsPrimaryKey: true},
			{Name: "quantity", Type: "INTEGER"},
		},
	}

	sql, err := BuildCreateTable(s, false, DefaultConfig())
	require.NoError(t, err)

	want := strings.Join([]string{
		"CREATE TABLE order_items (",
		"  order_id BIGINT,",
		"  product_id BIGINT,",
		"  quantity INTEGER NOT NULL,",
		"  PRIMARY KEY (order_id, product_id)",
		");",
	}, "\n")
	if diff := cmp.Diff(want, sql); diff != "" {
		t.Errorf("composite pk mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, strings.Count(sql, "PRIMARY KEY"))
}

func TestBuildCreateTablePartitionFolding(t *testing.T) {
	t.Parallel()

	part := schema.PartitionByHash("tenant_id")
	s := schema.TableSchema{
		Name: "events",
		Columns: []schema.ColumnSchema{
			{Name: "id", Type: "BIGINT", IsPrimaryKey: true},
			{Name: "tenant_id", Type: "BIGINT"},
		},
		Partition: &part,
	}

	sql, err := BuildCreateTable(s, false, DefaultConfig())
	require.NoError(t, err)

	want := strings.Join([]string{
		"CREATE TABLE events (",
		"  id BIGINT,",
		"  tenant_id BIGINT NOT NULL,",
		"  PRIMARY KEY (id, tenant_id)",
		")",
		"PARTITION BY HASH (tenant_id);",
	}, "\n")
	if diff := cmp.Diff(want, sql); diff != "" {
		t.Errorf("partitioned table mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCreateTablePartitionColumnAlreadyInPK(t *testing.T) {
	t.Parallel()

	part := schema.PartitionByRange("created_at")
	s := schema.TableSchema{
		Name: "metrics",
		Columns: []schema.ColumnSchema{
			{Name: "id", Type: "BIGINT", IsPrimaryKey: true},
			{Name: "created_at", Type: "TIMESTAMP WITH TIME ZONE", IsPrimaryKey: true},
		},
		Partition: &part,
	}

	sql, err := BuildCreateTable(s, false, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, sql, "PRIMARY KEY (id, created_at)")
	assert.NotContains(t, sql, "created_at, created_at")
}

func TestBuildCreateTableTableConstraints(t *testing.T) {
	t.Parallel()

	s := schema.TableSchema{
		Name: "accounts",
		Columns: []schema.ColumnSchema{
			{Name: "id", Type: "UUID", IsPrimaryKey: true},
			{Name: "balance", Type: "NUMERIC(12, 2)"},
		},
		Constraints: []schema.TableConstraint{
			schema.CheckConstraint{Name: "chk_accounts_balance", Condition: "balance >= 0"},
		},
	}

	sql, err := BuildCreateTable(s, false, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, sql, "  balance NUMERIC(12, 2) NOT NULL,\n  CONSTRAINT chk_accounts_balance CHECK (balance >= 0)\n)")
}

func TestBuildCreateTableErrors(t *testing.T) {
	t.Parallel()

	_, err := BuildCreateTable(schema.TableSchema{Name: " "}, false, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name cannot be empty")

	_, err = BuildCreateTable(schema.TableSchema{Name: "empty"}, false, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns")

	_, err = BuildCreateTable(schema.TableSchema{
		Name:    "things",
		Columns: []schema.ColumnSchema{{Name: "id", Type: "BIGINT", IsPrimaryKey: true}},
		Constraints: []schema.TableConstraint{
			schema.CheckConstraint{Name: "", Condition: "true"},
		},
	}, false, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "things")
}

func TestBuildCreateTablePrimaryKeyConstraint(t *testing.T) {
	t.Parallel()

	s := schema.TableSchema{
		Name: "events",
		Columns: []schema.ColumnSchema{
			{Name: "id", Type: "BIGINT", IsNullable: true},
			{Name: "tenant_id", Type: "BIGINT", IsNullable: true},
		},
		Constraints: []schema.TableConstraint{
			schema.PrimaryKeyConstraint{Name: "events_pk", Columns: []string{"id", "tenant_id"}},
		},
	}

	sql, err := BuildCreateTable(s, false, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, sql, "  CONSTRAINT events_pk PRIMARY KEY (id, tenant_id)\n)")
	assert.Equal(t, 1, strings.Count(sql, "PRIMARY KEY"))
}

func TestBuildCreateTablePrimaryKeyConstraintConflict(t *testing.T) {
	t.Parallel()

	s := schema.TableSchema{
		Name: "events",
		Columns: []schema.ColumnSchema{
			{Name: "id", Type: "BIGINT", IsPrimaryKey: true},
		},
		Constraints: []schema.TableConstraint{
			schema.PrimaryKeyConstraint{Name: "events_pk", Columns: []string{"id"}},
		},
	}

	_, err := BuildCreateTable(s, false, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events_pk")
	assert.Contains(t, err.Error(), "conflicts with primary key columns (id)")
}

func TestBuildCreateTableDoublePrimaryKeyConstraint(t *testing.T) {
	t.Parallel()

	s := schema.TableSchema{
		Name: "events",
		Columns: []schema.ColumnSchema{
			{Name: "id", Type: "BIGINT", IsNullable: true},
			{Name: "tenant_id", Type: "BIGINT", IsNullable: true},
		},
		Constraints: []schema.TableConstraint{
			schema.PrimaryKeyConstraint{Name: "events_pk", Columns: []string{"id"}},
			schema.PrimaryKeyConstraint{Name: "events_pk2", Columns: []string{"tenant_id"}},
		},
	}

	_, err := BuildCreateTable(s, false, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has a primary key constraint")
}
