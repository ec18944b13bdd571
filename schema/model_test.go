package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryKeyColumns(t *testing.T) {
	t.Parallel()

	table := TableSchema{
		Name: "order_items",
		Columns: []ColumnSchema{
			{Name: "order_id", Type: "BIGINT", IsPrimaryKey: true},
			{Name: "quantity", Type: "INTEGER"},
			{Name: "product_id", Type: "BIGINT", IsPrimaryKey: true},
		},
	}

	assert.Equal(t, []string{"order_id", "product_id"}, table.PrimaryKeyColumns())
	assert.True(t, table.HasCompositePrimaryKey())

	single := TableSchema{
		Name:    "users",
		Columns: []ColumnSchema{{Name: "id", Type: "UUID", IsPrimaryKey: true}},
	}
	assert.Equal(t, []string{"id"}, single.PrimaryKeyColumns())
	assert.False(t, single.HasCompositePrimaryKey())
}

func TestColumnLookup(t *testing.T) {
	t.Parallel()

	table := TableSchema{
		Name:    "users",
		Columns: []ColumnSchema{{Name: "id", Type: "UUID"}, {Name: "email", Type: "TEXT"}},
	}

	col, ok := table.Column("email")
	require.True(t, ok)
	assert.Equal(t, "TEXT", col.Type)

	_, ok = table.Column("missing")
	assert.False(t, ok)
	assert.True(t, table.HasColumn("id"))
	assert.False(t, table.HasColumn("missing"))
}

func TestIndexResolvedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		index    DatabaseIndex
		expected string
	}{
		{
			name:     "derived name",
			index:    DatabaseIndex{Columns: []string{"status", "created_at"}},
			expected: "idx_orders_status_created_at",
		},
		{
			name:     "derived unique name",
			index:    DatabaseIndex{Columns: []string{"email"}, Unique: true},
			expected: "idx_unique_orders_email",
		},
		{
			name:     "explicit name wins",
			index:    DatabaseIndex{Name: "orders_by_status", Columns: []string{"status"}},
			expected: "orders_by_status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.index.ResolvedName("orders"))
		})
	}
}

func TestIndexResolvedNameDeterministic(t *testing.T) {
	t.Parallel()

	ix := DatabaseIndex{Columns: []string{"a", "b"}}
	assert.Equal(t, ix.ResolvedName("t"), ix.ResolvedName("t"))
}

func TestForeignKeyConstraintName(t *testing.T) {
	t.Parallel()

	fk := ForeignKey{Column: "user_id", ReferencesTable: "users"}
	assert.Equal(t, "id", fk.TargetColumn())
	assert.Equal(t, "fk_posts_user_id_users_id", fk.ConstraintName("posts"))

	named := ForeignKey{Column: "user_id", ReferencesTable: "users", Name: "posts_user_fk"}
	assert.Equal(t, "posts_user_fk", named.ConstraintName("posts"))
}

func TestForeignKeyForFirstMatchWins(t *testing.T) {
	t.Parallel()

	table := TableSchema{
		Name:    "posts",
		Columns: []ColumnSchema{{Name: "user_id", Type: "UUID"}},
		ForeignKeys: []ForeignKey{
			{Column: "user_id", ReferencesTable: "users"},
			{Column: "user_id", ReferencesTable: "accounts"},
		},
	}

	fk, ok := table.ForeignKeyFor("user_id")
	require.True(t, ok)
	assert.Equal(t, "users", fk.ReferencesTable)

	_, ok = table.ForeignKeyFor("missing")
	assert.False(t, ok)
}

func TestPartitionStrategySQL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PARTITION BY RANGE (created_at)", PartitionByRange("created_at").SQL())
	assert.Equal(t, "PARTITION BY HASH (tenant_id)", PartitionByHash("tenant_id").SQL())
	assert.Equal(t, "PARTITION BY LIST (region, country)", PartitionByList("region", "country").SQL())
}

func TestPartitionStrategyValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, PartitionByRange("created_at").Validate())
	assert.Error(t, PartitionByHash().Validate())
	assert.Error(t, PartitionByList("region", " ").Validate())
}

func TestParsePartitionKind(t *testing.T) {
	t.Parallel()

	kind, err := ParsePartitionKind("hash")
	require.NoError(t, err)
	assert.Equal(t, PartitionHash, kind)

	_, err = ParsePartitionKind("modulo")
	assert.Error(t, err)
}

func TestParsePolicyCommand(t *testing.T) {
	t.Parallel()

	cmd, err := ParsePolicyCommand("select")
	require.NoError(t, err)
	assert.Equal(t, PolicySelect, cmd)

	cmd, err = ParsePolicyCommand("")
	require.NoError(t, err)
	assert.Equal(t, PolicyAll, cmd)

	_, err = ParsePolicyCommand("truncate")
	assert.Error(t, err)
}

func TestTableConstraintSQL(t *testing.T) {
	t.Parallel()

	check := CheckConstraint{Name: "chk_price", Condition: "price > 0"}
	assert.Equal(t, "CONSTRAINT chk_price CHECK (price > 0)", check.SQL())
	assert.NoError(t, check.Validate())

	unique := UniqueConstraint{Name: "uq_email_tenant", Columns: []string{"email", "tenant_id"}}
	assert.Equal(t, "CONSTRAINT uq_email_tenant UNIQUE (email, tenant_id)", unique.SQL())
	assert.NoError(t, unique.Validate())

	pk := PrimaryKeyConstraint{Name: "pk_order_items", Columns: []string{"order_id", "product_id"}}
	assert.Equal(t, "CONSTRAINT pk_order_items PRIMARY KEY (order_id, product_id)", pk.SQL())
	assert.NoError(t, pk.Validate())
}

func TestTableConstraintValidate(t *testing.T) {
	t.Parallel()

	assert.Error(t, CheckConstraint{Name: "", Condition: "price > 0"}.Validate())
	assert.Error(t, CheckConstraint{Name: "chk", Condition: "  "}.Validate())
	assert.Error(t, UniqueConstraint{Name: "uq"}.Validate())
	assert.Error(t, PrimaryKeyConstraint{Name: "pk"}.Validate())
}
