package generator

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/schemato/schema"
)

func TestStrategyForUnknownMode(t *testing.T) {
	t.Parallel()

	_, err := strategyFor(MigrationMode("upsert"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert")
}

func TestCreateOnlyStatements(t *testing.T) {
	t.Parallel()

	stmts, err := buildCreateOnly(usersTable(), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE users ("))
	assert.Equal(t, "ALTER TABLE users ENABLE ROW LEVEL SECURITY;", stmts[1])
	assert.Equal(t, "CREATE POLICY own_data ON users FOR ALL USING (auth.uid() = id);", stmts[2])
}

func TestCreateIfNotExistsStatements(t *testing.T) {
	t.Parallel()

	stmts, err := buildCreateIfNotExists(usersTable(), DefaultConfig())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE IF NOT EXISTS users ("))
}

func TestAlterOnlySkipsPrimaryKeyColumns(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Migration.Mode = ModeAlterOnly

	stmts, err := buildAlterOnly(usersTable(), cfg)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "ALTER TABLE users ADD COLUMN IF NOT EXISTS email TEXT NOT NULL UNIQUE;", stmts[0])
}

func TestAlterOnlyGuardedDoBlock(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Migration.Mode = ModeAlterOnly
	cfg.Migration.GenerateDoBlocks = true

	stmts, err := buildAlterOnly(usersTable(), cfg)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	want := strings.Join([]string{
		"DO $$",
		"BEGIN",
		"  IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'users' AND column_name = 'email') THEN",
		"    ALTER TABLE users ADD COLUMN email TEXT NOT NULL UNIQUE;",
		"  END IF;",
		"END $$;",
	}, "\n")
	if diff := cmp.Diff(want, stmts[0]); diff != "" {
		t.Errorf("guarded add mismatch (-want +got):\n%s", diff)
	}
}

func TestAlterOnlyColumnAddingDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Migration.EnableColumnAdding = false

	stmts, err := buildAlterOnly(usersTable(), cfg)
	require.NoError(t, err)
	assert.Empty(t, stmts)
}

func TestCreateOrAlterContainsAlterOnly(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	adds, err := buildAlterOnly(usersTable(), cfg)
	require.NoError(t, err)
	full, err := buildCreateOrAlter(usersTable(), cfg)
	require.NoError(t, err)

	joined := strings.Join(full, "\n\n")
	for _, add := range adds {
		assert.Contains(t, joined, add)
	}
	assert.True(t, strings.HasPrefix(full[0], "CREATE TABLE IF NOT EXISTS"))
}

func TestDropAndRecreateEqualsDropPlusCreateOnly(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	createOnly, err := buildCreateOnly(usersTable(), cfg)
	require.NoError(t, err)
	dropped, err := buildDropAndRecreate(usersTable(), cfg)
	require.NoError(t, err)

	want := append([]string{"DROP TABLE IF EXISTS users CASCADE;"}, createOnly...)
	if diff := cmp.Diff(want, dropped); diff != "" {
		t.Errorf("drop-and-recreate mismatch (-want +got):\n%s", diff)
	}
}

func TestTailGating(t *testing.T) {
	t.Parallel()

	s := schema.TableSchema{
		Name: "posts",
		Columns: []schema.ColumnSchema{
			{Name: "id", Type: "UUID", IsPrimaryKey: true},
			{Name: "user_id", Type: "UUID"},
		},
		Indexes:     []schema.DatabaseIndex{{Columns: []string{"user_id"}}},
		ForeignKeys: []schema.ForeignKey{{Column: "user_id", ReferencesTable: "users"}},
		Comment:     "articles",
	}

	cfg := DefaultConfig()
	stmts, err := tableObjectStatements(s, cfg)
	require.NoError(t, err)
	joined := strings.Join(stmts, "\n")
	assert.Contains(t, joined, "CREATE INDEX")
	assert.Contains(t, joined, "FOREIGN KEY")
	assert.Contains(t, joined, "COMMENT ON TABLE posts")

	cfg.Migration.EnableIndexCreation = false
	cfg.Migration.EnableConstraintModification = false
	cfg.GenerateComments = false
	stmts, err = tableObjectStatements(s, cfg)
	require.NoError(t, err)
	assert.Empty(t, stmts)
}

func TestStrategiesDeterministic(t *testing.T) {
	t.Parallel()

	s := usersTable()
	s.Indexes = []schema.DatabaseIndex{{
		Columns:           []string{"email"},
		StorageParameters: map[string]string{"fillfactor": "90", "deduplicate_items": "off"},
	}}

	for mode := range strategies {
		cfg := DefaultConfig()
		cfg.Migration.Mode = mode

		first, err := Generate(s, cfg)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := Generate(s, cfg)
			require.NoError(t, err)
			assert.Equal(t, first, again, "mode %s", mode)
		}
	}
}
