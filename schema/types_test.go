package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnTypeSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		colType  ColumnType
		expected string
	}{
		{"text", Text(), "TEXT"},
		{"varchar with length", Varchar(255), "VARCHAR(255)"},
		{"varchar without length", Varchar(0), "VARCHAR"},
		{"char", Char(8), "CHAR(8)"},
		{"smallint", SmallInt(), "SMALLINT"},
		{"integer", Integer(), "INTEGER"},
		{"bigint", BigInt(), "BIGINT"},
		{"serial", Serial(), "SERIAL"},
		{"bigserial", BigSerial(), "BIGSERIAL"},
		{"numeric full", Numeric(10, 2), "NUMERIC(10, 2)"},
		{"numeric precision only", Numeric(10, -1), "NUMERIC(10)"},
		{"numeric bare", Numeric(0, 0), "NUMERIC"},
		{"double", Double(), "DOUBLE PRECISION"},
		{"boolean", Boolean(), "BOOLEAN"},
		{"date", Date(), "DATE"},
		{"timestamptz", TimestampTZ(), "TIMESTAMP WITH TIME ZONE"},
		{"uuid", UUID(), "UUID"},
		{"jsonb", JSONB(), "JSONB"},
		{"bytea", Bytea(), "BYTEA"},
		{"inet", Inet(), "INET"},
		{"point", Point(), "POINT"},
		{"array of text", Array(Text()), "TEXT[]"},
		{"nested array", Array(Array(Integer())), "INTEGER[][]"},
		{"enum", Enum("mood"), "mood"},
		{"custom", Custom("tsvector"), "tsvector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.colType.SQL())
		})
	}
}

func TestColumnTypeEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, Varchar(255).Equal(ParseColumnType("varchar(255)")))
	assert.True(t, Custom("TEXT").Equal(Text()))
	assert.False(t, Varchar(255).Equal(Varchar(64)))
}

func TestParseColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec     string
		expected string
	}{
		{"text", "TEXT"},
		{"TEXT", "TEXT"},
		{"varchar(64)", "VARCHAR(64)"},
		{"character varying(64)", "VARCHAR(64)"},
		{"char(2)", "CHAR(2)"},
		{"int", "INTEGER"},
		{"integer", "INTEGER"},
		{"bigint", "BIGINT"},
		{"serial", "SERIAL"},
		{"decimal(12,4)", "NUMERIC(12, 4)"},
		{"numeric(6)", "NUMERIC(6)"},
		{"double precision", "DOUBLE PRECISION"},
		{"bool", "BOOLEAN"},
		{"timestamptz", "TIMESTAMP WITH TIME ZONE"},
		{"timestamp with time zone", "TIMESTAMP WITH TIME ZONE"},
		{"uuid", "UUID"},
		{"jsonb", "JSONB"},
		{"text[]", "TEXT[]"},
		{"TEXT[]", "TEXT[]"},
		{"integer[]", "INTEGER[]"},
		{"enum:mood", "mood"},
		{"Enum:Mood", "Mood"},
		{"ENUM:mood", "mood"},
		{"macaddr", "MACADDR"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseColumnType(tt.spec).SQL())
		})
	}
}

func TestParseColumnTypeUnknownIsCustom(t *testing.T) {
	t.Parallel()

	parsed := ParseColumnType("tsvector")
	assert.True(t, parsed.IsCustom())
	assert.Equal(t, "tsvector", parsed.SQL())

	// A custom element type keeps its case through the array suffix.
	assert.Equal(t, "MyType[]", ParseColumnType("MyType[]").SQL())
}

func TestParseDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		kind DefaultKind
	}{
		{"'active'", DefaultLiteral},
		{"0", DefaultLiteral},
		{"3.14", DefaultLiteral},
		{"true", DefaultLiteral},
		{"NULL", DefaultLiteral},
		{"now()", DefaultFunction},
		{"gen_random_uuid()", DefaultFunction},
		{"nextval('users_id_seq')", DefaultFunction},
		{"CURRENT_TIMESTAMP", DefaultExpression},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			def := ParseDefault(tt.raw)
			assert.Equal(t, tt.kind, def.Kind)
			assert.Equal(t, tt.raw, def.SQL())
		})
	}
}

func TestDefaultValueRequiredExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pgcrypto", GenRandomUUIDDefault().RequiredExtension())
	assert.Equal(t, "uuid-ossp", NewFunctionDefault("uuid_generate_v4()").RequiredExtension())
	assert.Empty(t, CurrentTimestampDefault().RequiredExtension())
	assert.Empty(t, NextvalDefault("users_id_seq").RequiredExtension())
}

func TestDefaultValueCompatibleWith(t *testing.T) {
	t.Parallel()

	assert.False(t, NewLiteralDefault("active").CompatibleWith(Text()))
	assert.True(t, NewLiteralDefault("'active'").CompatibleWith(Text()))
	assert.False(t, NewLiteralDefault("1.5").CompatibleWith(Integer()))
	assert.True(t, NewLiteralDefault("10").CompatibleWith(Integer()))
	assert.False(t, NewLiteralDefault("'yes'").CompatibleWith(Boolean()))
	assert.True(t, NewLiteralDefault("true").CompatibleWith(Boolean()))
	assert.True(t, NewLiteralDefault("NULL").CompatibleWith(Integer()))
	assert.True(t, NewFunctionDefault("now()").CompatibleWith(Integer()))
}

func TestParseForeignKeyAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		expected ForeignKeyAction
	}{
		{"cascade", ActionCascade},
		{"CASCADE", ActionCascade},
		{"set null", ActionSetNull},
		{"set_null", ActionSetNull},
		{"no_action", ActionNoAction},
		{"restrict", ActionRestrict},
		{"set default", ActionSetDefault},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			action, err := ParseForeignKeyAction(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, action)
		})
	}

	_, err := ParseForeignKeyAction("explode")
	assert.Error(t, err)
}

func TestForeignKeyActionCompatibleWith(t *testing.T) {
	t.Parallel()

	notNull := ColumnSchema{Name: "user_id", IsNullable: false}
	nullable := ColumnSchema{Name: "user_id", IsNullable: true}

	assert.Error(t, ActionSetNull.CompatibleWith(notNull))
	assert.NoError(t, ActionSetNull.CompatibleWith(nullable))

	def := NewLiteralDefault("0")
	withDefault := ColumnSchema{Name: "user_id", Default: &def}
	assert.Error(t, ActionSetDefault.CompatibleWith(nullable))
	assert.NoError(t, ActionSetDefault.CompatibleWith(withDefault))

	assert.NoError(t, ActionCascade.CompatibleWith(notNull))
}

func TestIndexTypeRestrictions(t *testing.T) {
	t.Parallel()

	assert.True(t, Hash.SingleColumnOnly())
	assert.False(t, BTree.SingleColumnOnly())

	assert.False(t, BRIN.SupportsUnique())
	assert.True(t, BTree.SupportsUnique())

	assert.True(t, BTree.SupportsInclude())
	for _, method := range []IndexType{Hash, GIN, GiST, SPGiST} {
		assert.False(t, method.SupportsInclude(), "method %s", method)
	}

	assert.Equal(t, []string{"="}, Hash.SupportedOperators())
	assert.NotEmpty(t, GIN.SupportedOperators())
}

func TestParseIndexType(t *testing.T) {
	t.Parallel()

	indexType, err := ParseIndexType("GIN")
	require.NoError(t, err)
	assert.Equal(t, GIN, indexType)

	indexType, err = ParseIndexType("")
	require.NoError(t, err)
	assert.Equal(t, IndexType(""), indexType)

	_, err = ParseIndexType("rtree")
	assert.Error(t, err)
}
