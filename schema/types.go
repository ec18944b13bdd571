package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnType is one variant of the closed set of PostgreSQL column types the
// generator understands. Values are immutable and compared by their rendered
// SQL type string.
type ColumnType struct {
	kind      typeKind
	length    int
	precision int
	scale     int
	elem      *ColumnType
	name      string
}

type typeKind int

const (
	kindText typeKind = iota
	kindVarchar
	kindChar
	kindSmallInt
	kindInteger
	kindBigInt
	kindSmallSerial
	kindSerial
	kindBigSerial
	kindNumeric
	kindReal
	kindDouble
	kindBoolean
	kindDate
	kindTime
	kindTimeTZ
	kindTimestamp
	kindTimestampTZ
	kindInterval
	kindUUID
	kindJSON
	kindJSONB
	kindBytea
	kindInet
	kindCidr
	kindMacaddr
	kindPoint
	kindLine
	kindLseg
	kindBox
	kindPath
	kindPolygon
	kindCircle
	kindArray
	kindEnum
	kindCustom
)

func Text() ColumnType             { return ColumnType{kind: kindText} }
func Varchar(length int) ColumnType { return ColumnType{kind: kindVarchar, length: length} }
func Char(length int) ColumnType   { return ColumnType{kind: kindChar, length: length} }
func SmallInt() ColumnType         { return ColumnType{kind: kindSmallInt} }
func Integer() ColumnType          { return ColumnType{kind: kindInteger} }
func BigInt() ColumnType           { return ColumnType{kind: kindBigInt} }
func SmallSerial() ColumnType      { return ColumnType{kind: kindSmallSerial} }
func Serial() ColumnType           { return ColumnType{kind: kindSerial} }
func BigSerial() ColumnType        { return ColumnType{kind: kindBigSerial} }
func Real() ColumnType             { return ColumnType{kind: kindReal} }
func Double() ColumnType           { return ColumnType{kind: kindDouble} }
func Boolean() ColumnType          { return ColumnType{kind: kindBoolean} }
func Date() ColumnType             { return ColumnType{kind: kindDate} }
func Time() ColumnType             { return ColumnType{kind: kindTime} }
func TimeTZ() ColumnType           { return ColumnType{kind: kindTimeTZ} }
func Timestamp() ColumnType        { return ColumnType{kind: kindTimestamp} }
func TimestampTZ() ColumnType      { return ColumnType{kind: kindTimestampTZ} }
func Interval() ColumnType         { return ColumnType{kind: kindInterval} }
func UUID() ColumnType             { return ColumnType{kind: kindUUID} }
func JSON() ColumnType             { return ColumnType{kind: kindJSON} }
func JSONB() ColumnType            { return ColumnType{kind: kindJSONB} }
func Bytea() ColumnType            { return ColumnType{kind: kindBytea} }
func Inet() ColumnType             { return ColumnType{kind: kindInet} }
func Cidr() ColumnType             { return ColumnType{kind: kindCidr} }
func Macaddr() ColumnType          { return ColumnType{kind: kindMacaddr} }
func Point() ColumnType            { return ColumnType{kind: kindPoint} }
func Line() ColumnType             { return ColumnType{kind: kindLine} }
func Lseg() ColumnType             { return ColumnType{kind: kindLseg} }
func Box() ColumnType              { return ColumnType{kind: kindBox} }
func Path() ColumnType             { return ColumnType{kind: kindPath} }
func Polygon() ColumnType          { return ColumnType{kind: kindPolygon} }
func Circle() ColumnType           { return ColumnType{kind: kindCircle} }

// Numeric builds NUMERIC(precision, scale). A non-positive precision renders
// a bare NUMERIC; a negative scale renders NUMERIC(precision).
func Numeric(precision, scale int) ColumnType {
	return ColumnType{kind: kindNumeric, precision: precision, scale: scale}
}

// Array wraps an element type as elem[].
func Array(elem ColumnType) ColumnType {
	return ColumnType{kind: kindArray, elem: &elem}
}

// Enum references a previously created enum type by name.
func Enum(name string) ColumnType {
	return ColumnType{kind: kindEnum, name: name}
}

// Custom passes an SQL type expression through verbatim.
func Custom(sql string) ColumnType {
	return ColumnType{kind: kindCustom, name: sql}
}

// SQL renders the PostgreSQL type expression for this variant.
func (t ColumnType) SQL() string {
	switch t.kind {
	case kindText:
		return "TEXT"
	case kindVarchar:
		if t.length > 0 {
			return fmt.Sprintf("VARCHAR(%d)", t.length)
		}
		return "VARCHAR"
	case kindChar:
		if t.length > 0 {
			return fmt.Sprintf("CHAR(%d)", t.length)
		}
		return "CHAR"
	case kindSmallInt:
		return "SMALLINT"
	case kindInteger:
		return "INTEGER"
	case kindBigInt:
		return "BIGINT"
	case kindSmallSerial:
		return "SMALLSERIAL"
	case kindSerial:
		return "SERIAL"
	case kindBigSerial:
		return "BIGSERIAL"
	case kindNumeric:
		if t.precision <= 0 {
			return "NUMERIC"
		}
		if t.scale < 0 {
			return fmt.Sprintf("NUMERIC(%d)", t.precision)
		}
		return fmt.Sprintf("NUMERIC(%d, %d)", t.precision, t.scale)
	case kindReal:
		return "REAL"
	case kindDouble:
		return "DOUBLE PRECISION"
	case kindBoolean:
		return "BOOLEAN"
	case kindDate:
		return "DATE"
	case kindTime:
		return "TIME"
	case kindTimeTZ:
		return "TIME WITH TIME ZONE"
	case kindTimestamp:
		return "TIMESTAMP"
	case kindTimestampTZ:
		return "TIMESTAMP WITH TIME ZONE"
	case kindInterval:
		return "INTERVAL"
	case kindUUID:
		return "UUID"
	case kindJSON:
		return "JSON"
	case kindJSONB:
		return "JSONB"
	case kindBytea:
		return "BYTEA"
	case kindInet:
		return "INET"
	case kindCidr:
		return "CIDR"
	case kindMacaddr:
		return "MACADDR"
	case kindPoint:
		return "POINT"
	case kindLine:
		return "LINE"
	case kindLseg:
		return "LSEG"
	case kindBox:
		return "BOX"
	case kindPath:
		return "PATH"
	case kindPolygon:
		return "POLYGON"
	case kindCircle:
		return "CIRCLE"
	case kindArray:
		return t.elem.SQL() + "[]"
	case kindEnum:
		return t.name
	case kindCustom:
		return t.name
	}
	return "TEXT"
}

func (t ColumnType) String() string { return t.SQL() }

// Equal reports whether two types render the same SQL type string.
func (t ColumnType) Equal(other ColumnType) bool {
	return t.SQL() == other.SQL()
}

// IsCustom reports whether the type was passed through unrecognized.
func (t ColumnType) IsCustom() bool { return t.kind == kindCustom }

var namedTypes = map[string]ColumnType{
	"text":                     Text(),
	"varchar":                  Varchar(0),
	"character varying":        Varchar(0),
	"char":                     Char(0),
	"character":                Char(0),
	"smallint":                 SmallInt(),
	"int":                      Integer(),
	"integer":                  Integer(),
	"int4":                     Integer(),
	"bigint":                   BigInt(),
	"int8":                     BigInt(),
	"smallserial":              SmallSerial(),
	"serial":                   Serial(),
	"bigserial":                BigSerial(),
	"numeric":                  Numeric(0, 0),
	"decimal":                  Numeric(0, 0),
	"real":                     Real(),
	"double precision":         Double(),
	"double":                   Double(),
	"bool":                     Boolean(),
	"boolean":                  Boolean(),
	"date":                     Date(),
	"time":                     Time(),
	"timetz":                   TimeTZ(),
	"time with time zone":      TimeTZ(),
	"timestamp":                Timestamp(),
	"timestamptz":              TimestampTZ(),
	"timestamp with time zone": TimestampTZ(),
	"interval":                 Interval(),
	"uuid":                     UUID(),
	"json":                     JSON(),
	"jsonb":                    JSONB(),
	"bytea":                    Bytea(),
	"inet":                     Inet(),
	"cidr":                     Cidr(),
	"macaddr":                  Macaddr(),
	"point":                    Point(),
	"line":                     Line(),
	"lseg":                     Lseg(),
	"box":                      Box(),
	"path":                     Path(),
	"polygon":                  Polygon(),
	"circle":                   Circle(),
}

// ParseColumnType maps a schema-file type spelling onto a ColumnType variant.
// Recognized forms: bare type names ("text", "uuid"), parameterized types
// ("varchar(255)", "numeric(10,2)"), array suffix ("text[]") and
// "enum:<name>". Anything else passes through as a custom type.
func ParseColumnType(spec string) ColumnType {
	s := strings.TrimSpace(spec)
	lower := strings.ToLower(s)

	if strings.HasSuffix(lower, "[]") {
		return Array(ParseColumnType(s[:len(s)-len("[]")]))
	}
	if strings.HasPrefix(lower, "enum:") {
		return Enum(strings.TrimSpace(s[len("enum:"):]))
	}
	if t, ok := namedTypes[lower]; ok {
		return t
	}

	// Parameterized forms: base(arg[,arg])
	if open := strings.Index(lower, "("); open > 0 && strings.HasSuffix(lower, ")") {
		base := strings.TrimSpace(lower[:open])
		args := strings.Split(strings.TrimSuffix(lower[open+1:], ")"), ",")
		switch base {
		case "varchar", "character varying":
			if n, err := strconv.Atoi(strings.TrimSpace(args[0])); err == nil {
				return Varchar(n)
			}
		case "char", "character":
			if n, err := strconv.Atoi(strings.TrimSpace(args[0])); err == nil {
				return Char(n)
			}
		case "numeric", "decimal":
			p, errP := strconv.Atoi(strings.TrimSpace(args[0]))
			if errP == nil && len(args) == 1 {
				return Numeric(p, -1)
			}
			if errP == nil && len(args) == 2 {
				if sc, err := strconv.Atoi(strings.TrimSpace(args[1])); err == nil {
					return Numeric(p, sc)
				}
			}
		}
	}

	return Custom(s)
}

// DefaultKind distinguishes how a default expression was declared.
type DefaultKind int

const (
	DefaultLiteral DefaultKind = iota
	DefaultFunction
	DefaultExpression
)

// DefaultValue is a column default: a literal, a function call or a raw SQL
// expression, together with a human description for diagnostics.
type DefaultValue struct {
	Kind        DefaultKind
	Expression  string
	Description string
}

// NewLiteralDefault wraps an already-quoted SQL literal ('x', 0, true, NULL).
func NewLiteralDefault(expr string) DefaultValue {
	return DefaultValue{Kind: DefaultLiteral, Expression: expr, Description: "literal " + expr}
}

// NewFunctionDefault wraps a function-call default such as now().
func NewFunctionDefault(expr string) DefaultValue {
	return DefaultValue{Kind: DefaultFunction, Expression: expr, Description: "function " + expr}
}

// NewExpressionDefault wraps an arbitrary SQL expression.
func NewExpressionDefault(expr string) DefaultValue {
	return DefaultValue{Kind: DefaultExpression, Expression: expr, Description: "expression " + expr}
}

// CurrentTimestampDefault is the default used for generated timestamp columns.
func CurrentTimestampDefault() DefaultValue {
	return NewFunctionDefault("CURRENT_TIMESTAMP")
}

// GenRandomUUIDDefault generates a v4 UUID via pgcrypto.
func GenRandomUUIDDefault() DefaultValue {
	return NewFunctionDefault("gen_random_uuid()")
}

// NextvalDefault pulls the next value from a sequence.
func NextvalDefault(sequence string) DefaultValue {
	return NewFunctionDefault(fmt.Sprintf("nextval('%s')", sequence))
}

// SQL returns the default expression as it appears after DEFAULT.
func (d DefaultValue) SQL() string { return d.Expression }

// RequiredExtension names the PostgreSQL extension the default depends on,
// or "" when none is needed.
func (d DefaultValue) RequiredExtension() string {
	expr := strings.ToLower(d.Expression)
	switch {
	case strings.HasPrefix(expr, "gen_random_uuid"):
		return "pgcrypto"
	case strings.HasPrefix(expr, "uuid_generate_v"):
		return "uuid-ossp"
	}
	return ""
}

// CompatibleWith reports whether the default plausibly fits the column type.
// Function defaults always pass; the check only catches obvious literal
// mismatches (unquoted strings, non-boolean booleans, decimal integers).
func (d DefaultValue) CompatibleWith(t ColumnType) bool {
	if d.Kind != DefaultLiteral {
		return true
	}
	expr := strings.TrimSpace(d.Expression)
	if strings.EqualFold(expr, "NULL") {
		return true
	}
	sql := t.SQL()
	switch {
	case strings.Contains(sql, "INT") || strings.Contains(sql, "SERIAL"):
		return !strings.Contains(expr, ".") && !strings.HasPrefix(expr, "'")
	case sql == "TEXT" || strings.HasPrefix(sql, "VARCHAR") || strings.HasPrefix(sql, "CHAR"):
		return strings.HasPrefix(expr, "'")
	case sql == "BOOLEAN":
		return strings.EqualFold(expr, "true") || strings.EqualFold(expr, "false")
	}
	return true
}

// ParseDefault classifies a schema-file default spelling. Quoted strings,
// numbers, booleans and NULL are literals; anything with a call syntax is a
// function; the rest passes through as an expression.
func ParseDefault(raw string) DefaultValue {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "'"),
		strings.EqualFold(s, "true"),
		strings.EqualFold(s, "false"),
		strings.EqualFold(s, "null"):
		return NewLiteralDefault(s)
	case strings.HasSuffix(s, ")") && strings.Contains(s, "("):
		return NewFunctionDefault(s)
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return NewLiteralDefault(s)
	}
	return NewExpressionDefault(s)
}

// ForeignKeyAction is a referential action for ON DELETE / ON UPDATE.
type ForeignKeyAction string

const (
	ActionNoAction   ForeignKeyAction = "NO ACTION"
	ActionRestrict   ForeignKeyAction = "RESTRICT"
	ActionCascade    ForeignKeyAction = "CASCADE"
	ActionSetNull    ForeignKeyAction = "SET NULL"
	ActionSetDefault ForeignKeyAction = "SET DEFAULT"
)

// SQL returns the action clause text.
func (a ForeignKeyAction) SQL() string { return string(a) }

func (a ForeignKeyAction) Valid() bool {
	switch a {
	case ActionNoAction, ActionRestrict, ActionCascade, ActionSetNull, ActionSetDefault:
		return true
	}
	return false
}

// CompatibleWith checks the action against the referencing column: SET NULL
// needs a nullable column, SET DEFAULT needs a declared default.
func (a ForeignKeyAction) CompatibleWith(col ColumnSchema) error {
	switch a {
	case ActionSetNull:
		if !col.IsNullable || col.IsPrimaryKey {
			return fmt.Errorf("SET NULL requires nullable column, %q is NOT NULL", col.Name)
		}
	case ActionSetDefault:
		if col.Default == nil {
			return fmt.Errorf("SET DEFAULT requires a default on column %q", col.Name)
		}
	}
	return nil
}

// ParseForeignKeyAction accepts the usual spellings ("cascade", "set_null",
// "SET NULL") case-insensitively.
func ParseForeignKeyAction(s string) (ForeignKeyAction, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "_", " ")
	action := ForeignKeyAction(normalized)
	if !action.Valid() {
		return "", fmt.Errorf("invalid foreign key action %q, must be one of: NO ACTION, RESTRICT, CASCADE, SET NULL, SET DEFAULT", s)
	}
	return action, nil
}

// IndexType is a PostgreSQL index access method.
type IndexType string

const (
	BTree  IndexType = "btree"
	Hash   IndexType = "hash"
	GIN    IndexType = "gin"
	GiST   IndexType = "gist"
	SPGiST IndexType = "spgist"
	BRIN   IndexType = "brin"
)

func (t IndexType) Valid() bool {
	switch t {
	case BTree, Hash, GIN, GiST, SPGiST, BRIN, "":
		return true
	}
	return false
}

// SupportsInclude reports whether the access method accepts INCLUDE columns.
func (t IndexType) SupportsInclude() bool {
	return t == BTree || t == ""
}

// SupportsUnique reports whether the access method can back a unique index.
func (t IndexType) SupportsUnique() bool {
	return t != BRIN
}

// SingleColumnOnly reports whether the access method is limited to one
// key column.
func (t IndexType) SingleColumnOnly() bool {
	return t == Hash
}

// SupportedOperators lists the operator classes the method is typically
// used for. Informational only.
func (t IndexType) SupportedOperators() []string {
	switch t {
	case Hash:
		return []string{"="}
	case GIN:
		return []string{"@>", "<@", "?", "?|", "?&"}
	case GiST, SPGiST:
		return []string{"<<", "&<", "&>", ">>", "<@", "@>", "~=", "&&"}
	case BRIN:
		return []string{"<", "<=", "=", ">=", ">"}
	}
	return []string{"<", "<=", "=", ">=", ">"}
}

// ParseIndexType accepts method names case-insensitively; "" means btree.
func ParseIndexType(s string) (IndexType, error) {
	t := IndexType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid index type %q, must be one of: btree, hash, gin, gist, spgist, brin", s)
	}
	return t, nil
}
