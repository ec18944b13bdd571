package loader

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/kenshaw/snaker"

	"github.com/ridoystarlord/schemato/generator"
	"github.com/ridoystarlord/schemato/schema"
)

// TagLoader builds table schemas from Go structs carrying schemato tags.
type TagLoader struct {
	modelsDir string
	cfg       generator.GeneratorConfig
}

// NewTagLoader creates a new tag loader over a models directory.
func NewTagLoader(modelsDir string, cfg generator.GeneratorConfig) *TagLoader {
	return &TagLoader{modelsDir: modelsDir, cfg: cfg}
}

// LoadTablesFromTags loads table schemas from Go structs with schemato tags.
func LoadTablesFromTags(modelsDir string, cfg generator.GeneratorConfig) ([]schema.TableSchema, error) {
	return NewTagLoader(modelsDir, cfg).Load()
}

// Load walks the models directory and parses every Go file.
func (tl *TagLoader) Load() ([]schema.TableSchema, error) {
	if _, err := os.Stat(tl.modelsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("models directory '%s' does not exist. Run 'schemato init' first", tl.modelsDir)
	}

	var tables []schema.TableSchema

	err := filepath.Walk(tl.modelsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		fileTables, err := tl.parseGoFile(path)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %v", path, err)
		}
		tables = append(tables, fileTables...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %v", err)
	}

	return tables, nil
}

func (tl *TagLoader) parseGoFile(filePath string) ([]schema.TableSchema, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go file: %v", err)
	}

	var tables []schema.TableSchema
	var parseErr error

	ast.Inspect(node, func(n ast.Node) bool {
		spec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		structType, ok := spec.Type.(*ast.StructType)
		if !ok {
			return true
		}
		table, err := tl.parseStruct(spec.Name.Name, structType)
		if err != nil {
			parseErr = fmt.Errorf("struct %s: %v", spec.Name.Name, err)
			return false
		}
		if table != nil {
			tables = append(tables, *table)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return tables, nil
}

func (tl *TagLoader) parseStruct(structName string, structType *ast.StructType) (*schema.TableSchema, error) {
	table := &schema.TableSchema{
		Name:      tableNameFor(structName),
		EnableRLS: tl.cfg.EnableRLSByDefault,
	}

	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			continue // embedded fields are not mapped
		}
		fieldName := field.Names[0].Name
		if !ast.IsExported(fieldName) {
			continue
		}

		col, fk, index, err := tl.parseField(fieldName, field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %v", fieldName, err)
		}
		if col == nil {
			continue
		}
		table.Columns = append(table.Columns, *col)
		if fk != nil {
			fk.Column = col.Name
			table.ForeignKeys = append(table.ForeignKeys, *fk)
		}
		if index != nil {
			if len(index.Columns) == 0 {
				index.Columns = []string{col.Name}
			}
			table.Indexes = append(table.Indexes, *index)
		}
	}

	if tl.cfg.AddTimestamps {
		addTimestampColumns(table)
	}

	return table, nil
}

func (tl *TagLoader) parseField(fieldName string, field *ast.Field) (*schema.ColumnSchema, *schema.ForeignKey, *schema.DatabaseIndex, error) {
	goType := goTypeName(field.Type)
	if goType == "" {
		return nil, nil, nil, nil
	}
	_, nullable := field.Type.(*ast.StarExpr)

	tag, err := parseFieldTag(field.Tag)
	if err != nil {
		return nil, nil, nil, err
	}
	if tag.Ignore {
		return nil, nil, nil, nil
	}

	col := &schema.ColumnSchema{
		Name:         tag.ColumnName,
		IsPrimaryKey: tag.Primary,
		IsUnique:     tag.Unique,
		IsNullable:   nullable && !tag.NotNull && !tag.Primary,
		Checks:       tag.Checks,
		Collation:    tag.Collate,
		Comment:      tag.Comment,
	}
	if col.Name == "" {
		col.Name = snaker.CamelToSnake(fieldName)
	}
	if tag.DataType != "" {
		col.Type = schema.ParseColumnType(tag.DataType).SQL()
	} else {
		col.Type = inferColumnType(goType).SQL()
	}
	if tag.Default != nil {
		def := schema.ParseDefault(*tag.Default)
		col.Default = &def
	}

	return col, tag.ForeignKey, tag.Index, nil
}

// fieldTag is the parsed form of a schemato struct tag. The grammar is the
// usual ORM-style semicolon list:
//
//	`schemato:"column:user_id;type:uuid;primary;fk:users.id:cascade:no_action;index:idx_x:btree:unique"`
type fieldTag struct {
	Ignore     bool
	ColumnName string
	DataType   string
	Primary    bool
	Unique     bool
	NotNull    bool
	Default    *string
	Checks     []string
	Collate    string
	Comment    string
	ForeignKey *schema.ForeignKey
	Index      *schema.DatabaseIndex
}

func parseFieldTag(tag *ast.BasicLit) (*fieldTag, error) {
	if tag == nil {
		return &fieldTag{}, nil
	}

	tagValue := strings.Trim(tag.Value, "`")
	raw := reflect.StructTag(tagValue).Get("schemato")

	return parseTagSpec(raw)
}

func parseTagSpec(raw string) (*fieldTag, error) {
	tag := &fieldTag{}

	if raw == "-" {
		tag.Ignore = true
		return tag, nil
	}
	if raw == "" {
		return tag, nil
	}

	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if key, value, ok := strings.Cut(part, ":"); ok {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)

			switch key {
			case "column":
				tag.ColumnName = value
			case "type":
				tag.DataType = value
			case "default":
				tag.Default = &value
			case "check":
				tag.Checks = append(tag.Checks, value)
			case "collate":
				tag.Collate = value
			case "comment":
				tag.Comment = value
			case "fk":
				fk, err := parseForeignKeySpec(value)
				if err != nil {
					return nil, err
				}
				tag.ForeignKey = fk
			case "index":
				ix, err := parseIndexSpec(value)
				if err != nil {
					return nil, err
				}
				tag.Index = ix
			default:
				return nil, fmt.Errorf("unknown tag key %q", key)
			}
			continue
		}

		switch part {
		case "primary":
			tag.Primary = true
		case "unique":
			tag.Unique = true
		case "not_null":
			tag.NotNull = true
		case "index":
			tag.Index = &schema.DatabaseIndex{Type: schema.BTree}
		default:
			return nil, fmt.Errorf("unknown tag flag %q", part)
		}
	}

	return tag, nil
}

// parseForeignKeySpec parses "table.column[:on_delete[:on_update]]".
func parseForeignKeySpec(spec string) (*schema.ForeignKey, error) {
	parts := strings.Split(spec, ":")

	table, column, ok := strings.Cut(parts[0], ".")
	if !ok {
		return nil, fmt.Errorf("foreign key %q must be table.column", spec)
	}
	fk := &schema.ForeignKey{
		ReferencesTable:  table,
		ReferencesColumn: column,
	}

	if len(parts) > 1 && parts[1] != "" {
		action, err := schema.ParseForeignKeyAction(parts[1])
		if err != nil {
			return nil, err
		}
		fk.OnDelete = action
	}
	if len(parts) > 2 && parts[2] != "" {
		action, err := schema.ParseForeignKeyAction(parts[2])
		if err != nil {
			return nil, err
		}
		fk.OnUpdate = action
	}
	return fk, nil
}

// parseIndexSpec parses "[name][:type[:unique]]".
func parseIndexSpec(spec string) (*schema.DatabaseIndex, error) {
	parts := strings.Split(spec, ":")

	ix := &schema.DatabaseIndex{Type: schema.BTree}
	if parts[0] != "" {
		ix.Name = parts[0]
	}
	if len(parts) > 1 && parts[1] != "" {
		indexType, err := schema.ParseIndexType(parts[1])
		if err != nil {
			return nil, err
		}
		ix.Type = indexType
	}
	if len(parts) > 2 && parts[2] == "unique" {
		ix.Unique = true
	}
	return ix, nil
}

// goTypeName extracts the Go type name from an ast.Expr.
func goTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return goTypeName(t.X)
	case *ast.ArrayType:
		return "[]" + goTypeName(t.Elt)
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
	}
	return ""
}

// tableNameFor converts a struct name to a pluralized snake_case table
// name: UserProfile -> user_profiles.
func tableNameFor(structName string) string {
	return inflection.Plural(snaker.CamelToSnake(structName))
}

// inferColumnType maps a Go type onto a column type when the tag does not
// spell one out.
func inferColumnType(goType string) schema.ColumnType {
	switch goType {
	case "int", "int32":
		return schema.Integer()
	case "int16":
		return schema.SmallInt()
	case "int64":
		return schema.BigInt()
	case "string":
		return schema.Text()
	case "bool":
		return schema.Boolean()
	case "float32":
		return schema.Real()
	case "float64":
		return schema.Double()
	case "time.Time":
		return schema.TimestampTZ()
	case "uuid.UUID":
		return schema.UUID()
	case "[]byte", "[]uint8":
		return schema.Bytea()
	}
	if strings.HasPrefix(goType, "[]") {
		return schema.JSONB()
	}
	return schema.Text()
}
