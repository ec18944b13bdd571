package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ridoystarlord/schemato/generator"
	"github.com/ridoystarlord/schemato/schema"
)

type yamlFile struct {
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Name        string           `yaml:"name"`
	Comment     string           `yaml:"comment"`
	RLS         *bool            `yaml:"rls"`
	Partition   *yamlPartition   `yaml:"partition"`
	Columns     []yamlColumn     `yaml:"columns"`
	Indexes     []yamlIndex      `yaml:"indexes"`
	Constraints []yamlConstraint `yaml:"constraints"`
	Policies    []yamlPolicy     `yaml:"policies"`
}

type yamlColumn struct {
	Name       string          `yaml:"name"`
	Type       string          `yaml:"type"`
	Primary    bool            `yaml:"primary"`
	Unique     bool            `yaml:"unique"`
	Nullable   *bool           `yaml:"nullable"`
	Default    *string         `yaml:"default"`
	Checks     []string        `yaml:"checks"`
	Collate    string          `yaml:"collate"`
	Comment    string          `yaml:"comment"`
	ForeignKey *yamlForeignKey `yaml:"foreign_key"`
}

type yamlForeignKey struct {
	Table    string `yaml:"table"`
	Column   string `yaml:"column"`
	OnDelete string `yaml:"on_delete"`
	OnUpdate string `yaml:"on_update"`
	Name     string `yaml:"name"`
}

type yamlIndex struct {
	Name       string            `yaml:"name"`
	Columns    []string          `yaml:"columns"`
	Expression string            `yaml:"expression"`
	Unique     bool              `yaml:"unique"`
	Type       string            `yaml:"type"`
	Where      string            `yaml:"where"`
	Include    []string          `yaml:"include"`
	Storage    map[string]string `yaml:"storage"`
}

type yamlConstraint struct {
	Name       string   `yaml:"name"`
	Check      string   `yaml:"check"`
	Unique     []string `yaml:"unique"`
	PrimaryKey []string `yaml:"primary_key"`
}

type yamlPartition struct {
	Type    string   `yaml:"type"`
	Columns []string `yaml:"columns"`
}

type yamlPolicy struct {
	Name      string   `yaml:"name"`
	Command   string   `yaml:"command"`
	Roles     []string `yaml:"roles"`
	Using     string   `yaml:"using"`
	WithCheck string   `yaml:"with_check"`
	Comment   string   `yaml:"comment"`
}

// LoadTablesFromYAML reads a schema file and resolves it into table schemas
// ready for generation, applying the front-end options: addTimestamps
// injects created_at/updated_at columns, enableRlsByDefault fills the RLS
// flag for tables that left it unset.
func LoadTablesFromYAML(filename string, cfg generator.GeneratorConfig) ([]schema.TableSchema, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	var tables []schema.TableSchema
	for _, yt := range yf.Tables {
		table, err := resolveTable(yt, cfg)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", yt.Name, err)
		}
		tables = append(tables, table)
	}

	return tables, nil
}

func resolveTable(yt yamlTable, cfg generator.GeneratorConfig) (schema.TableSchema, error) {
	table := schema.TableSchema{
		Name:    yt.Name,
		Comment: yt.Comment,
	}

	if yt.RLS != nil {
		table.EnableRLS = *yt.RLS
	} else {
		table.EnableRLS = cfg.EnableRLSByDefault
	}

	for _, yc := range yt.Columns {
		col, fk, err := resolveColumn(yc)
		if err != nil {
			return schema.TableSchema{}, err
		}
		table.Columns = append(table.Columns, col)
		if fk != nil {
			table.ForeignKeys = append(table.ForeignKeys, *fk)
		}
	}

	if cfg.AddTimestamps {
		addTimestampColumns(&table)
	}

	for _, yi := range yt.Indexes {
		indexType, err := schema.ParseIndexType(yi.Type)
		if err != nil {
			return schema.TableSchema{}, fmt.Errorf("index %q: %w", yi.Name, err)
		}
		table.Indexes = append(table.Indexes, schema.DatabaseIndex{
			Name:              yi.Name,
			Columns:           yi.Columns,
			Expression:        yi.Expression,
			Unique:            yi.Unique,
			Type:              indexType,
			Where:             yi.Where,
			Include:           yi.Include,
			StorageParameters: yi.Storage,
		})
	}

	for _, yc := range yt.Constraints {
		constraint, err := resolveConstraint(yc)
		if err != nil {
			return schema.TableSchema{}, err
		}
		table.Constraints = append(table.Constraints, constraint)
	}

	if yt.Partition != nil {
		kind, err := schema.ParsePartitionKind(yt.Partition.Type)
		if err != nil {
			return schema.TableSchema{}, err
		}
		partition := schema.NewPartition(kind, yt.Partition.Columns...)
		table.Partition = &partition
	}

	for _, yp := range yt.Policies {
		command, err := schema.ParsePolicyCommand(yp.Command)
		if err != nil {
			return schema.TableSchema{}, fmt.Errorf("policy %q: %w", yp.Name, err)
		}
		table.Policies = append(table.Policies, schema.RlsPolicy{
			Name:      yp.Name,
			Command:   command,
			Roles:     yp.Roles,
			Using:     yp.Using,
			WithCheck: yp.WithCheck,
			Comment:   yp.Comment,
		})
	}

	return table, nil
}

func resolveColumn(yc yamlColumn) (schema.ColumnSchema, *schema.ForeignKey, error) {
	col := schema.ColumnSchema{
		Name:         yc.Name,
		Type:         schema.ParseColumnType(yc.Type).SQL(),
		IsNullable:   true,
		IsPrimaryKey: yc.Primary,
		IsUnique:     yc.Unique,
		Checks:       yc.Checks,
		Collation:    yc.Collate,
		Comment:      yc.Comment,
	}
	if yc.Nullable != nil {
		col.IsNullable = *yc.Nullable
	}
	if yc.Primary {
		col.IsNullable = false
	}
	if yc.Default != nil {
		def := schema.ParseDefault(*yc.Default)
		col.Default = &def
	}

	if yc.ForeignKey == nil {
		return col, nil, nil
	}

	fk := schema.ForeignKey{
		Column:           yc.Name,
		ReferencesTable:  yc.ForeignKey.Table,
		ReferencesColumn: yc.ForeignKey.Column,
		Name:             yc.ForeignKey.Name,
	}
	if yc.ForeignKey.OnDelete != "" {
		action, err := schema.ParseForeignKeyAction(yc.ForeignKey.OnDelete)
		if err != nil {
			return schema.ColumnSchema{}, nil, fmt.Errorf("column %q: %w", yc.Name, err)
		}
		fk.OnDelete = action
	}
	if yc.ForeignKey.OnUpdate != "" {
		action, err := schema.ParseForeignKeyAction(yc.ForeignKey.OnUpdate)
		if err != nil {
			return schema.ColumnSchema{}, nil, fmt.Errorf("column %q: %w", yc.Name, err)
		}
		fk.OnUpdate = action
	}
	return col, &fk, nil
}

func resolveConstraint(yc yamlConstraint) (schema.TableConstraint, error) {
	switch {
	case yc.Check != "":
		return schema.CheckConstraint{Name: yc.Name, Condition: yc.Check}, nil
	case len(yc.Unique) > 0:
		return schema.UniqueConstraint{Name: yc.Name, Columns: yc.Unique}, nil
	case len(yc.PrimaryKey) > 0:
		return schema.PrimaryKeyConstraint{Name: yc.Name, Columns: yc.PrimaryKey}, nil
	}
	return nil, fmt.Errorf("constraint %q: needs one of check, unique or primary_key", yc.Name)
}

// addTimestampColumns injects created_at/updated_at unless columns of those
// names already exist.
func addTimestampColumns(table *schema.TableSchema) {
	for _, name := range []string{"created_at", "updated_at"} {
		if table.HasColumn(name) {
			continue
		}
		def := schema.CurrentTimestampDefault()
		table.Columns = append(table.Columns, schema.ColumnSchema{
			Name:    name,
			Type:    schema.TimestampTZ().SQL(),
			Default: &def,
		})
	}
}
