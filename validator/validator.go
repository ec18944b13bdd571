package validator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/schemato/schema"
)

// ValidationError is a single finding with its location and severity.
type ValidationError struct {
	Type     string `json:"type"`
	Table    string `json:"table,omitempty"`
	Column   string `json:"column,omitempty"`
	Index    string `json:"index,omitempty"`
	Policy   string `json:"policy,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

// ValidationResult collects every finding for one validation pass rather
// than stopping at the first violation. Valid is false when any
// error-severity finding exists; warnings and info never block generation.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

func (r *ValidationResult) addError(e ValidationError) {
	e.Severity = "error"
	r.Errors = append(r.Errors, e)
}

func (r *ValidationResult) addWarning(e ValidationError) {
	e.Severity = "warning"
	r.Warnings = append(r.Warnings, e)
}

func (r *ValidationResult) addInfo(e ValidationError) {
	e.Severity = "info"
	r.Info = append(r.Info, e)
}

// Err converts a failed result into a SchemaValidationError, or nil when
// the result is valid.
func (r *ValidationResult) Err(table string) error {
	if r.Valid {
		return nil
	}
	return &SchemaValidationError{Table: table, Errors: r.Errors}
}

// SchemaValidationError is raised when pre-flight validation finds
// error-severity violations; generation aborts and no SQL is returned.
type SchemaValidationError struct {
	Table  string
	Errors []ValidationError
}

func (e *SchemaValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("schema validation failed for table %q: %s", e.Table, strings.Join(msgs, "; "))
}

// ValidateTable runs the cross-entity checks over one table schema without
// mutating it: identifier shape, primary key presence (warning only),
// foreign key targets, index column references, RLS policy conditions and
// partition/primary-key coupling.
func ValidateTable(s schema.TableSchema) *ValidationResult {
	result := &ValidationResult{Valid: true}

	validateTableName(s, result)
	validateColumns(s, result)
	validateConstraints(s, result)
	validateForeignKeys(s, result)
	validateIndexes(s, result)
	validatePolicies(s, result)
	validatePartition(s, result)

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateTables validates every table independently; one table's failures
// do not stop the others from being checked.
func ValidateTables(tables []schema.TableSchema) *ValidationResult {
	combined := &ValidationResult{Valid: true}
	for _, s := range tables {
		r := ValidateTable(s)
		combined.Errors = append(combined.Errors, r.Errors...)
		combined.Warnings = append(combined.Warnings, r.Warnings...)
		combined.Info = append(combined.Info, r.Info...)
	}
	combined.Valid = len(combined.Errors) == 0
	return combined
}

func validateTableName(s schema.TableSchema, result *ValidationResult) {
	if err := validateIdentifier("table", s.Name); err != nil {
		result.addError(ValidationError{
			Type:    "table_name",
			Table:   s.Name,
			Message: err.Error(),
		})
	}
}

func validateColumns(s schema.TableSchema, result *ValidationResult) {
	if len(s.Columns) == 0 {
		result.addError(ValidationError{
			Type:    "no_columns",
			Table:   s.Name,
			Message: fmt.Sprintf("table '%s' must have at least one column", s.Name),
		})
		return
	}

	seen := make(map[string]bool)
	hasPrimaryKey := false

	for _, col := range s.Columns {
		if seen[col.Name] {
			result.addError(ValidationError{
				Type:    "duplicate_column",
				Table:   s.Name,
				Column:  col.Name,
				Message: fmt.Sprintf("duplicate column name '%s' in table '%s'", col.Name, s.Name),
			})
			continue
		}
		seen[col.Name] = true

		if err := validateIdentifier("column", col.Name); err != nil {
			result.addError(ValidationError{
				Type:    "column_name",
				Table:   s.Name,
				Column:  col.Name,
				Message: err.Error(),
			})
		}

		if col.IsPrimaryKey {
			hasPrimaryKey = true
		}

		if col.Default != nil {
			if ext := col.Default.RequiredExtension(); ext != "" {
				result.addInfo(ValidationError{
					Type:    "required_extension",
					Table:   s.Name,
					Column:  col.Name,
					Message: fmt.Sprintf("default '%s' on column '%s' requires the %s extension", col.Default.SQL(), col.Name, ext),
				})
			}
			if !col.Default.CompatibleWith(schema.ParseColumnType(col.Type)) {
				result.addWarning(ValidationError{
					Type:    "default_value",
					Table:   s.Name,
					Column:  col.Name,
					Message: fmt.Sprintf("default '%s' does not look compatible with type %s on column '%s'", col.Default.SQL(), col.Type, col.Name),
				})
			}
		}
	}

	// A table without a primary key is legal SQL, so this stays a warning.
	// A table-level PRIMARY KEY constraint counts as having one.
	if !hasPrimaryKey && !hasPrimaryKeyConstraint(s) {
		result.addWarning(ValidationError{
			Type:    "no_primary_key",
			Table:   s.Name,
			Message: fmt.Sprintf("table '%s' has no primary key defined", s.Name),
		})
	}
}

func hasPrimaryKeyConstraint(s schema.TableSchema) bool {
	for _, constraint := range s.Constraints {
		if _, ok := constraint.(schema.PrimaryKeyConstraint); ok {
			return true
		}
	}
	return false
}

func validateConstraints(s schema.TableSchema, result *ValidationResult) {
	seen := make(map[string]bool)
	pkConstraints := 0

	for _, constraint := range s.Constraints {
		name := constraint.ConstraintName()

		if err := constraint.Validate(); err != nil {
			result.addError(ValidationError{
				Type:    "constraint",
				Table:   s.Name,
				Message: err.Error(),
			})
			continue
		}

		if seen[name] {
			result.addError(ValidationError{
				Type:    "duplicate_constraint",
				Table:   s.Name,
				Message: fmt.Sprintf("duplicate constraint name '%s' in table '%s'", name, s.Name),
			})
		}
		seen[name] = true

		pk, ok := constraint.(schema.PrimaryKeyConstraint)
		if !ok {
			continue
		}
		pkConstraints++
		if pkConstraints > 1 {
			result.addError(ValidationError{
				Type:    "primary_key_conflict",
				Table:   s.Name,
				Message: fmt.Sprintf("table '%s' declares more than one primary key constraint", s.Name),
			})
		}
		if cols := s.PrimaryKeyColumns(); len(cols) > 0 {
			result.addError(ValidationError{
				Type:    "primary_key_conflict",
				Table:   s.Name,
				Message: fmt.Sprintf("constraint '%s' conflicts with primary key columns (%s) in table '%s'", pk.Name, strings.Join(cols, ", "), s.Name),
			})
		}
	}
}

func validateForeignKeys(s schema.TableSchema, result *ValidationResult) {
	for _, fk := range s.ForeignKeys {
		if strings.TrimSpace(fk.ReferencesTable) == "" {
			result.addError(ValidationError{
				Type:    "foreign_key",
				Table:   s.Name,
				Column:  fk.Column,
				Message: fmt.Sprintf("foreign key on column '%s' has no references table", fk.Column),
			})
		}
		if !s.HasColumn(fk.Column) {
			result.addError(ValidationError{
				Type:    "foreign_key",
				Table:   s.Name,
				Column:  fk.Column,
				Message: fmt.Sprintf("foreign key references undeclared column '%s' in table '%s'", fk.Column, s.Name),
			})
		}
		if fk.ReferencesTable == s.Name && fk.TargetColumn() == fk.Column {
			result.addError(ValidationError{
				Type:    "foreign_key",
				Table:   s.Name,
				Column:  fk.Column,
				Message: fmt.Sprintf("foreign key on column '%s' cannot reference itself", fk.Column),
			})
		}
	}
}

func validateIndexes(s schema.TableSchema, result *ValidationResult) {
	seen := make(map[string]bool)

	for _, ix := range s.Indexes {
		name := ix.ResolvedName(s.Name)
		if seen[name] {
			result.addError(ValidationError{
				Type:    "duplicate_index",
				Table:   s.Name,
				Index:   name,
				Message: fmt.Sprintf("duplicate index name '%s' in table '%s'", name, s.Name),
			})
			continue
		}
		seen[name] = true

		for _, col := range ix.Columns {
			if !s.HasColumn(col) {
				result.addError(ValidationError{
					Type:    "index_column_not_found",
					Table:   s.Name,
					Index:   name,
					Column:  col,
					Message: fmt.Sprintf("index '%s' references non-existent column '%s' in table '%s'", name, col, s.Name),
				})
			}
		}
		for _, col := range ix.Include {
			if !s.HasColumn(col) {
				result.addError(ValidationError{
					Type:    "index_column_not_found",
					Table:   s.Name,
					Index:   name,
					Column:  col,
					Message: fmt.Sprintf("index '%s' INCLUDE references non-existent column '%s' in table '%s'", name, col, s.Name),
				})
			}
		}

		if len(ix.Columns) > 0 && ix.Expression != "" {
			result.addError(ValidationError{
				Type:    "index_definition",
				Table:   s.Name,
				Index:   name,
				Message: fmt.Sprintf("index '%s' declares both columns and an expression", name),
			})
		}
	}
}

func validatePolicies(s schema.TableSchema, result *ValidationResult) {
	if len(s.Policies) > 0 && !s.EnableRLS {
		result.addWarning(ValidationError{
			Type:    "rls_disabled",
			Table:   s.Name,
			Message: fmt.Sprintf("table '%s' declares policies but row level security is not enabled", s.Name),
		})
	}

	for _, policy := range s.Policies {
		if strings.TrimSpace(policy.Using) == "" {
			result.addError(ValidationError{
				Type:    "rls_policy",
				Table:   s.Name,
				Policy:  policy.Name,
				Message: fmt.Sprintf("policy '%s' on table '%s' has an empty USING condition", policy.Name, s.Name),
			})
		}
	}
}

func validatePartition(s schema.TableSchema, result *ValidationResult) {
	if s.Partition == nil {
		return
	}

	if err := s.Partition.Validate(); err != nil {
		result.addError(ValidationError{
			Type:    "partition",
			Table:   s.Name,
			Message: err.Error(),
		})
		return
	}

	// PostgreSQL requires partition keys to be part of any primary or
	// unique constraint on a partitioned table.
	pk := make(map[string]bool)
	for _, col := range s.PrimaryKeyColumns() {
		pk[col] = true
	}
	for _, col := range s.Partition.Columns() {
		if !s.HasColumn(col) {
			result.addError(ValidationError{
				Type:    "partition",
				Table:   s.Name,
				Column:  col,
				Message: fmt.Sprintf("partition column '%s' is not declared in table '%s'", col, s.Name),
			})
			continue
		}
		if !pk[col] {
			result.addError(ValidationError{
				Type:    "partition",
				Table:   s.Name,
				Column:  col,
				Message: fmt.Sprintf("partition column '%s' must be part of the primary key in table '%s'", col, s.Name),
			})
		}
	}
}

// validateIdentifier enforces PostgreSQL identifier rules: non-empty, at
// most 63 characters, letters/digits/underscore only.
func validateIdentifier(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if len(name) > 63 {
		return fmt.Errorf("%s name '%s' is too long (max 63 characters)", kind, name)
	}
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_') {
			return fmt.Errorf("%s name '%s' contains invalid character '%c'", kind, name, char)
		}
	}
	return nil
}
