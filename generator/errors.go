package generator

import "fmt"

// ConfigurationError is a structural rule violation caught while building
// SQL (missing foreign key target, unusable index definition, invalid
// partition setup). It always names the offending table and entity, and no
// SQL is returned for the table.
type ConfigurationError struct {
	Table  string
	Entity string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("table %q: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("table %q, %s: %s", e.Table, e.Entity, e.Reason)
}

func configErr(table, entity, format string, args ...interface{}) error {
	return &ConfigurationError{
		Table:  table,
		Entity: entity,
		Reason: fmt.Sprintf(format, args...),
	}
}
