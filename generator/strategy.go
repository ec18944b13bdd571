package generator

import (
	"fmt"

	"github.com/ridoystarlord/schemato/schema"
)

// A strategyFunc turns one table schema into the ordered statement list for
// a migration mode. Strategies are pure: they compose the stateless
// builders in different orders and share no state.
type strategyFunc func(schema.TableSchema, GeneratorConfig) ([]string, error)

var strategies = map[MigrationMode]strategyFunc{
	ModeCreateOnly:        buildCreateOnly,
	ModeCreateIfNotExists: buildCreateIfNotExists,
	ModeCreateOrAlter:     buildCreateOrAlter,
	ModeAlterOnly:         buildAlterOnly,
	ModeDropAndRecreate:   buildDropAndRecreate,
}

func strategyFor(mode MigrationMode) (strategyFunc, error) {
	if fn, ok := strategies[mode]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unsupported migration mode: %s", mode)
}

// tableObjectStatements is the shared tail every create-flavored strategy
// appends after its table statement: indexes, foreign keys, row level
// security and the table and column comments, in that order.
func tableObjectStatements(s schema.TableSchema, cfg GeneratorConfig) ([]string, error) {
	var stmts []string

	if cfg.Migration.EnableIndexCreation {
		indexes, err := BuildIndexes(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, indexes...)
	}

	if cfg.Migration.EnableConstraintModification {
		fks, err := BuildForeignKeys(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, fks...)
	}

	rls, err := BuildRLS(s, cfg.GenerateComments)
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, rls...)

	if cfg.GenerateComments {
		if s.Comment != "" {
			stmts = append(stmts, BuildTableComment(s))
		}
		stmts = append(stmts, BuildColumnComments(s)...)
	}

	return stmts, nil
}

func buildCreateOnly(s schema.TableSchema, cfg GeneratorConfig) ([]string, error) {
	create, err := BuildCreateTable(s, false, cfg)
	if err != nil {
		return nil, err
	}
	tail, err := tableObjectStatements(s, cfg)
	if err != nil {
		return nil, err
	}
	return append([]string{create}, tail...), nil
}

func buildCreateIfNotExists(s schema.TableSchema, cfg GeneratorConfig) ([]string, error) {
	create, err := BuildCreateTable(s, true, cfg)
	if err != nil {
		return nil, err
	}
	tail, err := tableObjectStatements(s, cfg)
	if err != nil {
		return nil, err
	}
	return append([]string{create}, tail...), nil
}

func buildCreateOrAlter(s schema.TableSchema, cfg GeneratorConfig) ([]string, error) {
	create, err := BuildCreateTable(s, true, cfg)
	if err != nil {
		return nil, err
	}
	adds, err := BuildAddColumns(s, cfg)
	if err != nil {
		return nil, err
	}
	tail, err := tableObjectStatements(s, cfg)
	if err != nil {
		return nil, err
	}
	stmts := append([]string{create}, adds...)
	return append(stmts, tail...), nil
}

func buildAlterOnly(s schema.TableSchema, cfg GeneratorConfig) ([]string, error) {
	return BuildAddColumns(s, cfg)
}

func buildDropAndRecreate(s schema.TableSchema, cfg GeneratorConfig) ([]string, error) {
	stmts, err := buildCreateOnly(s, cfg)
	if err != nil {
		return nil, err
	}
	drop := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", s.Name)
	return append([]string{drop}, stmts...), nil
}
