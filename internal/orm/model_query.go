package orm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
)

var (
	// ErrNoSuchField is returned when there is no field or no relation with that name.
	ErrNoSuchField = errors.New("field does not exist")
	// ErrNoSuchRelation is returned only when trying to select a nested field on a relation that does not exist.
	ErrNoSuchRelation = errors.New("relation does not exist")
	// ErrTooManyResults is returned when CollectOne is called but returned many models
	ErrTooManyResults = errors.New("too many result for CollectOne")
)

// ModelQuery is an immutable query over a schema. Every builder method
// returns a copy, so a base query can be shared and refined.
type ModelQuery[T any] struct {
	schema *ModelSchema[T]

	selectedFields         map[string]FieldType[T]
	selectedRelations      map[string]Relation[T]
	selectedRelationFields map[string][]string
	tableAlias             string
	queryMods              []QueryMod

	errors []error
}

func newModelQuery[T any](schema *ModelSchema[T], fields ...string) ModelQuery[T] {
	query := ModelQuery[T]{
		schema:                 schema,
		selectedFields:         map[string]FieldType[T]{},
		selectedRelations:      map[string]Relation[T]{},
		selectedRelationFields: map[string][]string{},
		tableAlias:             schema.Table,
		queryMods:              []QueryMod{},
		errors:                 []error{},
	}

	return query.Select(fields...)
}

func (model ModelQuery[T]) ModifyQuery(mod QueryMod) ModelQuery[T] {
	model = model.clone()
	model.queryMods = append(model.queryMods, mod)

	return model
}

// Select adds fields to the query. Without arguments every column of the
// base table is selected. Dotted names select fields of a relation and
// imply resolving that relation.
func (model ModelQuery[T]) Select(fieldNames ...string) ModelQuery[T] {
	model = model.clone()

	if len(fieldNames) == 0 {
		model.selectAllFields()
		return model
	}

	for _, name := range fieldNames {
		model.resolveSelect(name)
	}

	return model
}

func (model *ModelQuery[T]) resolveSelect(name string) {
	field, rest := isNested(name)

	if field == "*" {
		if rest != "" {
			model.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}

		model.selectAllFields()
		return
	}

	if model.schema.hasRelation(field) {
		if rest != "" && rest != "*" {
			// Validate the chosen nested field.
			if err := model.schema.Relations[field].Check(rest); err != nil {
				model.addError(err)
				return
			}
		}
		model.selectRelation(field, rest)
		return
	}

	if model.schema.hasField(field) {
		// Fields cannot have nesting
		if rest != "" {
			model.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}
		model.selectField(field)
		return
	}

	model.addError(fmt.Errorf("%w: %s", ErrNoSuchField, field))
}

func (model *ModelQuery[T]) selectAllFields() {
	for name := range model.schema.Fields {
		model.selectedFields[name] = model.schema.Fields[name]
	}
}

func (model *ModelQuery[T]) selectField(name string) {
	model.selectedFields[name] = model.schema.Fields[name]
}

func (model *ModelQuery[T]) selectRelation(relName, relField string) {
	if relField == "" {
		relField = "*"
	}

	model.selectedRelations[relName] = model.schema.Relations[relName]
	model.selectedRelationFields[relName] = append(model.selectedRelationFields[relName], relField)
}

// =================
// Finishers
// =================

func (model ModelQuery[T]) Err() error {
	return errors.Join(model.errors...)
}

func (model ModelQuery[T]) Collect(ctx context.Context, db squirrel.BaseRunner) ([]T, error) {
	model = model.withDependencies()
	if err := model.Err(); err != nil {
		return nil, err
	}

	parents, err := model.collectBaseModels(ctx, db)
	if err != nil {
		return nil, err
	}

	if err := model.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return parents, nil
}

func (model ModelQuery[T]) CollectOne(ctx context.Context, db squirrel.BaseRunner) (*T, error) {
	model = model.withDependencies()
	if err := model.Err(); err != nil {
		return nil, err
	}

	parents, err := model.collectBaseModels(ctx, db)
	if err != nil {
		return nil, err
	}

	if len(parents) == 0 {
		return nil, sql.ErrNoRows
	} else if len(parents) > 1 {
		return nil, ErrTooManyResults
	}

	if err := model.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return &parents[0], nil
}

// withDependencies selects the fields every selected relation needs to bind
// its children back onto the parents.
func (model ModelQuery[T]) withDependencies() ModelQuery[T] {
	for _, name := range slices.Sorted(maps.Keys(model.selectedRelations)) {
		if mod := model.selectedRelations[name].ModelQueryMod; mod != nil {
			model = mod(model)
		}
	}

	return model
}

func (model ModelQuery[T]) collectBaseModels(
	ctx context.Context,
	db squirrel.BaseRunner,
) ([]T, error) {
	q := squirrel.StatementBuilder.RunWith(db).Select().From(model.schema.Table)

	// Apply schema mods
	q = applyMods(q, model.tableAlias, model.schema.QueryMods)
	// Apply runtime mods
	q = applyMods(q, model.tableAlias, model.queryMods)

	// Collapse fields in a stable order so the generated SQL is deterministic.
	var scans []RowScan[T]
	for _, name := range slices.Sorted(maps.Keys(model.selectedFields)) {
		field := model.selectedFields[name]
		q = field.Mod(q, model.tableAlias)
		scans = append(scans, field.RowScan)
	}

	// Execute query
	parents, err := Collect(ctx, q, flattenRowScan(scans))
	if err != nil {
		return nil, err
	}

	return parents, nil
}

func (model ModelQuery[T]) resolveRelations(
	ctx context.Context,
	db squirrel.BaseRunner,
	parents []T,
) error {
	if len(parents) == 0 {
		return nil
	}

	for name, relation := range model.selectedRelations {
		err := relation.Resolve(
			ctx,
			db,
			parents,
			model.selectedRelationFields[name],
		)
		if err != nil {
			return fmt.Errorf("resolve %s.%s: %w", model.schema.Table, name, err)
		}
	}

	return nil
}

// =================
// Utilities
// =================

func (model *ModelQuery[T]) addError(err error) {
	model.errors = append(model.errors, err)
}

func (model ModelQuery[T]) clone() ModelQuery[T] {
	model.selectedFields = maps.Clone(model.selectedFields)
	model.selectedRelations = maps.Clone(model.selectedRelations)
	relationFields := make(map[string][]string, len(model.selectedRelationFields))
	for name, fields := range model.selectedRelationFields {
		relationFields[name] = slices.Clone(fields)
	}
	model.selectedRelationFields = relationFields
	model.queryMods = slices.Clone(model.queryMods)
	model.errors = slices.Clone(model.errors)

	return model
}

func isNested(name string) (string, string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 1 {
		return name, ""
	}
	return parts[0], parts[1]
}
