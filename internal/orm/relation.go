package orm

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

type (
	Resolve[M any]            func(ctx context.Context, db squirrel.BaseRunner, parents []M, fields []string) error
	FieldCheck                func(fields string) error
	Binder[M, N any]          func(parents []M, children []N)
	ModelQueryModifier[M any] func(model ModelQuery[M]) ModelQuery[M]
)

type Relation[M any] struct {
	Resolve       Resolve[M]
	Check         FieldCheck
	ModelQueryMod ModelQueryModifier[M]
}

func HasMany[M, N any](
	child *ModelSchema[N],
	belongTogether func(M, N) bool,
	assign func(*M, []N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(
		child,
		BindBy(belongTogether, assign),
		wherer,
		func(model ModelQuery[M]) ModelQuery[M] { return model.Select(depends...) },
	)
}

func HasOne[M, N any](
	child *ModelSchema[N],
	belongTogether func(M, N) bool,
	assign func(*M, N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(
		child,
		BindByOne(belongTogether, assign),
		wherer,
		func(model ModelQuery[M]) ModelQuery[M] { return model.Select(depends...) },
	)
}

func CreateRelation[M, N any](
	child *ModelSchema[N],
	binder Binder[M, N],
	wherer func(parents []M) QueryMod,
	depends ModelQueryModifier[M],
) Relation[M] {
	return Relation[M]{
		Check: func(field string) error {
			return child.Check(field)
		},
		Resolve: func(ctx context.Context, db squirrel.BaseRunner, parents []M, fields []string) error {
			children, err := child.Query(fields...).
				ModifyQuery(wherer(parents)).
				Collect(ctx, db)
			if err != nil {
				return err
			}

			binder(parents, children)

			return nil
		},
		ModelQueryMod: depends,
	}
}

// JoinTable names an association table holding only key pairs: ParentCol
// references the parent's key and ChildCol the child's TargetCol.
type JoinTable struct {
	Table     string
	ParentCol string
	ChildCol  string
	TargetCol string
}

type link[K comparable] struct {
	parent K
	child  K
}

// ManyToMany resolves children through an association table. The link rows
// are read first, then the children are collected by key and bound to every
// parent that links to them.
func ManyToMany[M, N any, K comparable](
	child *ModelSchema[N],
	join JoinTable,
	parentKey func(M) K,
	childKey func(N) K,
	assign func(*M, []N),
	depends []string,
) Relation[M] {
	return Relation[M]{
		Check: func(field string) error {
			return child.Check(field)
		},
		Resolve: func(ctx context.Context, db squirrel.BaseRunner, parents []M, fields []string) error {
			links, err := collectLinks[K](ctx, db, join, lo.Uniq(lo.Map(parents, func(parent M, _ int) K {
				return parentKey(parent)
			})))
			if err != nil {
				return err
			}

			var children []N
			if len(links) > 0 {
				childIDs := lo.Uniq(lo.Map(links, func(l link[K], _ int) K { return l.child }))
				children, err = child.Query(fields...).
					ModifyQuery(WhereEq(join.TargetCol, childIDs)).
					Collect(ctx, db)
				if err != nil {
					return err
				}
			}

			byKey := lo.KeyBy(children, childKey)
			byParent := lo.GroupBy(links, func(l link[K]) K { return l.parent })
			for ix := range parents {
				parent := &parents[ix]
				var collection []N

				for _, l := range byParent[parentKey(*parent)] {
					if c, ok := byKey[l.child]; ok {
						collection = append(collection, c)
					}
				}

				assign(parent, collection)
			}

			return nil
		},
		ModelQueryMod: func(model ModelQuery[M]) ModelQuery[M] { return model.Select(depends...) },
	}
}

func collectLinks[K comparable](
	ctx context.Context,
	db squirrel.BaseRunner,
	join JoinTable,
	parentIDs []K,
) ([]link[K], error) {
	q := squirrel.StatementBuilder.RunWith(db).
		Select().
		From(join.Table).
		Where(squirrel.Eq{TableCol(join.Table, join.ParentCol): parentIDs})
	q = Col(join.ParentCol, join.ChildCol)(q, join.Table)

	return Collect[link[K]](ctx, q, func(l *link[K]) (Ptrs, Action) {
		return Ptrs{&l.parent, &l.child}, nil
	})
}

func BindBy[M, N any](
	belongTogether func(M, N) bool,
	assign func(*M, []N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]
			var collection []N

			for _, child := range children {
				if !belongTogether(*parent, child) {
					continue
				}

				collection = append(collection, child)
			}

			assign(parent, collection)
		}
	}
}

func BindByOne[M, N any](
	belongTogether func(M, N) bool,
	assign func(*M, N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]

			for _, child := range children {
				if !belongTogether(*parent, child) {
					continue
				}

				assign(parent, child)
				break
			}
		}
	}
}

func WhereIDs[M any, K any](col string, getID func(m M) K) func(parents []M) QueryMod {
	return func(parents []M) QueryMod {
		return func(q Q, table string) Q {
			return q.Where(
				squirrel.Eq{
					TableCol(table, col): lo.Map(
						parents,
						func(parent M, _ int) K { return getID(parent) },
					),
				},
			)
		}
	}
}

func DependsOn(fields ...string) []string {
	return fields
}
