package aggregates

import (
	"context"
	"fmt"
	"sort"
	"strings"

	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/integrity"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IntegrityAggregateDeps struct {
	Base   BaseDeps
	Stores Stores
	// Rules defaults to integrity.Default().
	Rules *integrity.Table
	Stats CourseStatsInvalidator
}

type integrityAggregate struct {
	deps IntegrityAggregateDeps
	flow completionFlow
}

func NewIntegrityAggregate(deps IntegrityAggregateDeps) (domainagg.IntegrityAggregate, error) {
	deps.Base = deps.Base.withDefaults()
	deps.Stats = invalidatorOrNoop(deps.Stats)
	if deps.Rules == nil {
		rules, err := integrity.Default()
		if err != nil {
			return nil, err
		}
		deps.Rules = rules
	}
	return &integrityAggregate{deps: deps, flow: completionFlow{s: deps.Stores}}, nil
}

func (a *integrityAggregate) Contract() domainagg.Contract {
	return domainagg.IntegrityAggregateContract
}

func (a *integrityAggregate) Delete(ctx context.Context, in domainagg.DeleteEntityInput) (domainagg.DeleteEntityResult, error) {
	const op = "integrity.delete"
	if err := a.validate(op); err != nil {
		return domainagg.DeleteEntityResult{}, err
	}
	entity := strings.TrimSpace(in.Entity)
	if _, ok := a.deps.Rules.Entity(entity); !ok {
		return domainagg.DeleteEntityResult{}, MapError(op, ValidationError(fmt.Sprintf("unknown entity %q", in.Entity)))
	}
	if in.ID == 0 {
		return domainagg.DeleteEntityResult{}, MapError(op, ValidationError("id is required"))
	}
	at := a.deps.Base.at(timeZero)

	var out domainagg.DeleteEntityResult
	var touched []uint
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		run := &deleteRun{
			db:      dbc.DB(a.deps.Base.DB),
			rules:   a.deps.Rules,
			courses: map[uint]bool{},
			out: domainagg.DeleteEntityResult{
				Deleted:   map[string]int64{},
				Nullified: map[string]int64{},
			},
		}
		if run.db == nil {
			return domainagg.NewError(domainagg.CodeInternal, op, "integrity aggregate has no database", nil)
		}
		var n int64
		if err := run.db.Table(entity).Where("id = ?", in.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return NotFoundError(fmt.Sprintf("%s %d not found", entity, in.ID))
		}
		if entity == "course" {
			touched = append(touched, in.ID)
		}
		if err := run.delete(entity, []uint{in.ID}); err != nil {
			return err
		}

		for _, courseID := range run.sortedCourses() {
			touched = append(touched, courseID)
			course, err := a.deps.Stores.Courses.GetByID(dbc, courseID)
			if err != nil {
				return err
			}
			if course == nil {
				continue
			}
			if _, err := a.flow.recomputeCourse(dbc, courseID, at); err != nil {
				return err
			}
			run.out.RecomputedCourses = append(run.out.RecomputedCourses, courseID)
		}
		out = run.out
		return nil
	})
	if err != nil {
		return domainagg.DeleteEntityResult{}, err
	}
	for _, courseID := range touched {
		a.deps.Stats.InvalidateCourse(ctx, courseID)
	}
	a.deps.Base.Log.Info("entity deleted", "entity", entity, "id", in.ID, "deleted", out.Deleted, "nullified", out.Nullified)
	return out, nil
}

// RequireExists fails with not_found unless the row exists. It is used before
// a foreign key is set to a caller-supplied id.
func (a *integrityAggregate) RequireExists(ctx context.Context, entity string, id uint) error {
	const op = "integrity.require_exists"
	if err := a.validate(op); err != nil {
		return err
	}
	entity = strings.TrimSpace(entity)
	if _, ok := a.deps.Rules.Entity(entity); !ok {
		return MapError(op, ValidationError(fmt.Sprintf("unknown entity %q", entity)))
	}
	if id == 0 {
		return MapError(op, NotFoundError(fmt.Sprintf("%s reference is empty", entity)))
	}
	db := dbctx.Context{Ctx: ctx}.DB(a.deps.Base.DB)
	if db == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "integrity aggregate has no database", nil)
	}
	var n int64
	if err := db.Table(entity).Where("id = ?", id).Count(&n).Error; err != nil {
		return MapError(op, err)
	}
	if n == 0 {
		return MapError(op, NotFoundError(fmt.Sprintf("%s %d not found", entity, id)))
	}
	return nil
}

func (a *integrityAggregate) validate(op string) error {
	if a == nil || a.deps.Rules == nil || !a.deps.Stores.complete() {
		return domainagg.NewError(domainagg.CodeInternal, op, "integrity aggregate dependencies are not configured", nil)
	}
	return nil
}

// deleteRun applies the rule table to one delete request.
type deleteRun struct {
	db      *gorm.DB
	rules   *integrity.Table
	courses map[uint]bool
	out     domainagg.DeleteEntityResult
}

func (r *deleteRun) delete(entity string, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.collectCourses(entity, ids); err != nil {
		return err
	}

	for _, rule := range r.rules.ChildRules(entity) {
		fk := clause.Column{Name: rule.ForeignKey}
		switch rule.Action {
		case integrity.Restrict:
			var n int64
			if err := r.db.Table(rule.Child).Where("? IN ?", fk, ids).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return codedError(domainagg.CodeRestrictedDeletion,
					fmt.Sprintf("%s is still referenced by %d %s row(s)", entity, n, rule.Child), nil)
			}
		case integrity.SetNull:
			res := r.db.Table(rule.Child).Where("? IN ?", fk, ids).Update(rule.ForeignKey, nil)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				r.out.Nullified[rule.Child+"."+rule.ForeignKey] += res.RowsAffected
			}
		case integrity.Cascade:
			var childIDs []uint
			if err := r.db.Table(rule.Child).Where("? IN ?", fk, ids).Pluck("id", &childIDs).Error; err != nil {
				return err
			}
			if err := r.delete(rule.Child, childIDs); err != nil {
				return err
			}
		}
	}

	res := r.db.Exec("DELETE FROM ? WHERE id IN ?", clause.Table{Name: entity}, ids)
	if res.Error != nil {
		return res.Error
	}
	r.out.Deleted[entity] += res.RowsAffected
	return nil
}

// collectCourses records the courses whose enrollment progress depends on the
// rows about to be deleted. It runs before any child rule, so a hop entity that
// is itself being cascaded is still readable.
func (r *deleteRun) collectCourses(entity string, ids []uint) error {
	ent, ok := r.rules.Entity(entity)
	if !ok || ent.RecomputeProgressVia == "" {
		return nil
	}
	source, sourceIDs := entity, ids
	if hop := ent.RecomputeProgressThrough; hop != nil {
		var hopIDs []uint
		if err := r.db.Table(entity).
			Where("id IN ?", ids).
			Distinct().
			Pluck(hop.ForeignKey, &hopIDs).Error; err != nil {
			return err
		}
		if len(hopIDs) == 0 {
			return nil
		}
		source, sourceIDs = hop.Entity, hopIDs
	}
	var courseIDs []uint
	if err := r.db.Table(source).
		Where("id IN ?", sourceIDs).
		Distinct().
		Pluck(ent.RecomputeProgressVia, &courseIDs).Error; err != nil {
		return err
	}
	for _, id := range courseIDs {
		r.courses[id] = true
	}
	return nil
}

func (r *deleteRun) sortedCourses() []uint {
	out := make([]uint, 0, len(r.courses))
	for id := range r.courses {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
