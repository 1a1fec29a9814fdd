package aggregates

import "context"

var IntegrityAggregateContract = Contract{
	Name:             "Platform.IntegrityAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Executes the declarative cascade/restrict/set-null table inside the delete transaction.",
}

// IntegrityAggregate deletes entities together with their dependents.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeRestrictedDeletion, CodeRetryable, CodeInternal.
type IntegrityAggregate interface {
	Aggregate

	// Delete removes the entity and applies every rule reachable from it.
	Delete(ctx context.Context, in DeleteEntityInput) (DeleteEntityResult, error)

	// RequireExists fails with CodeNotFound unless the referenced row exists.
	RequireExists(ctx context.Context, entity string, id uint) error
}

type DeleteEntityInput struct {
	Entity string
	ID     uint
}

type DeleteEntityResult struct {
	// Deleted counts removed rows per entity, including the root.
	Deleted map[string]int64
	// Nullified counts references cleared per "entity.column".
	Nullified map[string]int64
	// RecomputedCourses lists courses whose enrollment progress was recomputed.
	RecomputedCourses []uint
}
