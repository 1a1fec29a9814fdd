package aggregates

// WriteTxOwnership names who opens and commits the transaction of a write.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate: the aggregate opens the transaction itself and
	// callers never pass one in.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// ReadPolicy limits which reads an aggregate performs.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped: only reads needed to decide an invariant.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
	// ReadPolicyTableRepoQueries: listing and reporting queries stay on the
	// table repos and services.
	ReadPolicyTableRepoQueries ReadPolicy = "table_repo_queries"
)

type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

// Aggregate is implemented by every write boundary.
type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}
