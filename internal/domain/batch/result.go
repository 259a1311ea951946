package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusCreated ItemStatus = "created"
	StatusUpdated ItemStatus = "updated"
	StatusDeleted ItemStatus = "deleted"
	StatusError   ItemStatus = "error"
)

// Result is the outcome of processing one item in a batch operation.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewIndexed creates the result of a successful document write.
func NewIndexed(id string, created bool) Result {
	if created {
		return Result{id: id, status: StatusCreated}
	}
	return Result{id: id, status: StatusUpdated}
}

// NewDeleted creates the result of a successful delete.
func NewDeleted(id string) Result { return Result{id: id, status: StatusDeleted} }

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Failed reports whether the item was rejected.
func (r Result) Failed() bool { return r.status == StatusError }
