package domain

// MutationKind names a class of write, e.g. "item.close".
type MutationKind string

// Mutation kinds of the workspace domain.
const (
	MutationItemCreate    MutationKind = "item.create"
	MutationItemUpdate    MutationKind = "item.update"
	MutationItemClose     MutationKind = "item.close"
	MutationItemReopen    MutationKind = "item.reopen"
	MutationItemDelete    MutationKind = "item.delete"
	MutationCommentAdd    MutationKind = "comment.add"
	MutationAttachmentAdd MutationKind = "attachment.add"
	MutationWorkspaceEdit MutationKind = "workspace.update"
	MutationMemberChange  MutationKind = "member.update"
)

// Target names what a successful mutation touched.
type Target struct {
	// Scope is the enclosing scope, typically a workspace ID.
	Scope string
	// IDs are the entities written by the mutation.
	IDs []string
}

// Targeter is implemented by mutation results that know which scope and
// entities they affected.
type Targeter interface {
	MutationTarget() Target
}

// MutationState is a step of one mutation invocation.
type MutationState string

const (
	// StatePending indicates the mutation has not started.
	StatePending MutationState = "Pending"
	// StateExecuting indicates the write function is running.
	StateExecuting MutationState = "Executing"
	// StateSucceeded indicates the write function returned a result.
	StateSucceeded MutationState = "Succeeded"
	// StateFailed indicates the write function returned an error.
	StateFailed MutationState = "Failed"
	// StateInvalidating indicates the invalidation rules are being applied.
	StateInvalidating MutationState = "Invalidating"
	// StateReported indicates the user-facing notification was emitted.
	StateReported MutationState = "Reported"
)

// InvalidationRule maps one mutation kind to the cache entries it makes stale.
type InvalidationRule struct {
	Kind MutationKind
	// Prefixes are client query-cache keys to invalidate.
	Prefixes []KeyPattern
	// ScopedSets names server-side scoped-set caches whose entry for the
	// target scope must be dropped immediately.
	ScopedSets []string
}
