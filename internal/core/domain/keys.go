package domain

// Entity kinds used as the first segment of client query-cache keys.
const (
	KeyItems       = "items"
	KeyItem        = "item"
	KeyComments    = "comments"
	KeyAttachments = "attachments"
	KeyDashboard   = "dashboard"
	KeyWorkspace   = "workspace"
	KeyMembers     = "members"
	KeyActivity    = "activity"
)

// Upstream collections and buckets.
const (
	CollectionItems      = "items"
	CollectionWorkspaces = "workspaces"
	BucketAttachments    = "attachments"
)

// Names of the server-side scoped-set caches.
const (
	ScopedSetClosedItems = "closed-items"
)
