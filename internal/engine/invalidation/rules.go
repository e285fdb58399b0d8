package invalidation

import "go.trai.ch/keep/internal/core/domain"

// DefaultRules returns the rule table for the workspace domain. Item keys are
// scoped by workspace; item detail, comments and attachments are keyed by
// item ID.
func DefaultRules() []domain.InvalidationRule {
	var (
		items      = domain.Prefix(domain.KeyItems, domain.PlaceholderScope)
		item       = domain.Prefix(domain.KeyItem, domain.PlaceholderID)
		dashboard  = domain.Prefix(domain.KeyDashboard, domain.PlaceholderScope)
		activity   = domain.Prefix(domain.KeyActivity, domain.PlaceholderScope)
		comments   = domain.Prefix(domain.KeyComments, domain.PlaceholderID)
		attachment = domain.Prefix(domain.KeyAttachments, domain.PlaceholderID)
		workspace  = domain.ExactKey(domain.KeyWorkspace, domain.PlaceholderScope)
		members    = domain.Prefix(domain.KeyMembers, domain.PlaceholderScope)
	)

	closedItems := []string{domain.ScopedSetClosedItems}

	return []domain.InvalidationRule{
		{
			Kind:     domain.MutationItemCreate,
			Prefixes: []domain.KeyPattern{items, dashboard, activity},
		},
		{
			Kind:     domain.MutationItemUpdate,
			Prefixes: []domain.KeyPattern{items, item, dashboard, activity},
		},
		{
			Kind:       domain.MutationItemClose,
			Prefixes:   []domain.KeyPattern{items, item, dashboard, activity},
			ScopedSets: closedItems,
		},
		{
			Kind:       domain.MutationItemReopen,
			Prefixes:   []domain.KeyPattern{items, item, dashboard, activity},
			ScopedSets: closedItems,
		},
		{
			Kind:       domain.MutationItemDelete,
			Prefixes:   []domain.KeyPattern{items, item, comments, attachment, dashboard, activity},
			ScopedSets: closedItems,
		},
		{
			Kind:     domain.MutationCommentAdd,
			Prefixes: []domain.KeyPattern{comments, item, activity},
		},
		{
			Kind:     domain.MutationAttachmentAdd,
			Prefixes: []domain.KeyPattern{attachment, item},
		},
		{
			Kind:     domain.MutationWorkspaceEdit,
			Prefixes: []domain.KeyPattern{workspace, dashboard},
		},
		{
			Kind:     domain.MutationMemberChange,
			Prefixes: []domain.KeyPattern{members, workspace},
		},
	}
}
