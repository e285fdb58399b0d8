package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/keep/internal/core/domain"
)

func TestQueryKey_HasPrefix(t *testing.T) {
	key := domain.NewQueryKey("items", "ws1", "open")

	tests := []struct {
		name   string
		prefix domain.QueryKey
		want   bool
	}{
		{name: "empty prefix", prefix: domain.NewQueryKey(), want: true},
		{name: "kind only", prefix: domain.NewQueryKey("items"), want: true},
		{name: "kind and scope", prefix: domain.NewQueryKey("items", "ws1"), want: true},
		{name: "whole key", prefix: key, want: true},
		{name: "other scope", prefix: domain.NewQueryKey("items", "ws2"), want: false},
		{name: "longer than key", prefix: domain.NewQueryKey("items", "ws1", "open", "x"), want: false},
		{name: "segment is not a string prefix", prefix: domain.NewQueryKey("item"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, key.HasPrefix(tt.prefix))
		})
	}
}

func TestQueryKey_EqualAndString(t *testing.T) {
	a := domain.NewQueryKey("item", "i1")
	assert.True(t, a.Equal(domain.NewQueryKey("item", "i1")))
	assert.False(t, a.Equal(domain.NewQueryKey("item")))
	assert.False(t, a.Equal(domain.NewQueryKey("item", "i1", "x")))
	assert.Equal(t, "[item i1]", a.String())
}

func TestKeyPattern_Validate(t *testing.T) {
	tests := []struct {
		name    string
		pattern domain.KeyPattern
		wantErr bool
	}{
		{name: "literal", pattern: domain.Prefix("items"), wantErr: false},
		{name: "scope placeholder", pattern: domain.Prefix("items", domain.PlaceholderScope), wantErr: false},
		{name: "id placeholder", pattern: domain.ExactKey("item", domain.PlaceholderID), wantErr: false},
		{name: "empty", pattern: domain.Prefix(), wantErr: true},
		{name: "leading placeholder", pattern: domain.Prefix(domain.PlaceholderScope, "items"), wantErr: true},
		{name: "unknown placeholder", pattern: domain.Prefix("items", ":owner"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pattern.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidKeyPattern)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestKeyPattern_Expand(t *testing.T) {
	target := domain.Target{Scope: "ws1", IDs: []string{"i1", "i2"}}

	tests := []struct {
		name    string
		pattern domain.KeyPattern
		target  domain.Target
		want    []domain.QueryKey
	}{
		{
			name:    "scope",
			pattern: domain.Prefix("items", domain.PlaceholderScope),
			target:  target,
			want:    []domain.QueryKey{{"items", "ws1"}},
		},
		{
			name:    "one key per id",
			pattern: domain.Prefix("item", domain.PlaceholderID),
			target:  target,
			want:    []domain.QueryKey{{"item", "i1"}, {"item", "i2"}},
		},
		{
			name:    "scope and id",
			pattern: domain.Prefix("comments", domain.PlaceholderScope, domain.PlaceholderID),
			target:  target,
			want:    []domain.QueryKey{{"comments", "ws1", "i1"}, {"comments", "ws1", "i2"}},
		},
		{
			name:    "literal only",
			pattern: domain.Prefix("dashboard"),
			target:  domain.Target{},
			want:    []domain.QueryKey{{"dashboard"}},
		},
		{
			name:    "missing scope",
			pattern: domain.Prefix("items", domain.PlaceholderScope),
			target:  domain.Target{IDs: []string{"i1"}},
			want:    nil,
		},
		{
			name:    "no ids",
			pattern: domain.Prefix("item", domain.PlaceholderID),
			target:  domain.Target{Scope: "ws1"},
			want:    []domain.QueryKey{},
		},
		{
			name:    "empty id skipped",
			pattern: domain.Prefix("item", domain.PlaceholderID),
			target:  domain.Target{IDs: []string{"", "i3"}},
			want:    []domain.QueryKey{{"item", "i3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pattern.Expand(tt.target))
		})
	}
}

func TestKeyPattern_ExpandKeepsExact(t *testing.T) {
	p := domain.ExactKey("workspace", domain.PlaceholderScope)
	assert.True(t, p.Exact)
	assert.Equal(t, []domain.QueryKey{{"workspace", "ws1"}}, p.Expand(domain.Target{Scope: "ws1"}))
}
