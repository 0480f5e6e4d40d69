package catalog

import (
	"context"
	"errors"
	"testing"

	"canteen-client/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	categories []model.Category
	items      []model.MenuItem
	err        error
}

func (f *fakeSource) Categories(ctx context.Context) ([]model.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeSource) MenuItems(ctx context.Context) ([]model.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func testSource() *fakeSource {
	return &fakeSource{
		categories: []model.Category{
			{ID: 1, Name: "South Indian"},
			{ID: 2, Name: "Beverages"},
		},
		items: []model.MenuItem{
			{ID: 1, Name: "Masala Dosa", Description: "Crispy rice crepe", Price: 60, Available: true, CategoryID: 1, CategoryName: "South Indian"},
			{ID: 2, Name: "Filter Coffee", Description: "Strong and hot", Price: 25, Available: true, CategoryID: 2, CategoryName: "Beverages"},
			{ID: 3, Name: "Idli", Description: "Steamed rice cakes", Price: 40, Available: false, CategoryID: 1, CategoryName: "South Indian"},
		},
	}
}

func TestCatalog_RefreshAndLookup(t *testing.T) {
	c := New(zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background(), testSource()))

	assert.Len(t, c.Categories(), 2)
	assert.Len(t, c.Items(), 3)

	item, ok := c.ItemByID(2)
	require.True(t, ok)
	assert.Equal(t, "Filter Coffee", item.Name)

	_, ok = c.ItemByID(99)
	assert.False(t, ok)
}

func TestCatalog_RefreshFailureKeepsOldSnapshot(t *testing.T) {
	c := New(zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background(), testSource()))

	err := c.Refresh(context.Background(), &fakeSource{err: errors.New("boom")})
	require.Error(t, err)

	assert.Len(t, c.Items(), 3)
}

func TestCatalog_Filter(t *testing.T) {
	c := New(zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background(), testSource()))

	tests := []struct {
		name     string
		category string
		search   string
		wantIDs  []int64
	}{
		{name: "No filter returns everything", wantIDs: []int64{1, 2, 3}},
		{name: "Category all returns everything", category: "all", wantIDs: []int64{1, 2, 3}},
		{name: "Category filter", category: "south indian", wantIDs: []int64{1, 3}},
		{name: "Category filter is case-insensitive", category: "Beverages", wantIDs: []int64{2}},
		{name: "Search over name", search: "coffee", wantIDs: []int64{2}},
		{name: "Search over description", search: "steamed", wantIDs: []int64{3}},
		{name: "Category and search combined", category: "south indian", search: "dosa", wantIDs: []int64{1}},
		{name: "No matches", search: "pizza", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int64
			for _, item := range c.Filter(tt.category, tt.search) {
				got = append(got, item.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestCatalog_EmptyBeforeRefresh(t *testing.T) {
	c := New(zerolog.Nop())

	assert.Empty(t, c.Items())
	_, ok := c.ItemByID(1)
	assert.False(t, ok)
}
