package sidebar

import (
	"testing"

	"github.com/re-admin/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intptr(v int) *int { return &v }

func TestBuildTreeNestsChildren(t *testing.T) {
	items := []models.SidebarMenuModel{
		{ID: 1, Title: "Dashboard", SortOrder: 1},
		{ID: 2, Title: "Projects", SortOrder: 2},
		{ID: 3, Title: "All Projects", ParentID: intptr(2), SortOrder: 1},
		{ID: 4, Title: "Add Project", ParentID: intptr(2), SortOrder: 2},
	}

	tree := BuildTree(items)
	require.Len(t, tree, 2)
	assert.Equal(t, "Dashboard", tree[0].Title)
	assert.Empty(t, tree[0].Children)

	projects := tree[1]
	require.Len(t, projects.Children, 2)
	assert.Equal(t, "All Projects", projects.Children[0].Title)
	assert.Equal(t, "Add Project", projects.Children[1].Title)
}

func TestBuildTreeDropsOrphans(t *testing.T) {
	items := []models.SidebarMenuModel{
		{ID: 1, Title: "Dashboard"},
		{ID: 5, Title: "Orphan", ParentID: intptr(99)},
	}

	tree := BuildTree(items)
	require.Len(t, tree, 1)
	assert.Equal(t, "Dashboard", tree[0].Title)
}

func TestBuildTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
}
