package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eflixapp/eflix-server/internal/domain"
)

func TestBrowserStartsInBrowseMode(t *testing.T) {
	b := NewBrowser(domain.CollectionMyList)

	assert.Equal(t, domain.CollectionMyList, b.Collection())
	assert.False(t, b.SelectMode())
	assert.False(t, b.CanDelete())
	assert.Empty(t, b.Selected())
}

func TestToggleSelectOnlyInSelectMode(t *testing.T) {
	b := NewBrowser(domain.CollectionHistory)

	b.ToggleSelect("v1")
	assert.Empty(t, b.Selected())

	b.SetSelectMode(true)
	b.ToggleSelect("v1")
	assert.True(t, b.IsSelected("v1"))

	b.ToggleSelect("v1")
	assert.False(t, b.IsSelected("v1"))
}

func TestSelectedIsSorted(t *testing.T) {
	b := NewBrowser(domain.CollectionMyList)
	b.SetSelectMode(true)
	b.ToggleSelect("charlie")
	b.ToggleSelect("alpha")
	b.ToggleSelect("bravo")

	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, b.Selected())
}

func TestLeavingSelectModeClearsSelection(t *testing.T) {
	b := NewBrowser(domain.CollectionMyList)
	b.SetSelectMode(true)
	b.ToggleSelect("v1")
	b.ToggleSelect("v2")

	b.SetSelectMode(false)
	assert.Empty(t, b.Selected())

	// Re-entering starts fresh.
	b.SetSelectMode(true)
	assert.Empty(t, b.Selected())
}

func TestCanDelete(t *testing.T) {
	b := NewBrowser(domain.CollectionHistory)
	assert.False(t, b.CanDelete())

	b.SetSelectMode(true)
	assert.False(t, b.CanDelete())

	b.ToggleSelect("v1")
	assert.True(t, b.CanDelete())

	b.ToggleSelect("v1")
	assert.False(t, b.CanDelete())
}

func TestCompleteDeleteClearsAndExits(t *testing.T) {
	b := NewBrowser(domain.CollectionMyList)
	b.SetSelectMode(true)
	b.ToggleSelect("v1")
	b.ToggleSelect("v2")

	b.CompleteDelete()

	assert.False(t, b.SelectMode())
	assert.Empty(t, b.Selected())
	assert.False(t, b.CanDelete())
}
