package service

import (
	"testing"

	"wrenlabs/board-api/apperr"
	"wrenlabs/board-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoCreateRequiresTitle(t *testing.T) {
	accounts, conn := newTestAccounts(t)
	alice := registered(t, accounts, "alice@example.com")
	todos := NewTodos(conn)

	_, err := todos.Create(alice.ID, TodoInput{Title: "   "})
	requireKind(t, err, apperr.KindValidation)
}

func TestTodoOwnership(t *testing.T) {
	accounts, conn := newTestAccounts(t)
	alice := registered(t, accounts, "alice@example.com")
	bob := registered(t, accounts, "bob@example.com")
	todos := NewTodos(conn)

	todo, err := todos.Create(alice.ID, TodoInput{Title: "buy milk"})
	require.NoError(t, err)

	// The owner can read it
	got, err := todos.Get(todo.ID, alice.ID, alice.Role)
	require.NoError(t, err)
	assert.Equal(t, todo.ID, got.ID)

	// Another user can't, and neither can a moderator
	_, err = todos.Get(todo.ID, bob.ID, model.RoleUser)
	requireKind(t, err, apperr.KindForbidden)

	_, err = todos.Get(todo.ID, bob.ID, model.RoleModerator)
	requireKind(t, err, apperr.KindForbidden)

	// An admin can
	_, err = todos.Get(todo.ID, bob.ID, model.RoleAdmin)
	require.NoError(t, err)

	// Same policy for writes
	title := "stolen"
	_, err = todos.Update(todo.ID, bob.ID, model.RoleUser, TodoUpdate{Title: &title})
	requireKind(t, err, apperr.KindForbidden)

	err = todos.Delete(todo.ID, bob.ID, model.RoleUser)
	requireKind(t, err, apperr.KindForbidden)
}

func TestTodoUpdatePartial(t *testing.T) {
	accounts, conn := newTestAccounts(t)
	alice := registered(t, accounts, "alice@example.com")
	todos := NewTodos(conn)

	todo, err := todos.Create(alice.ID, TodoInput{Title: "buy milk", Content: "2 liters"})
	require.NoError(t, err)

	done := true
	updated, err := todos.Update(todo.ID, alice.ID, alice.Role, TodoUpdate{Done: &done})
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "buy milk", updated.Title)
	assert.Equal(t, "2 liters", updated.Content)
}

func TestTodoGetUnknown(t *testing.T) {
	accounts, conn := newTestAccounts(t)
	alice := registered(t, accounts, "alice@example.com")
	todos := NewTodos(conn)

	_, err := todos.Get("nope", alice.ID, alice.Role)
	requireKind(t, err, apperr.KindNotFound)
}

func TestTodoListScoping(t *testing.T) {
	accounts, conn := newTestAccounts(t)
	alice := registered(t, accounts, "alice@example.com")
	bob := registered(t, accounts, "bob@example.com")
	todos := NewTodos(conn)

	_, err := todos.Create(alice.ID, TodoInput{Title: "alice one"})
	require.NoError(t, err)
	_, err = todos.Create(alice.ID, TodoInput{Title: "alice two"})
	require.NoError(t, err)
	_, err = todos.Create(bob.ID, TodoInput{Title: "bob one"})
	require.NoError(t, err)

	// Users only see their own
	mine, p, err := todos.List(alice.ID, model.RoleUser, 1, 20, "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.EqualValues(t, 2, p.Total)

	// Admins see everything
	all, p, err := todos.List(alice.ID, model.RoleAdmin, 1, 20, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.EqualValues(t, 3, p.Total)

	// Search narrows within the scope
	found, _, err := todos.List(alice.ID, model.RoleUser, 1, 20, "two")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice two", found[0].Title)
}
