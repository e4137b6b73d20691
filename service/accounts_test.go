package service

import (
	"os"
	"testing"

	"wrenlabs/board-api/apperr"
	"wrenlabs/board-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.From(err).Kind)
}

func TestRegisterValidation(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	_, err := accounts.Register(RegisterInput{
		Email:       "not-an-email",
		Password:    "short",
		DisplayName: "  ",
	})
	requireKind(t, err, apperr.KindValidation)

	e := apperr.From(err)
	assert.Contains(t, e.Fields, "email")
	assert.Contains(t, e.Fields, "password")
	assert.Contains(t, e.Fields, "display_name")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	registered(t, accounts, "alice@example.com")

	_, err := accounts.Register(RegisterInput{
		Email:       "alice@example.com",
		Password:    "Sup3rSecret!",
		DisplayName: "Alice Again",
	})
	requireKind(t, err, apperr.KindConflict)
}

func TestBootstrapWorksExactlyOnce(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	admin, err := accounts.Bootstrap(RegisterInput{
		Email:       "admin@example.com",
		Password:    "Sup3rSecret!",
		DisplayName: "Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, model.StatusActive, admin.Status)

	_, err = accounts.Bootstrap(RegisterInput{
		Email:       "admin2@example.com",
		Password:    "Sup3rSecret!",
		DisplayName: "Second Admin",
	})
	requireKind(t, err, apperr.KindConflict)
}

func TestAdminCreateRejectsUnknownEnums(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	_, err := accounts.AdminCreate(AdminCreateInput{
		RegisterInput: RegisterInput{
			Email:       "bob@example.com",
			Password:    "Sup3rSecret!",
			DisplayName: "Bob",
		},
		Role:   "SUPERUSER",
		Status: "FROZEN",
	})
	requireKind(t, err, apperr.KindValidation)

	e := apperr.From(err)
	assert.Contains(t, e.Fields, "role")
	assert.Contains(t, e.Fields, "status")
}

func TestChangePassword(t *testing.T) {
	accounts, _ := newTestAccounts(t)
	acc := registered(t, accounts, "alice@example.com")

	err := accounts.ChangePassword(acc.ID, "wrong-password", "N3wSecret!!")
	requireKind(t, err, apperr.KindBadRequest)

	err = accounts.ChangePassword(acc.ID, "Sup3rSecret!", "weak")
	requireKind(t, err, apperr.KindValidation)

	require.NoError(t, accounts.ChangePassword(acc.ID, "Sup3rSecret!", "N3wSecret!!"))

	reloaded, err := accounts.Get(acc.ID)
	require.NoError(t, err)

	ok, err := accounts.Argon.VerifyPasswd("N3wSecret!!", reloaded.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAdminCannotDeleteThemselves(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	admin, err := accounts.Bootstrap(RegisterInput{
		Email:       "admin@example.com",
		Password:    "Sup3rSecret!",
		DisplayName: "Admin",
	})
	require.NoError(t, err)

	err = accounts.Delete(admin.ID, admin.ID)
	requireKind(t, err, apperr.KindForbidden)

	// Still there
	_, err = accounts.Get(admin.ID)
	require.NoError(t, err)
}

func TestDeleteCascades(t *testing.T) {
	accounts, conn := newTestAccounts(t)
	alice := registered(t, accounts, "alice@example.com")

	todos := NewTodos(conn)
	posts := NewPosts(conn, accounts.Attachments)

	_, err := todos.Create(alice.ID, TodoInput{Title: "buy milk"})
	require.NoError(t, err)

	post, err := posts.Create(alice.ID, PostInput{Title: "hello", Body: "world"})
	require.NoError(t, err)

	atts, err := accounts.Attachments.Upload(post.ID, alice.ID, alice.Role, multipartFiles(t, map[string][]byte{
		"notes.txt": []byte("plain text content"),
	}))
	require.NoError(t, err)
	require.Len(t, atts, 1)
	require.FileExists(t, atts[0].Path)

	require.NoError(t, accounts.Delete(alice.ID, "some-admin"))

	var count int64
	require.NoError(t, conn.Model(model.Todo{}).Where("owner_id = ?", alice.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, conn.Model(model.Post{}).Where("owner_id = ?", alice.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, conn.Model(model.Attachment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = os.Stat(atts[0].Path)
	assert.True(t, os.IsNotExist(err))

	_, err = accounts.Get(alice.ID)
	requireKind(t, err, apperr.KindNotFound)
}

func TestDeleteUnknownAccount(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	err := accounts.Delete("does-not-exist", "some-admin")
	requireKind(t, err, apperr.KindNotFound)
}

func TestListPaginationAndSearch(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	registered(t, accounts, "alice@example.com")
	registered(t, accounts, "bob@example.com")
	registered(t, accounts, "carol@example.com")

	all, p, err := accounts.List(1, 2, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.EqualValues(t, 3, p.Total)
	assert.Equal(t, 2, p.TotalPages)

	found, p, err := accounts.List(1, 20, "ALICE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice@example.com", found[0].Email)
	assert.EqualValues(t, 1, p.Total)
}
