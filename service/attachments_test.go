package service

import (
	"fmt"
	"os"
	"testing"

	"wrenlabs/board-api/apperr"
	"wrenlabs/board-api/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPost(t *testing.T) (*Attachments, *Posts, *model.Account, *model.Post) {
	t.Helper()

	accounts, conn := newTestAccounts(t)
	alice := registered(t, accounts, "alice@example.com")
	posts := NewPosts(conn, accounts.Attachments)

	post, err := posts.Create(alice.ID, PostInput{Title: "hello", Body: "world"})
	require.NoError(t, err)

	return accounts.Attachments, posts, alice, post
}

func TestUploadHappyPath(t *testing.T) {
	att, _, alice, post := newTestPost(t)

	records, err := att.Upload(post.ID, alice.ID, alice.Role, multipartFiles(t, map[string][]byte{
		"notes.txt": []byte("some plain text"),
		"pic.png":   pngBytes(),
	}))
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, r := range records {
		assert.Equal(t, post.ID, r.PostID)
		assert.NotEqual(t, r.OriginalName, r.StoredName)
		assert.FileExists(t, r.Path)
	}

	listed, err := att.List(post.ID, alice.ID, alice.Role)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestUploadRejectsEmptyBatch(t *testing.T) {
	att, _, alice, post := newTestPost(t)

	_, err := att.Upload(post.ID, alice.ID, alice.Role, nil)
	requireKind(t, err, apperr.KindBadRequest)
}

func TestUploadRejectsTooManyFiles(t *testing.T) {
	att, _, alice, post := newTestPost(t)

	files := map[string][]byte{}
	for i := 0; i < 11; i++ {
		files[fmt.Sprintf("file%d.txt", i)] = []byte("content")
	}

	_, err := att.Upload(post.ID, alice.ID, alice.Role, multipartFiles(t, files))
	requireKind(t, err, apperr.KindBadRequest)

	// Nothing landed
	listed, err := att.List(post.ID, alice.ID, alice.Role)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

// One bad file rejects the whole batch, including the good files
func TestUploadIsAllOrNothing(t *testing.T) {
	att, _, alice, post := newTestPost(t)

	_, err := att.Upload(post.ID, alice.ID, alice.Role, multipartFiles(t, map[string][]byte{
		"good.txt":    []byte("fine"),
		"program.exe": {0x4D, 0x5A, 0x90, 0x00, 0x03, 0x00, 0x00, 0x00},
	}))
	requireKind(t, err, apperr.KindBadRequest)

	listed, err := att.List(post.ID, alice.ID, alice.Role)
	require.NoError(t, err)
	assert.Empty(t, listed)

	// The post directory got nothing either
	entries, err := os.ReadDir(att.dirFor(post.ID))
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	att, _, alice, post := newTestPost(t)

	viper.Set("upload.max_size", int64(16))
	t.Cleanup(func() { viper.Set("upload.max_size", int64(5<<20)) })

	_, err := att.Upload(post.ID, alice.ID, alice.Role, multipartFiles(t, map[string][]byte{
		"big.txt": []byte("this is definitely more than sixteen bytes"),
	}))
	requireKind(t, err, apperr.KindBadRequest)
}

func TestUploadAuthz(t *testing.T) {
	att, _, _, post := newTestPost(t)

	files := multipartFiles(t, map[string][]byte{"notes.txt": []byte("text")})

	_, err := att.Upload(post.ID, "someone-else", model.RoleUser, files)
	requireKind(t, err, apperr.KindForbidden)

	_, err = att.Upload("no-such-post", "someone-else", model.RoleUser, files)
	requireKind(t, err, apperr.KindNotFound)
}

func TestDeleteOneToleratesMissingPayload(t *testing.T) {
	att, _, alice, post := newTestPost(t)

	records, err := att.Upload(post.ID, alice.ID, alice.Role, multipartFiles(t, map[string][]byte{
		"notes.txt": []byte("text"),
	}))
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Payload vanished out-of-band, the delete should still succeed
	require.NoError(t, os.Remove(records[0].Path))
	require.NoError(t, att.DeleteOne(records[0].ID, alice.ID, alice.Role))

	_, err = att.Get(records[0].ID, alice.ID, alice.Role)
	requireKind(t, err, apperr.KindNotFound)
}

func TestPostDeleteRemovesPayloads(t *testing.T) {
	att, posts, alice, post := newTestPost(t)

	records, err := att.Upload(post.ID, alice.ID, alice.Role, multipartFiles(t, map[string][]byte{
		"a.txt": []byte("one"),
		"b.txt": []byte("two"),
	}))
	require.NoError(t, err)

	require.NoError(t, posts.Delete(post.ID, alice.ID, alice.Role))

	for _, r := range records {
		_, err := os.Stat(r.Path)
		assert.True(t, os.IsNotExist(err))
	}

	_, err = posts.Get(post.ID, alice.ID, alice.Role)
	requireKind(t, err, apperr.KindNotFound)
}
