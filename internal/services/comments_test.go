package services

import (
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTopLevelCommentPath(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewCommentService(gdb)
	author := createUser(t, gdb, "ann")
	post := createPost(t, gdb, author, "hello")

	comment, err := svc.Create(author.ID, post.ID, "first!", nil)
	require.NoError(t, err)

	assert.Len(t, comment.Path, 1)
	assert.Equal(t, int64(comment.ID), comment.Path.Last())
	assert.Equal(t, 0, comment.Depth())

	// The finalized path must be what readers see, not just the returned value.
	var stored models.Comment
	require.NoError(t, gdb.First(&stored, comment.ID).Error)
	assert.Equal(t, comment.Path, stored.Path)
}

func TestCreateReplyExtendsParentPath(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewCommentService(gdb)
	author := createUser(t, gdb, "ann")
	post := createPost(t, gdb, author, "hello")

	root, err := svc.Create(author.ID, post.ID, "root", nil)
	require.NoError(t, err)
	reply, err := svc.Create(author.ID, post.ID, "reply", &root.ID)
	require.NoError(t, err)
	deep, err := svc.Create(author.ID, post.ID, "deeper", &reply.ID)
	require.NoError(t, err)

	assert.Equal(t, root.Path, reply.Path[:len(reply.Path)-1])
	assert.Equal(t, int64(reply.ID), reply.Path.Last())
	assert.Equal(t, reply.Path, deep.Path[:len(deep.Path)-1])
	assert.Equal(t, 2, deep.Depth())
}

func TestCreateReplyToMissingParent(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewCommentService(gdb)
	author := createUser(t, gdb, "ann")
	post := createPost(t, gdb, author, "hello")

	missing := uint(9999)
	_, err := svc.Create(author.ID, post.ID, "reply", &missing)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateReplyToParentOnAnotherPost(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewCommentService(gdb)
	author := createUser(t, gdb, "ann")
	postA := createPost(t, gdb, author, "a")
	postB := createPost(t, gdb, author, "b")

	parent, err := svc.Create(author.ID, postA.ID, "on A", nil)
	require.NoError(t, err)

	_, err = svc.Create(author.ID, postB.ID, "cross-post reply", &parent.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateCommentValidation(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewCommentService(gdb)
	author := createUser(t, gdb, "ann")
	post := createPost(t, gdb, author, "hello")

	_, err := svc.Create(author.ID, post.ID, "   ", nil)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Create(author.ID, post.ID, strings.Repeat("x", models.MaxCommentLength+1), nil)
	assert.ErrorIs(t, err, models.ErrValidation)

	// Nothing was written on the failed attempts.
	var count int64
	gdb.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)

	_, err = svc.Create(author.ID, post.ID, strings.Repeat("x", models.MaxCommentLength), nil)
	assert.NoError(t, err)
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewCommentService(gdb)
	author := createUser(t, gdb, "ann")

	_, err := svc.Create(author.ID, 404, "text", nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// The canonical grouping scenario: root A, reply B to A, root C, reply D
// to B. Sorted by path the sequence is A, A/B, A/B/D, C; grouping must
// yield [[A B D] [C]].
func TestThreadsGrouping(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewCommentService(gdb)
	author := createUser(t, gdb, "ann")
	post := createPost(t, gdb, author, "hello")

	a, err := svc.Create(author.ID, post.ID, "A", nil)
	require.NoError(t, err)
	b, err := svc.Create(author.ID, post.ID, "B", &a.ID)
	require.NoError(t, err)
	c, err := svc.Create(author.ID, post.ID, "C", nil)
	require.NoError(t, err)
	d, err := svc.Create(author.ID, post.ID, "D", &b.ID)
	require.NoError(t, err)

	comments, err := svc.ForPost(post.ID)
	require.NoError(t, err)

	threads := Threads(comments)
	require.Len(t, threads, 2)
	require.Len(t, threads[0], 3)
	require.Len(t, threads[1], 1)
	assert.Equal(t, a.ID, threads[0][0].ID)
	assert.Equal(t, b.ID, threads[0][1].ID)
	assert.Equal(t, d.ID, threads[0][2].ID)
	assert.Equal(t, c.ID, threads[1][0].ID)
}

// Threads must not trust the caller's ordering.
func TestThreadsSortsItsInput(t *testing.T) {
	mk := func(text string, path ...int64) models.Comment {
		return models.Comment{Text: text, Path: models.Path(path)}
	}
	scrambled := []models.Comment{
		mk("D", 1, 2, 4),
		mk("C", 3),
		mk("A", 1),
		mk("B", 1, 2),
	}

	threads := Threads(scrambled)
	require.Len(t, threads, 2)
	assert.Equal(t, []string{"A", "B", "D"}, []string{threads[0][0].Text, threads[0][1].Text, threads[0][2].Text})
	assert.Equal(t, "C", threads[1][0].Text)
}

func TestThreadsStrayReplyStartsOwnThread(t *testing.T) {
	// A reply whose root is gone must not be absorbed into an unrelated
	// thread.
	threads := Threads([]models.Comment{
		{Text: "A", Path: models.Path{1}},
		{Text: "stray", Path: models.Path{5, 9}},
	})
	require.Len(t, threads, 2)
	assert.Equal(t, "A", threads[0][0].Text)
	assert.Equal(t, "stray", threads[1][0].Text)
}

func TestThreadsEmpty(t *testing.T) {
	assert.Nil(t, Threads(nil))
}

func TestDeleteCommentRemovesSubtree(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewCommentService(gdb)
	author := createUser(t, gdb, "ann")
	post := createPost(t, gdb, author, "hello")

	a, err := svc.Create(author.ID, post.ID, "A", nil)
	require.NoError(t, err)
	b, err := svc.Create(author.ID, post.ID, "B", &a.ID)
	require.NoError(t, err)
	_, err = svc.Create(author.ID, post.ID, "D", &b.ID)
	require.NoError(t, err)
	c, err := svc.Create(author.ID, post.ID, "C", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(b.ID, author.ID))

	remaining, err := svc.ForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	ids := []uint{remaining[0].ID, remaining[1].ID}
	assert.ElementsMatch(t, []uint{a.ID, c.ID}, ids)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewCommentService(gdb)
	author := createUser(t, gdb, "ann")
	other := createUser(t, gdb, "bob")
	post := createPost(t, gdb, author, "hello")

	comment, err := svc.Create(author.ID, post.ID, "mine", nil)
	require.NoError(t, err)

	err = svc.Delete(comment.ID, other.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	var count int64
	gdb.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCountForPosts(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewCommentService(gdb)
	author := createUser(t, gdb, "ann")
	withComments := createPost(t, gdb, author, "busy")
	silent := createPost(t, gdb, author, "quiet")

	root, err := svc.Create(author.ID, withComments.ID, "one", nil)
	require.NoError(t, err)
	_, err = svc.Create(author.ID, withComments.ID, "two", &root.ID)
	require.NoError(t, err)

	posts := []models.Post{*withComments, *silent}
	require.NoError(t, svc.CountForPosts(posts))
	assert.Equal(t, 2, posts[0].CommentCount)
	assert.Equal(t, 0, posts[1].CommentCount)
}
