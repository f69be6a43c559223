package services

import (
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIsIdempotent(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewFeedService(gdb)
	user := createUser(t, gdb, "reader")
	author := createUser(t, gdb, "writer")

	require.NoError(t, svc.Follow(user.ID, author.ID))
	require.NoError(t, svc.Follow(user.ID, author.ID))

	var count int64
	gdb.Model(&models.Follow{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFollowSelfIsNoOp(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewFeedService(gdb)
	user := createUser(t, gdb, "narcissus")

	require.NoError(t, svc.Follow(user.ID, user.ID))

	var count int64
	gdb.Model(&models.Follow{}).Count(&count)
	assert.Zero(t, count)
}

func TestUnfollowMissingEdgeIsNoOp(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewFeedService(gdb)
	user := createUser(t, gdb, "reader")
	author := createUser(t, gdb, "writer")

	assert.NoError(t, svc.Unfollow(user.ID, author.ID))

	require.NoError(t, svc.Follow(user.ID, author.ID))
	require.NoError(t, svc.Unfollow(user.ID, author.ID))
	require.NoError(t, svc.Unfollow(user.ID, author.ID))

	var count int64
	gdb.Model(&models.Follow{}).Count(&count)
	assert.Zero(t, count)
}

func TestIsFollowingAndCounts(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewFeedService(gdb)
	reader := createUser(t, gdb, "reader")
	other := createUser(t, gdb, "other")
	author := createUser(t, gdb, "writer")

	require.NoError(t, svc.Follow(reader.ID, author.ID))
	require.NoError(t, svc.Follow(other.ID, author.ID))

	following, err := svc.IsFollowing(reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = svc.IsFollowing(author.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, following)

	followers, err := svc.FollowerCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), followers)

	followingCount, err := svc.FollowingCount(reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followingCount)
}

// Viewer follows X only; X has P1 (older) and P2 (newer), Y has P3. The
// feed must be [P2, P1] with P3 excluded.
func TestFeedComposition(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewFeedService(gdb)
	viewer := createUser(t, gdb, "viewer")
	x := createUser(t, gdb, "x")
	y := createUser(t, gdb, "y")

	p1 := models.Post{UserID: x.ID, Text: "P1", CreatedAt: time.Now().Add(-2 * time.Hour)}
	require.NoError(t, gdb.Create(&p1).Error)
	p2 := models.Post{UserID: x.ID, Text: "P2", CreatedAt: time.Now().Add(-1 * time.Hour)}
	require.NoError(t, gdb.Create(&p2).Error)
	p3 := models.Post{UserID: y.ID, Text: "P3", CreatedAt: time.Now()}
	require.NoError(t, gdb.Create(&p3).Error)

	require.NoError(t, svc.Follow(viewer.ID, x.ID))

	feed, err := svc.Feed(viewer.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "P2", feed[0].Text)
	assert.Equal(t, "P1", feed[1].Text)
}

func TestFeedEmptyWhenFollowingNobody(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewFeedService(gdb)
	viewer := createUser(t, gdb, "viewer")
	author := createUser(t, gdb, "writer")
	createPost(t, gdb, author, "unseen")

	feed, err := svc.Feed(viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
