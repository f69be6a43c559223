package handlers

import (
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users    *services.UserService
	posts    *services.PostService
	comments *services.CommentService
	feed     *services.FeedService
}

func NewUserHandler(users *services.UserService, posts *services.PostService, comments *services.CommentService, feed *services.FeedService) *UserHandler {
	return &UserHandler{users: users, posts: posts, comments: comments, feed: feed}
}

// Profile - an author's page: their posts plus follow counts (GET /u/:username)
func (h *UserHandler) Profile(c *gin.Context) {
	author, err := h.users.ByUsername(c.Param("username"))
	if err != nil {
		FailPage(c, err)
		return
	}

	posts, err := h.posts.ByAuthor(author.ID)
	if err != nil {
		FailPage(c, err)
		return
	}
	if err := h.comments.CountForPosts(posts); err != nil {
		FailPage(c, err)
		return
	}

	followers, err := h.feed.FollowerCount(author.ID)
	if err != nil {
		FailPage(c, err)
		return
	}
	followingCount, err := h.feed.FollowingCount(author.ID)
	if err != nil {
		FailPage(c, err)
		return
	}

	// Whether the viewer already follows this author, for the button state.
	following := false
	if viewer, exists := c.Get(middleware.CheckUserKey); exists {
		following, err = h.feed.IsFollowing(viewer.(*models.User).ID, author.ID)
		if err != nil {
			FailPage(c, err)
			return
		}
	}

	paged := utils.Paginate(posts, utils.PostsPerPage, utils.QueryPage(c.Query("page")))
	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"Title":          author.Username,
		"Author":         author,
		"Page":           paged,
		"PostCount":      len(posts),
		"Followers":      followers,
		"FollowingCount": followingCount,
		"Following":      following,
	})
}

// Follow - start following an author (POST /u/:username/follow)
func (h *UserHandler) Follow(c *gin.Context) {
	user := CurrentUser(c)

	author, err := h.users.ByUsername(c.Param("username"))
	if err != nil {
		FailPage(c, err)
		return
	}

	if err := h.feed.Follow(user.ID, author.ID); err != nil {
		FailPage(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/u/"+author.Username)
}

// Unfollow - stop following an author (POST /u/:username/unfollow)
func (h *UserHandler) Unfollow(c *gin.Context) {
	user := CurrentUser(c)

	author, err := h.users.ByUsername(c.Param("username"))
	if err != nil {
		FailPage(c, err)
		return
	}

	if err := h.feed.Unfollow(user.ID, author.ID); err != nil {
		FailPage(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/u/"+author.Username)
}

// Feed - posts from followed authors, newest first (GET /feed)
func (h *UserHandler) Feed(c *gin.Context) {
	user := CurrentUser(c)

	posts, err := h.feed.Feed(user.ID)
	if err != nil {
		FailPage(c, err)
		return
	}
	if err := h.comments.CountForPosts(posts); err != nil {
		FailPage(c, err)
		return
	}

	paged := utils.Paginate(posts, utils.PostsPerPage, utils.QueryPage(c.Query("page")))
	Render(c, http.StatusOK, "post/list.html", gin.H{
		"Title":  "Following",
		"Page":   paged,
		"Active": "feed",
	})
}
