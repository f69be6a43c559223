package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxImageSize = 10 << 20 // 10MB

type PostHandler struct {
	posts    *services.PostService
	comments *services.CommentService
	groups   *services.GroupService
}

func NewPostHandler(posts *services.PostService, comments *services.CommentService, groups *services.GroupService) *PostHandler {
	return &PostHandler{posts: posts, comments: comments, groups: groups}
}

// PostForm carries the post submission fields. Binding rejects a missing
// text body before anything is written.
type PostForm struct {
	Text    string `form:"text" binding:"required"`
	GroupID *uint  `form:"group_id"`
}

// commentView pairs a comment with its rendered body and indentation for
// the template.
type commentView struct {
	models.Comment
	HTML  template.HTML
	Depth int
}

func buildThreads(comments []models.Comment) [][]commentView {
	threads := services.Threads(comments)
	views := make([][]commentView, len(threads))
	for i, thread := range threads {
		views[i] = make([]commentView, len(thread))
		for j, c := range thread {
			views[i][j] = commentView{
				Comment: c,
				HTML:    utils.RenderMarkdown(c.Text),
				Depth:   c.Depth(),
			}
		}
	}
	return views
}

// List - all posts, newest first, ten per page (GET /)
func (h *PostHandler) List(c *gin.Context) {
	page := utils.QueryPage(c.Query("page"))

	cacheKey := fmt.Sprintf("post:list:page:%d", page)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if hData, ok := cached.(gin.H); ok {
			Render(c, http.StatusOK, "post/list.html", hData)
			return
		}
	}

	posts, err := h.posts.All()
	if err != nil {
		FailPage(c, err)
		return
	}
	if err := h.comments.CountForPosts(posts); err != nil {
		FailPage(c, err)
		return
	}

	groups, err := h.groups.All()
	if err != nil {
		FailPage(c, err)
		return
	}

	paged := utils.Paginate(posts, utils.PostsPerPage, page)
	renderData := gin.H{
		"Title":  "Latest posts",
		"Page":   paged,
		"Groups": groups,
		"Active": "all",
	}

	utils.GetCache().Set(cacheKey, renderData, 1*time.Minute)
	Render(c, http.StatusOK, "post/list.html", renderData)
}

// ListByGroup - posts in one group (GET /group/:slug)
func (h *PostHandler) ListByGroup(c *gin.Context) {
	group, err := h.groups.BySlug(c.Param("slug"))
	if err != nil {
		FailPage(c, err)
		return
	}

	posts, err := h.posts.ByGroup(group.ID)
	if err != nil {
		FailPage(c, err)
		return
	}
	if err := h.comments.CountForPosts(posts); err != nil {
		FailPage(c, err)
		return
	}

	groups, err := h.groups.All()
	if err != nil {
		FailPage(c, err)
		return
	}

	paged := utils.Paginate(posts, utils.PostsPerPage, utils.QueryPage(c.Query("page")))
	Render(c, http.StatusOK, "post/list.html", gin.H{
		"Title":  group.Title,
		"Group":  group,
		"Page":   paged,
		"Groups": groups,
		"Active": "group",
	})
}

// Detail - single post with threaded comments (GET /p/:id)
func (h *PostHandler) Detail(c *gin.Context) {
	h.renderDetail(c, http.StatusOK, "")
}

func (h *PostHandler) renderDetail(c *gin.Context, code int, commentError string) {
	id := uint(utils.StringToInt(c.Param("id")))

	cacheKey := fmt.Sprintf("post:detail:%d", id)
	if commentError == "" {
		if cached := utils.GetCache().Get(cacheKey); cached != nil {
			if hData, ok := cached.(gin.H); ok {
				// A cache hit still counts as a view.
				if post, ok := hData["Post"].(*models.Post); ok {
					h.posts.IncrementViews(post.ID)
				}
				Render(c, code, "post/detail.html", hData)
				return
			}
		}
	}

	post, err := h.posts.Get(id)
	if err != nil {
		FailPage(c, err)
		return
	}

	if err := h.posts.IncrementViews(post.ID); err == nil {
		post.Views++
	}

	comments, err := h.comments.ForPost(post.ID)
	if err != nil {
		FailPage(c, err)
		return
	}

	renderData := gin.H{
		"Title":        "Post by " + post.User.Username,
		"Post":         post,
		"PostHTML":     utils.RenderMarkdown(post.Text),
		"Threads":      buildThreads(comments),
		"CommentCount": len(comments),
	}

	if commentError == "" {
		utils.GetCache().Set(cacheKey, renderData, 5*time.Minute)
	} else {
		renderData["CommentError"] = commentError
	}
	Render(c, code, "post/detail.html", renderData)
}

// ShowCreate - post submission form (GET /new)
func (h *PostHandler) ShowCreate(c *gin.Context) {
	groups, err := h.groups.All()
	if err != nil {
		FailPage(c, err)
		return
	}
	Render(c, http.StatusOK, "post/create.html", gin.H{
		"Title":  "New post",
		"Groups": groups,
	})
}

// Create - submit a new post (POST /new)
func (h *PostHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.rerenderCreate(c, "Text is required")
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		h.rerenderCreate(c, err.Error())
		return
	}

	post, err := h.posts.Create(user.ID, form.Text, form.GroupID, image)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrNotFound):
			h.rerenderCreate(c, "Check the submitted fields and try again")
		default:
			FailPage(c, err)
		}
		return
	}

	utils.GetCache().Delete("post:list:page:1")
	c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", post.ID))
}

func (h *PostHandler) rerenderCreate(c *gin.Context, message string) {
	groups, _ := h.groups.All()
	Render(c, http.StatusBadRequest, "post/create.html", gin.H{
		"Title":  "New post",
		"Groups": groups,
		"Error":  message,
	})
}

// ShowEdit - edit form, author only (GET /p/:id/edit)
func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := CurrentUser(c)
	id := uint(utils.StringToInt(c.Param("id")))

	post, err := h.posts.Get(id)
	if err != nil {
		FailPage(c, err)
		return
	}

	// Non-authors are quietly sent to the read-only view rather than
	// shown an error page.
	if post.UserID != user.ID {
		c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", post.ID))
		return
	}

	groups, err := h.groups.All()
	if err != nil {
		FailPage(c, err)
		return
	}
	Render(c, http.StatusOK, "post/edit.html", gin.H{
		"Title":  "Edit post",
		"Post":   post,
		"Groups": groups,
	})
}

// Update - submit a post edit, author only (POST /p/:id/edit)
func (h *PostHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	id := uint(utils.StringToInt(c.Param("id")))

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.rerenderEdit(c, id, "Text is required")
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		h.rerenderEdit(c, id, err.Error())
		return
	}

	_, err = h.posts.Update(id, user.ID, form.Text, form.GroupID, image)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrForbidden):
		c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", id))
		return
	case errors.Is(err, models.ErrValidation):
		h.rerenderEdit(c, id, "Text is required")
		return
	default:
		FailPage(c, err)
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("post:detail:%d", id))
	utils.GetCache().Delete("post:list:page:1")
	c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", id))
}

func (h *PostHandler) rerenderEdit(c *gin.Context, id uint, message string) {
	post, err := h.posts.Get(id)
	if err != nil {
		FailPage(c, err)
		return
	}
	groups, _ := h.groups.All()
	Render(c, http.StatusBadRequest, "post/edit.html", gin.H{
		"Title":  "Edit post",
		"Post":   post,
		"Groups": groups,
		"Error":  message,
	})
}

// Delete - remove a post, author only (POST /p/:id/delete)
func (h *PostHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	id := uint(utils.StringToInt(c.Param("id")))

	err := h.posts.Delete(id, user.ID)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrForbidden):
		c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", id))
		return
	default:
		FailPage(c, err)
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("post:detail:%d", id))
	utils.GetCache().Delete("post:list:page:1")
	c.Redirect(http.StatusFound, "/")
}

// CreateComment - add a comment or a reply (POST /p/:id/comment)
func (h *PostHandler) CreateComment(c *gin.Context) {
	user := CurrentUser(c)
	id := uint(utils.StringToInt(c.Param("id")))

	text := c.PostForm("text")
	var parentID *uint
	if raw := c.PostForm("parent_id"); raw != "" {
		pid := uint(utils.StringToInt(raw))
		parentID = &pid
	}

	_, err := h.comments.Create(user.ID, id, text, parentID)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrValidation):
		h.renderDetail(c, http.StatusBadRequest, "Comments must be 1 to 500 characters")
		return
	default:
		FailPage(c, err)
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("post:detail:%d", id))
	c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", id))
}

// DeleteComment - remove a comment and its replies, author only
// (POST /p/:id/comment/:cid/delete)
func (h *PostHandler) DeleteComment(c *gin.Context) {
	user := CurrentUser(c)
	id := uint(utils.StringToInt(c.Param("id")))
	cid := uint(utils.StringToInt(c.Param("cid")))

	err := h.comments.Delete(cid, user.ID)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrForbidden):
		c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", id))
		return
	default:
		FailPage(c, err)
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("post:detail:%d", id))
	c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", id))
}

// saveImage stores an optional uploaded image under the media dir and
// returns its media-relative path, or "" when no file was sent.
func (h *PostHandler) saveImage(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return "", nil // Optional field
	}
	if header.Size > maxImageSize {
		return "", fmt.Errorf("image exceeds the 10MB limit")
	}
	if !isImage(header) {
		return "", fmt.Errorf("only image files are allowed")
	}

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "./web/media"
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	rel := filepath.Join("posts", name)
	dst := filepath.Join(mediaDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	if err := c.SaveUploadedFile(header, dst); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

func isImage(header *multipart.FileHeader) bool {
	return strings.HasPrefix(header.Header.Get("Content-Type"), "image/")
}
