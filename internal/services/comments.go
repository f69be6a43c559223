package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentService owns comment creation (materialized-path assignment),
// thread reconstruction, and subtree deletion.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// Create validates and persists a comment on the given post. When parentID
// is set the new comment becomes a reply: its path is the parent's path
// plus its own id. The id is only known after the first insert, so the
// path is finalized with a second write inside the same transaction —
// readers never observe a comment with an unfinished path.
func (s *CommentService) Create(userID, postID uint, text string, parentID *uint) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", models.ErrValidation)
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return nil, fmt.Errorf("%w: comment text exceeds %d characters", models.ErrValidation, models.MaxCommentLength)
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", models.ErrNotFound, postID)
		}
		return nil, err
	}

	comment := models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var parentPath models.Path
		if parentID != nil {
			var parent models.Comment
			err := tx.Where("id = ? AND post_id = ?", *parentID, postID).First(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: parent comment %d", models.ErrNotFound, *parentID)
			}
			if err != nil {
				return err
			}
			parentPath = parent.Path
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		comment.Path = parentPath.Child(int64(comment.ID))
		return tx.Model(&comment).UpdateColumn("path", comment.Path).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ForPost returns all comments on a post in the default listing order,
// newest first. Callers that want threads feed the result to Threads.
func (s *CommentService) ForPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

// Delete removes a comment and its whole reply subtree. Only the comment's
// author may delete it; replies go with the parent rather than being left
// orphaned with a dangling path.
func (s *CommentService) Delete(commentID, userID uint) error {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", models.ErrNotFound, commentID)
		}
		return err
	}
	if comment.UserID != userID {
		return fmt.Errorf("%w: not the comment author", models.ErrForbidden)
	}

	// The stored path is slash-delimited text, so every descendant's path
	// starts with "<path>/".
	subtree := comment.Path.String() + "/%"
	return s.db.
		Where("post_id = ? AND (id = ? OR path LIKE ?)", comment.PostID, comment.ID, subtree).
		Delete(&models.Comment{}).Error
}

// CountForPosts batch-fills CommentCount on the given posts with a single
// grouped query.
func (s *CommentService) CountForPosts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	err := s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error
	if err != nil {
		return err
	}

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
	return nil
}

// Threads groups one post's comments into display-ready threads: each
// thread is a root comment followed by its replies in path order. The
// input is sorted here rather than trusted — a caller passing comments in
// any order still gets correct grouping.
//
// After the sort, every descendant sits contiguously after its root
// (integer-sequence comparison keeps ancestor prefixes together), so a
// single scan suffices: a path of length 1 starts a thread, everything
// else belongs to the thread started most recently.
func Threads(comments []models.Comment) [][]models.Comment {
	if len(comments) == 0 {
		return nil
	}

	sorted := make([]models.Comment, len(comments))
	copy(sorted, comments)
	slices.SortFunc(sorted, func(a, b models.Comment) int {
		return a.Path.Compare(b.Path)
	})

	var threads [][]models.Comment
	for _, c := range sorted {
		last := len(threads) - 1
		// A reply joins the current thread only if it actually descends
		// from its root; a stray reply whose root is gone starts a thread
		// of its own instead of corrupting a neighbour.
		if len(c.Path) > 1 && last >= 0 && threads[last][0].Path.Root() == c.Path.Root() {
			threads[last] = append(threads[last], c)
			continue
		}
		threads = append(threads, []models.Comment{c})
	}
	return threads
}
