package services

import (
	"errors"
	"fmt"
	"strings"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostService owns post CRUD and listings. Listing order everywhere is
// creation time descending, id descending as the tiebreak.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

func (s *PostService) Get(id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.Preload("User").Preload("Group").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: post %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// All returns every post, newest first.
func (s *PostService) All() ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").Preload("Group").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// ByGroup returns a group's posts, newest first.
func (s *PostService) ByGroup(groupID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").Preload("Group").
		Where("group_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// ByAuthor returns a user's posts, newest first.
func (s *PostService) ByAuthor(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").Preload("Group").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

func (s *PostService) CountByAuthor(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Create persists a new post for the author. Text is mandatory, group and
// image are optional.
func (s *PostService) Create(userID uint, text string, groupID *uint, image string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: post text is required", models.ErrValidation)
	}
	if groupID != nil {
		var group models.Group
		if err := s.db.First(&group, *groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: group %d", models.ErrNotFound, *groupID)
			}
			return nil, err
		}
	}

	post := models.Post{
		UserID:  userID,
		GroupID: groupID,
		Text:    text,
		Image:   image,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update rewrites a post's text, group and image. Only the author may
// edit; the creation timestamp never changes.
func (s *PostService) Update(postID, userID uint, text string, groupID *uint, image string) (*models.Post, error) {
	post, err := s.Get(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, fmt.Errorf("%w: not the post author", models.ErrForbidden)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: post text is required", models.ErrValidation)
	}

	updates := map[string]interface{}{
		"text":     text,
		"group_id": groupID,
	}
	if image != "" {
		updates["image"] = image
	}
	if err := s.db.Model(post).Updates(updates).Error; err != nil {
		return nil, err
	}
	post.Text = text
	post.GroupID = groupID
	if image != "" {
		post.Image = image
	}
	return post, nil
}

// Delete hard-deletes a post. Comments go with it via the cascade.
func (s *PostService) Delete(postID, userID uint) error {
	post, err := s.Get(postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return fmt.Errorf("%w: not the post author", models.ErrForbidden)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Explicit comment cleanup keeps the cascade honest on stores
		// that skip FK enforcement.
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
}

// IncrementViews bumps the view counter with an atomic in-database
// increment, so concurrent viewers never lose updates.
func (s *PostService) IncrementViews(postID uint) error {
	return s.db.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
