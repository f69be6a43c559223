package services

import (
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// FeedService maintains the follow graph and composes the personalized
// "following" feed from it.
type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// Follow records that userID wants authorID's posts in their feed.
// Following yourself or an author you already follow is a no-op, not an
// error; the unique index on (user_id, author_id) backs the idempotency.
func (s *FeedService) Follow(userID, authorID uint) error {
	if userID == authorID {
		return nil
	}
	follow := models.Follow{UserID: userID, AuthorID: authorID}
	return s.db.
		Where("user_id = ? AND author_id = ?", userID, authorID).
		FirstOrCreate(&follow).Error
}

// Unfollow removes the edge if it exists. Unfollowing someone you never
// followed is a no-op.
func (s *FeedService) Unfollow(userID, authorID uint) error {
	return s.db.
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether userID follows authorID.
func (s *FeedService) IsFollowing(userID, authorID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// FollowerCount is how many users follow the author.
func (s *FeedService) FollowerCount(authorID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// FollowingCount is how many authors the user follows.
func (s *FeedService) FollowingCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Feed returns every post whose author the viewer follows, newest first.
// A viewer who follows nobody, or whose authors never posted, gets an
// empty slice. No dedup is needed: a post has one author and each author
// is followed at most once.
func (s *FeedService) Feed(viewerID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").Preload("Group").
		Joins("JOIN follows ON follows.author_id = posts.user_id").
		Where("follows.user_id = ?", viewerID).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	return posts, err
}
