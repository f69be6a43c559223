package services

import (
	"errors"
	"fmt"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

func (s *GroupService) All() ([]models.Group, error) {
	var groups []models.Group
	err := s.db.Order("id ASC").Find(&groups).Error
	return groups, err
}

func (s *GroupService) BySlug(slug string) (*models.Group, error) {
	var group models.Group
	err := s.db.Where("slug = ?", slug).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: group %q", models.ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Delete removes a group without touching its posts: their group reference
// is cleared first, so the posts survive with group = null. The explicit
// update makes the non-cascade behavior hold even where the SET NULL
// constraint is not enforced.
func (s *GroupService) Delete(groupID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("group_id = ?", groupID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, groupID).Error
	})
}
