package models

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// MaxCommentLength bounds the comment body, in runes.
const MaxCommentLength = 500

// MaxCommentDepth caps the indentation level used for rendering. Replies
// nest arbitrarily deep in the data, the display just stops indenting here.
const MaxCommentDepth = 5

// Path is a materialized path: the ids of a comment's ancestors, root
// first, ending with the comment's own id. It is stored as a
// slash-delimited text column ("12/31/47") so thread structure can be
// rebuilt with a sort instead of recursive queries, and subtrees can be
// matched with a LIKE prefix.
type Path []int64

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "/")
}

// ParsePath parses the stored text form back into a Path.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	p := make(Path, len(parts))
	for i, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid comment path %q: %w", s, err)
		}
		p[i] = id
	}
	return p, nil
}

// Last returns the trailing element, which is always the comment's own id.
func (p Path) Last() int64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1]
}

// Root returns the id of the thread's top-level comment.
func (p Path) Root() int64 {
	if len(p) == 0 {
		return 0
	}
	return p[0]
}

// Depth is the indentation level for rendering: path length minus one,
// capped at MaxCommentDepth.
func (p Path) Depth() int {
	d := len(p) - 1
	if d < 0 {
		d = 0
	}
	if d > MaxCommentDepth {
		d = MaxCommentDepth
	}
	return d
}

// Compare orders paths as integer sequences (not as strings), so that
// descendants sort directly after their ancestors and sibling subtrees
// never interleave.
func (p Path) Compare(q Path) int {
	return slices.Compare(p, q)
}

// Child derives the path for a direct reply with the given id.
func (p Path) Child(id int64) Path {
	child := make(Path, 0, len(p)+1)
	child = append(child, p...)
	return append(child, id)
}

func (p Path) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *Path) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case string:
		parsed, err := ParsePath(v)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	case []byte:
		parsed, err := ParsePath(string(v))
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into models.Path", src)
	}
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	Path      Path      `gorm:"type:text;not null;default:''" json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Depth is the rendering indentation level for this comment.
func (c *Comment) Depth() int {
	return c.Path.Depth()
}

// IsReply reports whether the comment has a parent.
func (c *Comment) IsReply() bool {
	return len(c.Path) > 1
}
