package models

// StringSlice is a []string that serializes as JSON in MySQL.
type StringSlice []string

// PostModel is a blog post.
type PostModel struct {
	Base
	Slug        string      `json:"slug"         gorm:"uniqueIndex;not null"`
	Title       string      `json:"title"        gorm:"not null"`
	Text        string      `json:"text"         gorm:"type:longtext"`
	Summary     string      `json:"summary"`
	Tags        StringSlice `json:"tags"         gorm:"type:json;serializer:json"`
	IsPublished bool        `json:"is_published" gorm:"default:false;index"`
	ReadCount   int         `json:"read"         gorm:"column:read_count;default:0"`
	LikeCount   int         `json:"like"         gorm:"column:like_count;default:0"`
}

func (PostModel) TableName() string { return "posts" }
