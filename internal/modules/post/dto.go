package post

import "github.com/imok-coding/otakulib/internal/models"

type CreatePostDTO struct {
	Title       string             `json:"title"   binding:"required"`
	Slug        string             `json:"slug"    binding:"required"`
	Text        string             `json:"text"`
	Summary     string             `json:"summary"`
	Tags        models.StringSlice `json:"tags"`
	IsPublished *bool              `json:"is_published"`
}

type UpdatePostDTO struct {
	Title       *string            `json:"title"`
	Slug        *string            `json:"slug"`
	Text        *string            `json:"text"`
	Summary     *string            `json:"summary"`
	Tags        models.StringSlice `json:"tags"`
	IsPublished *bool              `json:"is_published"`
}
