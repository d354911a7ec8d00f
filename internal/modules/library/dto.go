package library

import "github.com/imok-coding/otakulib/internal/models"

type CreateItemDTO struct {
	Kind        string             `json:"kind"     binding:"required,oneof=manga anime card"`
	Title       string             `json:"title"    binding:"required"`
	Creator     string             `json:"creator"`
	CoverURL    string             `json:"cover_url"`
	Rating      int                `json:"rating"   binding:"min=0,max=10"`
	Progress    int                `json:"progress" binding:"min=0"`
	Total       int                `json:"total"    binding:"min=0"`
	Notes       string             `json:"notes"`
	Tags        models.StringSlice `json:"tags"`
	IsPublished *bool              `json:"is_published"`
}

type UpdateItemDTO struct {
	Kind        *string            `json:"kind"     binding:"omitempty,oneof=manga anime card"`
	Title       *string            `json:"title"`
	Creator     *string            `json:"creator"`
	CoverURL    *string            `json:"cover_url"`
	Rating      *int               `json:"rating"   binding:"omitempty,min=0,max=10"`
	Progress    *int               `json:"progress" binding:"omitempty,min=0"`
	Total       *int               `json:"total"    binding:"omitempty,min=0"`
	Notes       *string            `json:"notes"`
	Tags        models.StringSlice `json:"tags"`
	IsPublished *bool              `json:"is_published"`
}
