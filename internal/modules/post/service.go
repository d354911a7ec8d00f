package post

import (
	"errors"

	"github.com/imok-coding/otakulib/internal/models"
	"github.com/imok-coding/otakulib/internal/modules/visibility"
	"github.com/imok-coding/otakulib/internal/pkg/pagination"
	"github.com/imok-coding/otakulib/internal/pkg/response"
	"gorm.io/gorm"
)

var ErrSlugExists = errors.New("slug already exists")

// Service handles post business logic.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns a paginated list of posts. Non-admin viewers only see
// published posts.
func (s *Service) List(q pagination.Query, isAdmin bool) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).Order("created_at DESC")
	if !isAdmin {
		tx = tx.Where("is_published = ?", true)
	}

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// ListAll returns every post newest-first, for selection resolution.
func (s *Service) ListAll() ([]models.PostModel, error) {
	var posts []models.PostModel
	err := s.db.Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// GetByID fetches a single post by ID.
func (s *Service) GetByID(id string) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a single post by slug.
func (s *Service) GetBySlug(slug string, isAdmin bool) (*models.PostModel, error) {
	var post models.PostModel
	tx := s.db.Where("slug = ?", slug)
	if !isAdmin {
		tx = tx.Where("is_published = ?", true)
	}
	if err := tx.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByIdentifier fetches a post by ID first, then falls back to slug.
// Drafts stay hidden from non-admin viewers.
func (s *Service) GetByIdentifier(identifier string, isAdmin bool) (*models.PostModel, error) {
	if post, err := s.GetByID(identifier); err != nil {
		return nil, err
	} else if post != nil {
		if !isAdmin && !post.IsPublished {
			return nil, nil
		}
		return post, nil
	}
	return s.GetBySlug(identifier, isAdmin)
}

// Create inserts a new post.
func (s *Service) Create(dto *CreatePostDTO) (*models.PostModel, error) {
	var count int64
	s.db.Model(&models.PostModel{}).Where("slug = ?", dto.Slug).Count(&count)
	if count > 0 {
		return nil, ErrSlugExists
	}

	post := models.PostModel{
		Title:   dto.Title,
		Slug:    dto.Slug,
		Text:    dto.Text,
		Summary: dto.Summary,
		Tags:    dto.Tags,
	}
	if dto.IsPublished != nil {
		post.IsPublished = *dto.IsPublished
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update patches a post by ID.
func (s *Service) Update(id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	post, err := s.GetByID(id)
	if err != nil || post == nil {
		return post, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Slug != nil && *dto.Slug != post.Slug {
		var count int64
		s.db.Model(&models.PostModel{}).Where("slug = ?", *dto.Slug).Count(&count)
		if count > 0 {
			return nil, ErrSlugExists
		}
		updates["slug"] = *dto.Slug
	}
	if dto.Text != nil {
		updates["text"] = *dto.Text
	}
	if dto.Summary != nil {
		updates["summary"] = *dto.Summary
	}
	if dto.Tags != nil {
		updates["tags"] = dto.Tags
	}
	if dto.IsPublished != nil {
		updates["is_published"] = *dto.IsPublished
	}

	if err := s.db.Model(post).Updates(updates).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// SetPublished flips the publication status.
func (s *Service) SetPublished(id string, published bool) (*models.PostModel, error) {
	post, err := s.GetByID(id)
	if err != nil || post == nil {
		return post, err
	}
	if err := s.db.Model(post).Update("is_published", published).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Delete soft-deletes a post by ID.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.PostModel{}, "id = ?", id).Error
}

// IncrementReadCount atomically increments the read counter.
func (s *Service) IncrementReadCount(id string) error {
	return s.db.Model(&models.PostModel{}).Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error
}

// IncrementLikeCount atomically increments the like counter.
func (s *Service) IncrementLikeCount(id string) error {
	return s.db.Model(&models.PostModel{}).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
}

// VisibilityItems projects posts into the visibility resolver's item shape,
// preserving order.
func VisibilityItems(posts []models.PostModel) []visibility.Item {
	items := make([]visibility.Item, len(posts))
	for i, p := range posts {
		items[i] = visibility.Item{ID: p.ID, Published: p.IsPublished}
	}
	return items
}
