package library

import (
	"errors"

	"github.com/imok-coding/otakulib/internal/models"
	"github.com/imok-coding/otakulib/internal/modules/visibility"
	"github.com/imok-coding/otakulib/internal/pkg/pagination"
	"github.com/imok-coding/otakulib/internal/pkg/response"
	"gorm.io/gorm"
)

// Service handles collection item business logic.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns a paginated list of collection items, optionally filtered by
// kind. Non-admin viewers only see published items.
func (s *Service) List(q pagination.Query, kind string, isAdmin bool) ([]models.LibraryItemModel, response.Pagination, error) {
	tx := s.db.Model(&models.LibraryItemModel{}).Order("created_at DESC")
	if kind != "" {
		tx = tx.Where("kind = ?", kind)
	}
	if !isAdmin {
		tx = tx.Where("is_published = ?", true)
	}

	var items []models.LibraryItemModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// ListAll returns every item newest-first, optionally filtered by kind,
// for selection resolution.
func (s *Service) ListAll(kind string) ([]models.LibraryItemModel, error) {
	tx := s.db.Order("created_at DESC")
	if kind != "" {
		tx = tx.Where("kind = ?", kind)
	}
	var items []models.LibraryItemModel
	err := tx.Find(&items).Error
	return items, err
}

// GetByID fetches a single item. Unpublished items stay hidden from
// non-admin viewers.
func (s *Service) GetByID(id string, isAdmin bool) (*models.LibraryItemModel, error) {
	var item models.LibraryItemModel
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !isAdmin && !item.IsPublished {
		return nil, nil
	}
	return &item, nil
}

// Create inserts a new collection item.
func (s *Service) Create(dto *CreateItemDTO) (*models.LibraryItemModel, error) {
	item := models.LibraryItemModel{
		Kind:     dto.Kind,
		Title:    dto.Title,
		Creator:  dto.Creator,
		CoverURL: dto.CoverURL,
		Rating:   dto.Rating,
		Progress: dto.Progress,
		Total:    dto.Total,
		Notes:    dto.Notes,
		Tags:     dto.Tags,
	}
	if dto.IsPublished != nil {
		item.IsPublished = *dto.IsPublished
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update patches an item by ID.
func (s *Service) Update(id string, dto *UpdateItemDTO) (*models.LibraryItemModel, error) {
	item, err := s.GetByID(id, true)
	if err != nil || item == nil {
		return item, err
	}

	updates := map[string]interface{}{}
	if dto.Kind != nil {
		updates["kind"] = *dto.Kind
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Creator != nil {
		updates["creator"] = *dto.Creator
	}
	if dto.CoverURL != nil {
		updates["cover_url"] = *dto.CoverURL
	}
	if dto.Rating != nil {
		updates["rating"] = *dto.Rating
	}
	if dto.Progress != nil {
		updates["progress"] = *dto.Progress
	}
	if dto.Total != nil {
		updates["total"] = *dto.Total
	}
	if dto.Notes != nil {
		updates["notes"] = *dto.Notes
	}
	if dto.Tags != nil {
		updates["tags"] = dto.Tags
	}
	if dto.IsPublished != nil {
		updates["is_published"] = *dto.IsPublished
	}

	if err := s.db.Model(item).Updates(updates).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// SetPublished flips the publication status.
func (s *Service) SetPublished(id string, published bool) (*models.LibraryItemModel, error) {
	item, err := s.GetByID(id, true)
	if err != nil || item == nil {
		return item, err
	}
	if err := s.db.Model(item).Update("is_published", published).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete soft-deletes an item by ID.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.LibraryItemModel{}, "id = ?", id).Error
}

// VisibilityItems projects collection items into the visibility resolver's
// item shape, preserving order.
func VisibilityItems(items []models.LibraryItemModel) []visibility.Item {
	out := make([]visibility.Item, len(items))
	for i, it := range items {
		out[i] = visibility.Item{ID: it.ID, Published: it.IsPublished}
	}
	return out
}
