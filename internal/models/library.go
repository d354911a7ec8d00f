package models

// Collection item kinds.
const (
	KindManga = "manga"
	KindAnime = "anime"
	KindCard  = "card"
)

// LibraryItemModel is a collection entry: a manga volume, an anime series
// or a trading card. Unpublished items are only visible to the admin.
type LibraryItemModel struct {
	Base
	Kind        string      `json:"kind"         gorm:"index;not null"` // manga | anime | card
	Title       string      `json:"title"        gorm:"not null"`
	Creator     string      `json:"creator"`
	CoverURL    string      `json:"cover_url"`
	Rating      int         `json:"rating"       gorm:"default:0"` // 0-10
	Progress    int         `json:"progress"     gorm:"default:0"` // chapters / episodes / copies
	Total       int         `json:"total"        gorm:"default:0"`
	Notes       string      `json:"notes"        gorm:"type:longtext"`
	Tags        StringSlice `json:"tags"         gorm:"type:json;serializer:json"`
	IsPublished bool        `json:"is_published" gorm:"default:false;index"`
}

func (LibraryItemModel) TableName() string { return "library_items" }
