package catalog

type Category struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"column:name;not null" json:"name"`
	Slug     string `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	IconURL  string `gorm:"column:icon_url" json:"icon_url,omitempty"`
	ParentID *int   `gorm:"column:parent_id;index" json:"parent_id,omitempty"`

	Subcategories []Category `gorm:"-" json:"subcategories,omitempty"`
}

func (Category) TableName() string { return "category" }

type CategoryDraft struct {
	Name     string `json:"name" validate:"required,notblank"`
	Slug     string `json:"slug" validate:"required,notblank"`
	IconURL  string `json:"icon_url,omitempty" validate:"omitempty,url"`
	ParentID *int   `json:"parent_id,omitempty"`
}
