package entities

import "github.com/google/uuid"

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityFriends Visibility = "FRIENDS"
	VisibilityPrivate Visibility = "PRIVATE"
)

type Recipe struct {
	Base
	Title       *string    `gorm:"index" json:"title"`
	Slug        *string    `gorm:"uniqueIndex" json:"slug"`
	Description *string    `gorm:"type:text" json:"description"`
	Image       *string    `json:"image"`
	Notes       *string    `gorm:"type:text" json:"notes"`
	Visibility  Visibility `gorm:"type:varchar(16);not null;index" json:"visibility"`
	IsDraft     bool       `gorm:"not null;index" json:"is_draft"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_uid"`

	Author       *User               `gorm:"foreignKey:AuthorID"`
	Instructions []*Instruction      `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredients  []*RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Appliances   []*Appliance        `gorm:"many2many:recipe_appliances;constraint:OnDelete:CASCADE"`
}

type Instruction struct {
	Base
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_uid"`
	Step        int       `gorm:"not null" json:"step"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Timer       *int      `json:"timer"` // seconds
}

type RecipeIngredient struct {
	Base
	RecipeID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipe_uid"`
	IngredientID uuid.UUID  `gorm:"type:uuid;not null" json:"ingredient_uid"`
	UnitID       *uuid.UUID `gorm:"type:uuid" json:"unit_uid"`
	Quantity     *float64   `json:"quantity"`
	Notes        *string    `gorm:"type:text" json:"notes"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
	Unit       *Unit       `gorm:"foreignKey:UnitID"`
}
