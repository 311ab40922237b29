package entities

import "github.com/google/uuid"

// Ingredient names are deduplicated at write time only, there is no
// unique constraint on the column.
type Ingredient struct {
	Base
	Name  string  `gorm:"index;not null" json:"name"`
	Image *string `json:"image,omitempty"`
}

type Unit struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	Abbreviation string `gorm:"not null" json:"abbreviation"`
}

type Manufacturer struct {
	Base
	Name string `gorm:"not null" json:"name"`
}

type ApplianceType struct {
	Base
	Name string `gorm:"not null" json:"name"`
}

type Appliance struct {
	Base
	Model          string    `gorm:"index;not null" json:"model"`
	ManufacturerID uuid.UUID `gorm:"type:uuid;not null" json:"manufacturer_uid"`
	TypeID         uuid.UUID `gorm:"type:uuid;not null" json:"type_uid"`

	Manufacturer *Manufacturer  `gorm:"foreignKey:ManufacturerID"`
	Type         *ApplianceType `gorm:"foreignKey:TypeID"`
}
