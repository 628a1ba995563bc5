package models

// Tag is immutable reference data; rows come from the catalog seed.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:60;uniqueIndex;not null" json:"name"`
	Color string `gorm:"size:7;uniqueIndex;not null" json:"color"`
	Slug  string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

// Ingredient names are not unique; the same name may appear with
// different measurement units.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;index;not null" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null" json:"measurement_unit"`
}
