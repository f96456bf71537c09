package entity

import (
	"time"

	"github.com/google/uuid"
)

type Store struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyId uuid.UUID `gorm:"type:uuid;index"`
	Name      string
	// Phone holds digits only. Sender resolution compares trailing digits,
	// so country-code variance does not matter here.
	Phone     string
	Address   string
	Latitude  float64
	Longitude float64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
