package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Specialist struct {
	Id               uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string                      `gorm:"type:varchar(255);not null"`
	Tagline          string                      `gorm:"type:varchar(512)"`
	Description      string                      `gorm:"type:text"`
	Category         string                      `gorm:"type:varchar(64);not null;index"`
	Specializations  datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	WorkFormats      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	City             string                      `gorm:"type:varchar(128);index"`
	ExperienceYears  int                         `gorm:"default:0"`
	Gender           string                      `gorm:"type:varchar(16)"`
	PriceMinor       int64                       `gorm:"default:0"` // minor currency units
	Verified         bool                        `gorm:"default:false"`
	AcceptingClients bool                        `gorm:"default:true;index"`
	ContactQuota     int                         `gorm:"default:0"`
	Fields           datatypes.JSON              `gorm:"type:jsonb"` // per-category custom fields
	CreatedAt        time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt              `gorm:"index"`
}

func (Specialist) TableName() string {
	return "specialists"
}
