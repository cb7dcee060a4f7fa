package mapper

import (
	"encoding/json"
	"time"

	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SpecialistMapper struct{}

func NewSpecialistMapper() *SpecialistMapper {
	return &SpecialistMapper{}
}

func (m *SpecialistMapper) ToEntity(s *model.Specialist) *entity.Specialist {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var fields entity.CategoryFields
	if len(s.Fields) > 0 {
		// Invalid JSON leaves the union empty; downstream degrades gracefully.
		_ = json.Unmarshal(s.Fields, &fields)
	}

	return &entity.Specialist{
		Id:               s.Id,
		Name:             s.Name,
		Tagline:          s.Tagline,
		Description:      s.Description,
		Category:         s.Category,
		Specializations:  s.Specializations,
		WorkFormats:      s.WorkFormats,
		City:             s.City,
		ExperienceYears:  s.ExperienceYears,
		Gender:           s.Gender,
		PriceMinor:       s.PriceMinor,
		Verified:         s.Verified,
		AcceptingClients: s.AcceptingClients,
		ContactQuota:     s.ContactQuota,
		Fields:           fields,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        s.DeletedAt.Valid,
	}
}

func (m *SpecialistMapper) ToModel(s *entity.Specialist) *model.Specialist {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	fieldsJson, _ := json.Marshal(s.Fields)

	return &model.Specialist{
		Id:               s.Id,
		Name:             s.Name,
		Tagline:          s.Tagline,
		Description:      s.Description,
		Category:         s.Category,
		Specializations:  datatypes.NewJSONSlice(s.Specializations),
		WorkFormats:      datatypes.NewJSONSlice(s.WorkFormats),
		City:             s.City,
		ExperienceYears:  s.ExperienceYears,
		Gender:           s.Gender,
		PriceMinor:       s.PriceMinor,
		Verified:         s.Verified,
		AcceptingClients: s.AcceptingClients,
		ContactQuota:     s.ContactQuota,
		Fields:           fieldsJson,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *SpecialistMapper) ToEntities(specialists []*model.Specialist) []*entity.Specialist {
	entities := make([]*entity.Specialist, len(specialists))
	for i, s := range specialists {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
