package events

import "time"

// SpecialistProfileUpdated is emitted when content-relevant profile fields
// change; the embed consumer reacts by regenerating the profile embedding.
const SpecialistProfileUpdated = "SPECIALIST_PROFILE_UPDATED"

// SpecialistProfileDeleted removes the specialist's vector from the index.
const SpecialistProfileDeleted = "SPECIALIST_PROFILE_DELETED"

func NewSpecialistProfileUpdated(specialistId string) Event {
	return BaseEvent{
		Type: SpecialistProfileUpdated,
		Data: map[string]interface{}{
			"specialist_id": specialistId,
		},
		OccurredAt: time.Now(),
	}
}

func NewSpecialistProfileDeleted(specialistId string) Event {
	return BaseEvent{
		Type: SpecialistProfileDeleted,
		Data: map[string]interface{}{
			"specialist_id": specialistId,
		},
		OccurredAt: time.Now(),
	}
}
