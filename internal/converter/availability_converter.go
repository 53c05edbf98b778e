package converter

import (
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
)

// SlotToResponse converts an AvailabilitySlot entity to SlotResponse DTO
func SlotToResponse(slot *entity.AvailabilitySlot) *dto.SlotResponse {
	if slot == nil {
		return nil
	}

	return &dto.SlotResponse{
		ID:        slot.ID,
		DoctorID:  slot.DoctorID,
		Time:      slot.Time,
		IsBooked:  slot.IsBooked,
		CreatedAt: slot.CreatedAt,
	}
}

// SlotsToListResponse keeps the order the slots were loaded in
func SlotsToListResponse(slots []entity.AvailabilitySlot) *dto.SlotListResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i := range slots {
		responses[i] = *SlotToResponse(&slots[i])
	}
	return &dto.SlotListResponse{
		Slots: responses,
		Total: len(responses),
	}
}
