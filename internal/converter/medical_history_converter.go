package converter

import (
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
)

// MedicalHistoryToResponse converts a PatientProfile's medical history to its DTO
func MedicalHistoryToResponse(profile *entity.PatientProfile) *dto.MedicalHistoryResponse {
	if profile == nil {
		return nil
	}

	history := profile.MedicalHistory.Normalized()
	return &dto.MedicalHistoryResponse{
		PatientID:     profile.UserID,
		Conditions:    history.Conditions,
		Allergies:     history.Allergies,
		Prescriptions: history.Prescriptions,
		Documents:     history.Documents,
		UpdatedAt:     profile.UpdatedAt,
	}
}
