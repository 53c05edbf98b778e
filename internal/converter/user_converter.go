package converter

import (
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// The doctor profile is included when it is loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role.String(),
		FullName:  user.FullName,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.IsDoctor() && user.DoctorProfile != nil {
		response.DoctorProfile = DoctorToResponse(user.DoctorProfile)
	}

	return response
}

// UserToParticipant converts a User entity to the short ParticipantResponse
func UserToParticipant(user *entity.User) *dto.ParticipantResponse {
	if user == nil {
		return nil
	}

	participant := &dto.ParticipantResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role.String(),
	}
	if user.DoctorProfile != nil {
		participant.Specialization = user.DoctorProfile.Specialization
	}
	return participant
}
