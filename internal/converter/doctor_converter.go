package converter

import (
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
)

// DoctorToResponse converts a DoctorProfile (with its User preloaded) to DoctorResponse DTO
func DoctorToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	languages := []string(profile.Languages)
	if languages == nil {
		languages = []string{}
	}

	return &dto.DoctorResponse{
		ID:             profile.UserID,
		Username:       profile.User.Username,
		FullName:       profile.User.FullName,
		Email:          profile.User.Email,
		Specialization: profile.Specialization,
		Experience:     profile.Experience,
		Fees:           profile.Fees,
		Education:      profile.Education,
		Languages:      languages,
		Rating:         profile.Rating,
	}
}

func DoctorsToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorToResponse(&profiles[i])
	}
	return responses
}

func ReviewToResponse(review *entity.DoctorReview) *dto.ReviewResponse {
	if review == nil {
		return nil
	}

	response := &dto.ReviewResponse{
		ID:        review.ID,
		DoctorID:  review.DoctorID,
		PatientID: review.PatientID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if review.Patient != nil {
		response.PatientName = review.Patient.DisplayName()
	}
	return response
}

func ReviewsToResponses(reviews []entity.DoctorReview) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = *ReviewToResponse(&reviews[i])
	}
	return responses
}
