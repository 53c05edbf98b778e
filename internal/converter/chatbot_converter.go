package converter

import (
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
	"askadoc-server/internal/triage"

	"github.com/google/uuid"
)

// TriageResultToReply converts a classification result to the chatbot reply DTO
func TriageResultToReply(sessionID uuid.UUID, result triage.Result) *dto.ChatbotReplyResponse {
	return &dto.ChatbotReplyResponse{
		SessionID:      sessionID,
		Message:        result.Message,
		IsEmergency:    result.IsEmergency,
		Severity:       string(result.Severity),
		EmergencyType:  result.EmergencyType,
		ReferToDoctor:  result.ReferToDoctor,
		DoctorID:       result.DoctorID,
		DoctorName:     result.DoctorName,
		Specialization: result.Specialization,
	}
}

func ChatbotMessagesToResponses(messages []entity.ChatbotMessage) []dto.ChatbotMessageResponse {
	responses := make([]dto.ChatbotMessageResponse, len(messages))
	for i, message := range messages {
		responses[i] = dto.ChatbotMessageResponse{
			ID:        message.ID,
			Sender:    string(message.Sender),
			Content:   message.Content,
			CreatedAt: message.CreatedAt,
		}
	}
	return responses
}

// ChatbotHistoryToResponse builds the history view. A nil session yields an empty history.
func ChatbotHistoryToResponse(session *entity.ChatbotSession, messages []entity.ChatbotMessage) *dto.ChatbotHistoryResponse {
	if session == nil {
		return &dto.ChatbotHistoryResponse{Messages: []dto.ChatbotMessageResponse{}}
	}

	sessionID := session.ID
	return &dto.ChatbotHistoryResponse{
		SessionID:  &sessionID,
		Status:     string(session.Status),
		ReferredTo: session.ReferredTo,
		Messages:   ChatbotMessagesToResponses(messages),
	}
}
