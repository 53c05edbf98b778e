package converter

import (
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"

	"github.com/google/uuid"
)

// ChatToResponse converts a Chat entity to ChatResponse DTO as seen by viewerID.
// OtherParticipant is whichever side of the chat the viewer is not.
func ChatToResponse(chat *entity.Chat, viewerID uuid.UUID) *dto.ChatResponse {
	if chat == nil {
		return nil
	}

	response := &dto.ChatResponse{
		ID:            chat.ID,
		Status:        chat.Status,
		DoctorID:      chat.DoctorID,
		PatientID:     chat.PatientID,
		Doctor:        UserToParticipant(chat.Doctor),
		Patient:       UserToParticipant(chat.Patient),
		LastMessageAt: chat.LastMessageAt,
		CreatedAt:     chat.CreatedAt,
	}

	if viewerID == chat.DoctorID {
		response.OtherParticipant = response.Patient
	} else {
		response.OtherParticipant = response.Doctor
	}

	if len(chat.Messages) > 0 {
		response.Messages = ChatMessagesToResponses(chat.Messages)
	}

	return response
}

func ChatsToListResponse(chats []entity.Chat, viewerID uuid.UUID) *dto.ChatListResponse {
	responses := make([]dto.ChatResponse, len(chats))
	for i := range chats {
		responses[i] = *ChatToResponse(&chats[i], viewerID)
	}
	return &dto.ChatListResponse{
		Chats: responses,
		Total: len(responses),
	}
}

func ChatMessageToResponse(message *entity.ChatMessage) *dto.ChatMessageResponse {
	if message == nil {
		return nil
	}

	return &dto.ChatMessageResponse{
		ID:        message.ID,
		ChatID:    message.ChatID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
}

func ChatMessagesToResponses(messages []entity.ChatMessage) []dto.ChatMessageResponse {
	responses := make([]dto.ChatMessageResponse, len(messages))
	for i := range messages {
		responses[i] = *ChatMessageToResponse(&messages[i])
	}
	return responses
}
