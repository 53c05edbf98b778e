package handler

import (
	"encoding/json"
	"net/http"

	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/delivery/http/middleware"
	"askadoc-server/internal/usecase"
	"askadoc-server/pkg/response"
	"askadoc-server/pkg/validator"
)

type ChatbotHandler struct {
	chatbotUsecase usecase.ChatbotUsecase
	validator      *validator.CustomValidator
}

func NewChatbotHandler(chatbotUsecase usecase.ChatbotUsecase, validator *validator.CustomValidator) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotUsecase: chatbotUsecase,
		validator:      validator,
	}
}

func (h *ChatbotHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.ChatbotMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reply, err := h.chatbotUsecase.SendMessage(r.Context(), userID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to process message")
		return
	}

	response.Success(w, http.StatusOK, "Message processed successfully", reply)
}

func (h *ChatbotHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	history, err := h.chatbotUsecase.GetHistory(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get chatbot history")
		return
	}

	response.Success(w, http.StatusOK, "Chatbot history retrieved successfully", history)
}
