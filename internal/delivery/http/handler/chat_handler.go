package handler

import (
	"encoding/json"
	"net/http"

	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/delivery/http/middleware"
	"askadoc-server/internal/usecase"
	"askadoc-server/pkg/response"
	"askadoc-server/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	validator   *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
	}
}

// CreateChat answers 201 when the chat is new and 200 when it already existed
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	chat, created, err := h.chatUsecase.CreateChat(r.Context(), patientID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create chat")
		return
	}

	if created {
		response.Success(w, http.StatusCreated, "Chat created successfully", chat)
		return
	}
	response.Success(w, http.StatusOK, "Chat already exists", chat)
}

func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	chats, err := h.chatUsecase.ListChats(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get chats")
		return
	}

	response.Success(w, http.StatusOK, "Chats retrieved successfully", chats)
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	vars := mux.Vars(r)
	chatID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid chat ID", nil)
		return
	}

	chat, err := h.chatUsecase.GetChat(r.Context(), chatID, userID)
	if err != nil {
		response.FromError(w, err, "Failed to get chat")
		return
	}

	response.Success(w, http.StatusOK, "Chat retrieved successfully", chat)
}

func (h *ChatHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	vars := mux.Vars(r)
	chatID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid chat ID", nil)
		return
	}

	var req dto.SendChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	message, err := h.chatUsecase.AddMessage(r.Context(), chatID, userID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to send message")
		return
	}

	response.Success(w, http.StatusCreated, "Message sent successfully", message)
}
