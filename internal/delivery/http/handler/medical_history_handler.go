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

type MedicalHistoryHandler struct {
	historyUsecase usecase.MedicalHistoryUsecase
	validator      *validator.CustomValidator
}

func NewMedicalHistoryHandler(historyUsecase usecase.MedicalHistoryUsecase, validator *validator.CustomValidator) *MedicalHistoryHandler {
	return &MedicalHistoryHandler{
		historyUsecase: historyUsecase,
		validator:      validator,
	}
}

func (h *MedicalHistoryHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	history, err := h.historyUsecase.GetMine(r.Context(), patientID)
	if err != nil {
		response.FromError(w, err, "Failed to get medical history")
		return
	}

	response.Success(w, http.StatusOK, "Medical history retrieved successfully", history)
}

func (h *MedicalHistoryHandler) GetPatientHistory(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	history, err := h.historyUsecase.GetForDoctor(r.Context(), doctorID, patientID)
	if err != nil {
		response.FromError(w, err, "Failed to get medical history")
		return
	}

	response.Success(w, http.StatusOK, "Medical history retrieved successfully", history)
}

func (h *MedicalHistoryHandler) AddConditions(w http.ResponseWriter, r *http.Request) {
	var req dto.AddConditionsRequest
	h.update(w, r, &req, func(patientID uuid.UUID) (*dto.MedicalHistoryResponse, error) {
		return h.historyUsecase.AddConditions(r.Context(), patientID, &req)
	})
}

func (h *MedicalHistoryHandler) AddAllergies(w http.ResponseWriter, r *http.Request) {
	var req dto.AddAllergiesRequest
	h.update(w, r, &req, func(patientID uuid.UUID) (*dto.MedicalHistoryResponse, error) {
		return h.historyUsecase.AddAllergies(r.Context(), patientID, &req)
	})
}

func (h *MedicalHistoryHandler) AddPrescription(w http.ResponseWriter, r *http.Request) {
	var req dto.AddPrescriptionRequest
	h.update(w, r, &req, func(patientID uuid.UUID) (*dto.MedicalHistoryResponse, error) {
		return h.historyUsecase.AddPrescription(r.Context(), patientID, &req)
	})
}

func (h *MedicalHistoryHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	var req dto.AddDocumentRequest
	h.update(w, r, &req, func(patientID uuid.UUID) (*dto.MedicalHistoryResponse, error) {
		return h.historyUsecase.AddDocument(r.Context(), patientID, &req)
	})
}

// update decodes and validates req, then runs apply for the calling patient
func (h *MedicalHistoryHandler) update(w http.ResponseWriter, r *http.Request, req interface{}, apply func(patientID uuid.UUID) (*dto.MedicalHistoryResponse, error)) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	history, err := apply(patientID)
	if err != nil {
		response.FromError(w, err, "Failed to update medical history")
		return
	}

	response.Success(w, http.StatusCreated, "Medical history updated successfully", history)
}
