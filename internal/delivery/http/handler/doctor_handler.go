package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/delivery/http/middleware"
	"askadoc-server/internal/domain/entity"
	"askadoc-server/internal/usecase"
	"askadoc-server/pkg/response"
	"askadoc-server/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

// GetAllDoctors lists doctors.
// Query: specialization, minFees, maxFees, minExperience, sortBy=rating
func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDoctorFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	doctors, err := h.doctorUsecase.ListDoctors(r.Context(), filter)
	if err != nil {
		response.FromError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

type filterError string

func (e filterError) Error() string { return string(e) }

func parseDoctorFilter(r *http.Request) (*entity.DoctorFilter, error) {
	query := r.URL.Query()
	filter := &entity.DoctorFilter{
		Specialization: query.Get("specialization"),
		SortBy:         query.Get("sortBy"),
	}

	if v := query.Get("minFees"); v != "" {
		fees, err := decimal.NewFromString(v)
		if err != nil {
			return nil, filterError("Invalid minFees")
		}
		filter.MinFees = &fees
	}
	if v := query.Get("maxFees"); v != "" {
		fees, err := decimal.NewFromString(v)
		if err != nil {
			return nil, filterError("Invalid maxFees")
		}
		filter.MaxFees = &fees
	}
	if v := query.Get("minExperience"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			return nil, filterError("Invalid minExperience")
		}
		filter.MinExperience = &years
	}

	return filter, nil
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		response.FromError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	var req dto.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.doctorUsecase.AddReview(r.Context(), doctorID, patientID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to add review")
		return
	}

	response.Success(w, http.StatusCreated, "Review added successfully", review)
}
