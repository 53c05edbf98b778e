package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PatientProfile represents patient-specific profile data
type PatientProfile struct {
	UserID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	MedicalHistory MedicalHistory `gorm:"type:jsonb;not null" json:"medical_history"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

type Prescription struct {
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage,omitempty"`
	Frequency string     `json:"frequency,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type MedicalDocument struct {
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// MedicalHistory is stored as a single jsonb document on the patient profile.
// Conditions and allergies behave as sets, prescriptions and documents as ordered lists.
type MedicalHistory struct {
	Conditions    []string          `json:"conditions"`
	Allergies     []string          `json:"allergies"`
	Prescriptions []Prescription    `json:"prescriptions"`
	Documents     []MedicalDocument `json:"documents"`
}

func (m MedicalHistory) Value() (driver.Value, error) {
	return json.Marshal(m.Normalized())
}

func (m *MedicalHistory) Scan(value interface{}) error {
	if value == nil {
		*m = MedicalHistory{}.Normalized()
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	var result MedicalHistory
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*m = result.Normalized()
	return nil
}

// Normalized replaces nil slices so the document always serializes as arrays
func (m MedicalHistory) Normalized() MedicalHistory {
	if m.Conditions == nil {
		m.Conditions = []string{}
	}
	if m.Allergies == nil {
		m.Allergies = []string{}
	}
	if m.Prescriptions == nil {
		m.Prescriptions = []Prescription{}
	}
	if m.Documents == nil {
		m.Documents = []MedicalDocument{}
	}
	return m
}

// AddCondition adds a condition unless it is already recorded
func (m *MedicalHistory) AddCondition(condition string) bool {
	if containsString(m.Conditions, condition) {
		return false
	}
	m.Conditions = append(m.Conditions, condition)
	return true
}

// AddAllergy adds an allergy unless it is already recorded
func (m *MedicalHistory) AddAllergy(allergy string) bool {
	if containsString(m.Allergies, allergy) {
		return false
	}
	m.Allergies = append(m.Allergies, allergy)
	return true
}

func (m *MedicalHistory) AddPrescription(p Prescription) {
	m.Prescriptions = append(m.Prescriptions, p)
}

func (m *MedicalHistory) AddDocument(d MedicalDocument) {
	m.Documents = append(m.Documents, d)
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
