package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialization string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Experience     int             `gorm:"not null;default:0" json:"experience"`
	Fees           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"fees"`
	Education      string          `gorm:"type:text" json:"education,omitempty"`
	Languages      StringList      `gorm:"type:jsonb;not null;default:'[]'" json:"languages"`
	Rating         float64         `gorm:"type:numeric(3,2);not null;default:0" json:"rating"`

	// Relationships
	User    User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reviews []DoctorReview `gorm:"foreignKey:DoctorID" json:"reviews,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// Specializations is the fixed set of medical fields a doctor may register under
var Specializations = []string{
	"Cardiology",
	"Dermatology",
	"Dentistry",
	"Endocrinology",
	"ENT",
	"Family Medicine",
	"Gastroenterology",
	"General Medicine",
	"General Practitioner",
	"Gynecology",
	"Internal Medicine",
	"Nephrology",
	"Neurology",
	"Obstetrics and Gynecology",
	"Oncology",
	"Ophthalmology",
	"Orthopedics",
	"Pediatrics",
	"Psychiatry",
	"Pulmonology",
	"Radiology",
	"Urology",
}

func IsValidSpecialization(name string) bool {
	for _, s := range Specializations {
		if s == name {
			return true
		}
	}
	return false
}
