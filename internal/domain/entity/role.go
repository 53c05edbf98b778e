package entity

// Role is the single role a user holds
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}
