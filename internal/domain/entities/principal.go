package entities

// Roles assigned by the upstream identity provider.
const (
	RolePatient  = "patient"
	RoleHospital = "hospital"
)

// Principal is the authenticated identity attached to a request by the
// out-of-scope auth layer. Hospital principals carry the facility they
// act for.
type Principal struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Verified   bool   `json:"verified"`
	FacilityID int64  `json:"facility_id,omitempty"`
}

// IsPatient reports whether the principal is a patient account.
func (p *Principal) IsPatient() bool {
	return p != nil && p.Role == RolePatient
}

// IsVerifiedHospital reports whether the principal is a hospital account
// that an administrator has verified.
func (p *Principal) IsVerifiedHospital() bool {
	return p != nil && p.Role == RoleHospital && p.Verified
}
