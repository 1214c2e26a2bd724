package model

// Role is the subscription tier of a user, as stored in the accounts DB.
type Role string

const (
	RoleFree    Role = "free_user"
	RolePremium Role = "premium_user"
)

// UserProfile mirrors one row of the accounts database. The pipeline only
// ever reads the role, but the full profile is cached to spare the DB.
type UserProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
	Role        Role   `json:"role"`
}

// FreeTier reports whether the user's results are subject to archival.
func (p *UserProfile) FreeTier() bool {
	return p.Role == RoleFree
}
