package entity

const (
	RoleUser       = "user"
	RoleVenueOwner = "venue_owner"
	RoleAdmin      = "admin"
)

type User struct {
	Base
	Name    string `db:"name"`
	Email   string `db:"email"`
	Role    string `db:"role"`
	Balance int64  `db:"balance"` // minor units
}
