package auth

import "time"

// Role is fixed at registration.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleChef     Role = "chef"
	RoleDelivery Role = "delivery"
)

// Roles lists every role in display order.
var Roles = []Role{RoleCustomer, RoleAdmin, RoleChef, RoleDelivery}

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleChef, RoleDelivery:
		return true
	}
	return false
}

// User is the profile row kept in the users table.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is what the identity provider knows about a signed-in client.
type Session struct {
	Token    string    `json:"token"`
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issuedAt"`
}

// Actor identifies who performs an operation. It is passed explicitly to the
// lifecycle engine and checkout instead of being read from ambient state.
type Actor struct {
	UserID string
	Role   Role
}

// Principal is an established session together with its loaded profile.
type Principal struct {
	Session Session `json:"session"`
	User    User    `json:"user"`
}

func (p Principal) Actor() Actor {
	return Actor{UserID: p.User.ID, Role: p.User.Role}
}

// ChangeKind classifies identity notifications.
type ChangeKind string

const (
	SignedUp  ChangeKind = "signed_up"
	SignedIn  ChangeKind = "signed_in"
	SignedOut ChangeKind = "signed_out"
)

// Change is delivered to subscribers whenever a session is established or cleared.
type Change struct {
	Kind    ChangeKind
	Session Session
}
