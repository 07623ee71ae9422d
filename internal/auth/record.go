package auth

import (
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

const (
	UsersTable       = "users"
	CredentialsTable = "credentials"
)

type userRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func userToRecord(u User) (records.Record, error) {
	return records.Encode(userRecord{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt.UTC(),
	})
}

func userFromRecord(rec records.Record) (User, error) {
	var r userRecord
	if err := records.Decode(rec, &r); err != nil {
		return User{}, err
	}
	return User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      Role(r.Role),
		Phone:     r.Phone,
		Address:   r.Address,
		CreatedAt: r.CreatedAt,
	}, nil
}

// credentialRecord is keyed by the normalized email address.
type credentialRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
