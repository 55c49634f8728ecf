package domain

import "time"

// User is a voter known to the system. Auth0ID is the subject claim issued by
// the identity provider and is the external identity key.
type User struct {
	ID        int64     `json:"id"`
	Auth0ID   string    `json:"auth0Id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity carries the verified token claims of the caller.
type Identity struct {
	Subject string
	Name    string
	Email   string
}
