package models

import (
	"sync"
	"time"

	"bitbucket.org/ahadnetwork/inventory_backend/utils"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin,omitempty"`
}

type userSeed struct {
	id       string
	email    string
	password string
	role     UserRole
	name     string
}

// The distributor runs with a fixed user list; there is no signup flow.
var userSeeds = []userSeed{
	{id: "user-001", email: "admin@ahadnetwork.com", password: "AhadNetwork2025!", role: UserRoleAdmin, name: "Admin User"},
	{id: "user-002", email: "aiman.adnan92@gmail.com", password: "Staff123!", role: UserRoleStaff, name: "Aiman"},
	{id: "user-003", email: "farahaimannnn@gmail.com", password: "Viewer123!", role: UserRoleViewer, name: "Farah"},
	{id: "user-004", email: "s.anuar1990@gmail.com", password: "Viewer123!", role: UserRoleViewer, name: "Anuar"},
}

var (
	usersOnce sync.Once
	users     []User
)

// Users returns the hardcoded user list with bcrypt password hashes.
// Hashing happens once per process.
func Users() []User {
	usersOnce.Do(func() {
		now := time.Now().UTC()
		for _, s := range userSeeds {
			hash, err := utils.HashPassword(s.password)
			if err != nil {
				continue
			}
			users = append(users, User{
				ID:           s.id,
				Email:        s.email,
				PasswordHash: string(hash),
				Role:         s.role,
				Name:         s.name,
				CreatedAt:    now,
			})
		}
	})
	return users
}

// AuthenticateUser checks credentials against the hardcoded list.
func AuthenticateUser(email string, password string) (*User, bool) {
	for i := range Users() {
		u := &users[i]
		if u.Email != email {
			continue
		}
		if utils.ComparePassword(u.PasswordHash, password) == nil {
			return u, true
		}
		return nil, false
	}
	return nil, false
}
