package models

// Admin is the single shop operator allowed to mutate products and bills when
// auth is enabled. Credentials come from the environment, not the database.
type Admin struct {
	Email        string
	PasswordHash string // bcrypt
}
