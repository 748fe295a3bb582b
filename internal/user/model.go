package user

// User is a registered account. Accounts are created on signup and never
// mutated or deleted afterwards. The hash stays server-side: API responses
// carry the Public projection only.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	CreatedAtUtc int64  `json:"createdAtUtc"`
}

// Public is the client-visible projection of a user.
type Public struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Email: u.Email}
}
