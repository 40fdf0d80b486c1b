package user

import "time"

// User is a registered account holder. Password holds the bcrypt hash, never
// the plaintext; it is excluded from every API response via Public.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Password      string    `json:"password"`
	Phone         string    `json:"phone,omitempty"`
	BirthDate     string    `json:"birthDate,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	WalletAddress string    `json:"wallet_address,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Public is the caller-facing projection of a user.
type Public struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	BirthDate     string `json:"birthDate,omitempty"`
	Gender        string `json:"gender,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

// Public returns the projection of u without the password hash.
func (u User) Public() Public {
	return Public{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		BirthDate:     u.BirthDate,
		Gender:        u.Gender,
		WalletAddress: u.WalletAddress,
	}
}

// Update carries a partial profile update. Nil fields are left untouched.
type Update struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
}
