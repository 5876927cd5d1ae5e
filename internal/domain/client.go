package domain

import "time"

// Client is a customer of the company. Projects reference their client
// through Project.ClientID.
type Client struct {
	ID          string `validate:"required"`
	Name        string `validate:"required,max=200"`
	Email       string `validate:"omitempty,email"`
	PhoneNumber string `validate:"omitempty,max=40"`
	Address     string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayID returns the first 8 characters of the ID for compact display.
func (c *Client) DisplayID() string {
	return shortID(c.ID)
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
