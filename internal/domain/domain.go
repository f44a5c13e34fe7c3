package domain

import "time"

// Claims is the decoded payload of a bearer token. The backend signs it;
// the client only reads it.
type Claims struct {
	SubjectID int64  `json:"sub"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
	ExpiresAt int64  `json:"exp"` // unix seconds
}

// Session is the in-memory identity derived from token claims. It is
// replaced wholesale on login and discarded on logout or expiry.
type Session struct {
	SubjectID int64
	Name      string
	Email     string
	IsAdmin   bool
	ExpiresAt time.Time
}

// SessionFromClaims builds a Session directly from a claims payload.
func SessionFromClaims(c Claims) Session {
	return Session{
		SubjectID: c.SubjectID,
		Name:      c.Name,
		Email:     c.Email,
		IsAdmin:   c.IsAdmin,
		ExpiresAt: time.Unix(c.ExpiresAt, 0),
	}
}

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// CartLine is one product-quantity pairing within a cart. The line ID is
// server-assigned and opaque to the client. Product is a snapshot taken
// by the server per cart fetch; it is not kept in sync with the catalog.
type CartLine struct {
	ID        string  `json:"id"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Subtotal sums price*quantity over the given lines. A nil or empty
// slice totals to zero.
func Subtotal(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Product.Price * float64(l.Quantity)
	}
	return total
}
