package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
)

// AuthResponse is what login and signup return: a signed token plus the
// identity payload the session is seeded from.
type AuthResponse struct {
	Token string        `json:"token"`
	User  domain.Claims `json:"user"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp, noAuth); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp, noAuth); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &users, withAuth); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user/%d", id), nil, &user, withAuth); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (c *Client) GetMe(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/user/me", nil, &user, withAuth); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UserUpdate carries the PATCH body for a user; nil fields are omitted.
type UserUpdate struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	IsAdmin *bool   `json:"isAdmin,omitempty"`
}

func (c *Client) UpdateUser(ctx context.Context, id int64, update UserUpdate) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/user/%d", id), update, &user, withAuth); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/user/%d", id), nil, nil, withAuth)
}

// ListProducts fetches the catalog. Concurrent calls share one request.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := c.inFlight.Do("products", func() (any, error) {
		var products []domain.Product
		if err := c.do(ctx, http.MethodGet, "/products", nil, &products, withAuth); err != nil {
			return nil, err
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product, withAuth); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// ProductInput is the create/update body for a product.
type ProductInput struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", input, &product, withAuth); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, input ProductInput) (domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/products/%d", id), input, &product, withAuth); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil, withAuth)
}

// FetchCart returns the server's current cart snapshot, normalized from
// whichever shape the backend happened to answer with.
func (c *Client) FetchCart(ctx context.Context) ([]domain.CartLine, error) {
	raw, err := c.doRaw(ctx, http.MethodGet, "/cart", nil, withAuth)
	if err != nil {
		return nil, err
	}
	return normalizeCartSnapshot(raw), nil
}

func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) error {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return c.do(ctx, http.MethodPost, "/cart/items", body, nil, withAuth)
}

func (c *Client) UpdateCartLine(ctx context.Context, lineID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPatch, "/cart/items/"+lineID, body, nil, withAuth)
}

func (c *Client) RemoveCartLine(ctx context.Context, lineID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/items/"+lineID, nil, nil, withAuth)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil, withAuth)
}

func (c *Client) Checkout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/cart/checkout", nil, nil, withAuth)
}
