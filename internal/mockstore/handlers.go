package mockstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
	"github.com/Leorodrigs/deathstore-storefront/internal/token"
)

// TokenTTL is how long minted tokens stay valid.
const TokenTTL = 24 * time.Hour

type contextKey int

const claimsKey contextKey = iota

// Server exposes a MemoryStore over the storefront REST contract.
type Server struct {
	store *MemoryStore
	log   *zap.Logger
	now   func() time.Time
}

func NewServer(store *MemoryStore, log *zap.Logger) *Server {
	return &Server{store: store, log: log, now: time.Now}
}

// Router builds the full REST surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/signup", s.handleSignup)

	// Catalog browsing needs no session; product mutation is admin-only.
	r.Get("/products", s.handleListProducts)
	r.Get("/products/{id}", s.handleGetProduct)
	r.With(s.requireAuth, s.requireAdmin).Post("/products", s.handleCreateProduct)
	r.With(s.requireAuth, s.requireAdmin).Patch("/products/{id}", s.handleUpdateProduct)
	r.With(s.requireAuth, s.requireAdmin).Delete("/products/{id}", s.handleDeleteProduct)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/user", func(r chi.Router) {
			r.Get("/me", s.handleGetMe)
			r.With(s.requireAdmin).Get("/", s.handleListUsers)
			r.With(s.requireAdmin).Get("/{id}", s.handleGetUser)
			r.With(s.requireAdmin).Patch("/{id}", s.handleUpdateUser)
			r.With(s.requireAdmin).Delete("/{id}", s.handleDeleteUser)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.handleGetCart)
			r.Delete("/", s.handleClearCart)
			r.Post("/checkout", s.handleCheckout)
			r.Post("/items", s.handleAddCartItem)
			r.Patch("/items/{id}", s.handleUpdateCartLine)
			r.Delete("/items/{id}", s.handleRemoveCartLine)
		})
	})

	return r
}

// mintToken builds an unsigned three-segment token. The client never
// verifies signatures, so "mock" stands in for one.
func (s *Server) mintToken(u domain.User) string {
	claims := domain.Claims{
		SubjectID: u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		ExpiresAt: s.now().Add(TokenTTL).Unix(),
	}
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, _ := json.Marshal(claims)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".mock"
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := token.Decode(auth[len(prefix):])
		if err != nil {
			s.log.Debug("rejected bearer token", zap.Error(err))
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if claims.ExpiresAt < s.now().Unix() {
			respondError(w, http.StatusUnauthorized, "token expired")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !claimsFrom(r.Context()).IsAdmin {
			respondError(w, http.StatusForbidden, "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFrom(ctx context.Context) domain.Claims {
	claims, _ := ctx.Value(claimsKey).(domain.Claims)
	return claims
}

type credentialsDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponseDTO struct {
	Token string        `json:"token"`
	User  domain.Claims `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, ok := s.store.Authenticate(req.Email, req.Password)
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.respondAuth(w, user)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	user, err := s.store.CreateUser(domain.User{Name: req.Name, Email: req.Email}, req.Password)
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	s.respondAuth(w, user)
}

func (s *Server) respondAuth(w http.ResponseWriter, user domain.User) {
	tok := s.mintToken(user)
	claims, _ := token.Decode(tok)
	respondJSON(w, http.StatusOK, authResponseDTO{Token: tok, User: claims})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.store.User(claimsFrom(r.Context()).SubjectID)
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Users())
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, found := s.store.User(id)
	if !found {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		IsAdmin *bool   `json:"isAdmin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.store.UpdateUser(id, func(u *domain.User) {
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.IsAdmin != nil {
			u.IsAdmin = *req.IsAdmin
		}
	})
	if err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteUser(id); err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type productDTO struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
}

func (d productDTO) toDomain() domain.Product {
	return domain.Product{
		Name:        d.Name,
		Brand:       d.Brand,
		Category:    d.Category,
		Price:       d.Price,
		Stock:       d.Stock,
		Description: d.Description,
		ImageURL:    d.ImageURL,
	}
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Products())
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, found := s.store.Product(id)
	if !found {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Price <= 0 {
		respondError(w, http.StatusBadRequest, "name and positive price are required")
		return
	}
	respondJSON(w, http.StatusCreated, s.store.CreateProduct(req.toDomain()))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req productDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	product, err := s.store.UpdateProduct(id, req.toDomain())
	if err != nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteProduct(id); err != nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type addItemDTO struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type updateQuantityDTO struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	lines := s.store.Cart(claimsFrom(r.Context()).SubjectID)
	// Wrapped shape, one of the three the client normalizes.
	respondJSON(w, http.StatusOK, map[string]any{"items": lines})
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	line, err := s.store.AddCartItem(claimsFrom(r.Context()).SubjectID, req.ProductID, req.Quantity)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, line)
}

func (s *Server) handleUpdateCartLine(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	line, err := s.store.UpdateCartLine(claimsFrom(r.Context()).SubjectID, chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, line)
}

func (s *Server) handleRemoveCartLine(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveCartLine(claimsFrom(r.Context()).SubjectID, chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.store.ClearCart(claimsFrom(r.Context()).SubjectID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Checkout(claimsFrom(r.Context()).SubjectID); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "purchased"})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyInCart):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrStockExceeded), errors.Is(err, ErrEmptyCart):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
