// Package mockstore is an in-memory storefront backend speaking the
// same REST contract as the production API. It backs integration tests
// and local development; nothing here is the client's source of truth.
package mockstore

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyInCart = errors.New("product already in cart")
	ErrStockExceeded = errors.New("quantity exceeds stock")
	ErrEmptyCart     = errors.New("cart is empty")
)

type account struct {
	user     domain.User
	password string
}

// MemoryStore holds products, users and per-user carts behind one lock.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	accounts map[int64]*account
	carts    map[int64][]domain.CartLine
	nextID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]domain.Product),
		accounts: make(map[int64]*account),
		carts:    make(map[int64][]domain.CartLine),
		nextID:   1,
	}
}

// SeedProducts loads the catalog, assigning IDs where missing.
func (s *MemoryStore) SeedProducts(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		if p.ID == 0 {
			p.ID = s.nextID
		}
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.products[p.ID] = p
	}
}

// SeedUser registers an account with a password, assigning an ID where
// missing.
func (s *MemoryStore) SeedUser(u domain.User, password string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID
	}
	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
	s.accounts[u.ID] = &account{user: u, password: password}
	return u
}

func (s *MemoryStore) Authenticate(email, password string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.user.Email == email && a.password == password {
			return a.user, true
		}
	}
	return domain.User{}, false
}

func (s *MemoryStore) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) Product(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *MemoryStore) CreateProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.products[p.ID] = p
	return p
}

func (s *MemoryStore) UpdateProduct(id int64, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.Product{}, ErrNotFound
	}
	p.ID = id
	s.products[id] = p
	return p, nil
}

func (s *MemoryStore) DeleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) User(id int64) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.User{}, false
	}
	return a.user, true
}

func (s *MemoryStore) CreateUser(u domain.User, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == u.Email {
			return domain.User{}, errors.New("email already registered")
		}
	}
	u.ID = s.nextID
	s.nextID++
	s.accounts[u.ID] = &account{user: u, password: password}
	return u, nil
}

func (s *MemoryStore) UpdateUser(id int64, mutate func(*domain.User)) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	mutate(&a.user)
	return a.user, nil
}

func (s *MemoryStore) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(s.accounts, id)
	delete(s.carts, id)
	return nil
}

func (s *MemoryStore) Cart(userID int64) []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := s.carts[userID]
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}

// AddCartItem appends a new line. One line per product: adding the same
// product twice conflicts instead of merging quantities.
func (s *MemoryStore) AddCartItem(userID, productID int64, quantity int) (domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[productID]
	if !ok {
		return domain.CartLine{}, ErrNotFound
	}
	for _, l := range s.carts[userID] {
		if l.ProductID == productID {
			return domain.CartLine{}, ErrAlreadyInCart
		}
	}
	if quantity < 1 || quantity > product.Stock {
		return domain.CartLine{}, ErrStockExceeded
	}
	line := domain.CartLine{
		ID:        uuid.NewString(),
		ProductID: productID,
		Quantity:  quantity,
		Product:   product,
	}
	s.carts[userID] = append(s.carts[userID], line)
	return line, nil
}

func (s *MemoryStore) UpdateCartLine(userID int64, lineID string, quantity int) (domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[userID]
	for i := range lines {
		if lines[i].ID != lineID {
			continue
		}
		if quantity < 1 || quantity > lines[i].Product.Stock {
			return domain.CartLine{}, ErrStockExceeded
		}
		lines[i].Quantity = quantity
		return lines[i], nil
	}
	return domain.CartLine{}, ErrNotFound
}

func (s *MemoryStore) RemoveCartLine(userID int64, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[userID]
	for i := range lines {
		if lines[i].ID == lineID {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) ClearCart(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// Checkout commits the cart: every line must still fit its product's
// stock, stock decrements, and the cart empties.
func (s *MemoryStore) Checkout(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[userID]
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for _, l := range lines {
		product, ok := s.products[l.ProductID]
		if !ok || l.Quantity > product.Stock {
			return ErrStockExceeded
		}
	}
	for _, l := range lines {
		product := s.products[l.ProductID]
		product.Stock -= l.Quantity
		s.products[l.ProductID] = product
	}
	delete(s.carts, userID)
	return nil
}
