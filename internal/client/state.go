package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ThatoMphasane/thato/internal/dto"
	"github.com/ThatoMphasane/thato/internal/localstore"

	"github.com/rs/zerolog/log"
)

// Transaction is a client-recorded sale or restock event. It lives only in
// the local store and is never sent to the server as an entity.
type Transaction struct {
	Type     string `json:"type"` // "sale" | "add-stock"
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Date     string `json:"date"`
}

// Errors raised by local validation before any network request is issued.
var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrUnknownProduct  = errors.New("unknown product")
)

// State mirrors server-side products and users, applies sell/restock
// mutations optimistically, and persists denormalized copies to the local
// store. A failed server update rolls the optimistic change back, so memory
// and store never drift permanently from the server.
type State struct {
	mu sync.Mutex

	api   *Client
	store *localstore.Store

	products     []dto.ProductResponse
	users        []dto.UserResponse
	transactions []Transaction
	currentUser  string
}

func NewState(api *Client, store *localstore.Store) *State {
	return &State{api: api, store: store}
}

// Load pulls fresh users and products from the server and rewrites the local
// mirrors. The persisted copies are a cache only; they are never promoted to
// ground truth here. Only transactions and the session survive a restart.
func (s *State) Load(ctx context.Context) error {
	if token, err := s.store.GetString(localstore.KeyToken); err == nil && token != "" {
		s.api.SetToken(token)
	}

	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = users
	s.products = products

	if _, err := s.store.GetJSON(localstore.KeyTransactions, &s.transactions); err != nil {
		log.Warn().Err(err).Msg("transaction history unreadable — starting empty")
		s.transactions = nil
	}
	if s.currentUser == "" {
		user, err := s.store.GetString(localstore.KeyCurrentUser)
		if err == nil && user != "" {
			s.currentUser = user
		}
	}

	s.persistLocked()
	return nil
}

// ── Accessors ────────────────────────────────────────────────────────────────

func (s *State) Products() []dto.ProductResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.ProductResponse, len(s.products))
	copy(out, s.products)
	return out
}

func (s *State) Users() []dto.UserResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.UserResponse, len(s.users))
	copy(out, s.users)
	return out
}

func (s *State) Transactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

func (s *State) CurrentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUser
}

func (s *State) Authenticated() bool { return s.CurrentUser() != "" }

// API exposes the underlying HTTP client for calls that bypass the mirror,
// such as the report download.
func (s *State) API() *Client { return s.api }

// Product looks a product up by its stable id.
func (s *State) Product(id uint) (dto.ProductResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return dto.ProductResponse{}, false
	}
	return s.products[i], true
}

// ── Stock mutations (optimistic with rollback) ───────────────────────────────

// Sell validates 0 < qty <= current stock locally — an invalid quantity never
// reaches the network — then decrements optimistically, records a "sale"
// transaction, and confirms with the server. A rejected update restores both
// the quantity and the transaction list.
func (s *State) Sell(ctx context.Context, productID uint, qty int) error {
	return s.adjust(ctx, productID, qty, "sale")
}

// AddStock is the restock counterpart: qty must be positive.
func (s *State) AddStock(ctx context.Context, productID uint, qty int) error {
	return s.adjust(ctx, productID, qty, "restock")
}

func (s *State) adjust(ctx context.Context, productID uint, qty int, movementType string) error {
	s.mu.Lock()
	i := s.indexOfLocked(productID)
	if i < 0 {
		s.mu.Unlock()
		return ErrUnknownProduct
	}
	if qty <= 0 || (movementType == "sale" && qty > s.products[i].Quantity) {
		s.mu.Unlock()
		return ErrInvalidQuantity
	}

	// Optimistic local apply
	delta := qty
	txnType := "add-stock"
	if movementType == "sale" {
		delta = -qty
		txnType = "sale"
	}
	s.products[i].Quantity += delta
	txn := Transaction{
		Type:     txnType,
		Product:  s.products[i].Name,
		Quantity: qty,
		Date:     time.Now().Format("1/2/2006, 3:04:05 PM"),
	}
	s.transactions = append(s.transactions, txn)
	s.persistLocked()
	s.mu.Unlock()

	updated, err := s.api.AdjustStock(ctx, productID, movementType, qty)

	s.mu.Lock()
	defer s.mu.Unlock()
	i = s.indexOfLocked(productID)
	if err != nil {
		// Roll back the optimistic decrement and the transaction record.
		if i >= 0 {
			s.products[i].Quantity -= delta
		}
		if n := len(s.transactions); n > 0 && s.transactions[n-1] == txn {
			s.transactions = s.transactions[:n-1]
		}
		s.persistLocked()
		return err
	}
	if i >= 0 {
		// Server answer wins: another client may have moved the stock too.
		s.products[i] = *updated
	}
	s.persistLocked()
	return nil
}

// ── Product CRUD (server-confirmed, id-addressed) ────────────────────────────

func (s *State) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	created, err := s.api.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, *created)
	s.persistLocked()
	return created, nil
}

func (s *State) UpdateProduct(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	updated, err := s.api.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfLocked(id); i >= 0 {
		s.products[i] = *updated
	}
	s.persistLocked()
	return updated, nil
}

// SetQuantity writes an absolute stock level through the legacy
// quantity-only PUT body and applies the server's answer to the mirror.
func (s *State) SetQuantity(ctx context.Context, id uint, quantity int) error {
	resp, err := s.api.SetQuantity(ctx, id, quantity)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfLocked(id); i >= 0 {
		s.products[i].Quantity = resp.NewQuantity
	}
	s.persistLocked()
	return nil
}

func (s *State) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfLocked(id); i >= 0 {
		s.products = append(s.products[:i], s.products[i+1:]...)
	}
	s.persistLocked()
	return nil
}

// ── Users / session ──────────────────────────────────────────────────────────

// Signup pre-checks the local cache as a fast path; the store's unique index
// remains authoritative, so a concurrent duplicate still fails server-side.
func (s *State) Signup(ctx context.Context, username, password string) error {
	s.mu.Lock()
	for _, u := range s.users {
		if u.Username == username {
			s.mu.Unlock()
			return errors.New("username already exists, choose another")
		}
	}
	s.mu.Unlock()

	if err := s.api.CreateUser(ctx, username, password); err != nil {
		return err
	}

	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.persistLocked()
	return nil
}

// Login authenticates against the server endpoint. Success stores the
// session; failure leaves the state unauthenticated.
func (s *State) Login(ctx context.Context, username, password string) error {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	s.api.SetToken(resp.Token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser = resp.User.Username
	if err := s.store.PutString(localstore.KeyCurrentUser, s.currentUser); err != nil {
		log.Warn().Err(err).Msg("session persist failed")
	}
	if err := s.store.PutString(localstore.KeyToken, resp.Token); err != nil {
		log.Warn().Err(err).Msg("token persist failed")
	}
	return nil
}

// SwitchUser re-authenticates as another account.
func (s *State) SwitchUser(ctx context.Context, username, password string) error {
	return s.Login(ctx, username, password)
}

func (s *State) Logout() {
	s.api.SetToken("")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser = ""
	if err := s.store.Delete(localstore.KeyCurrentUser); err != nil {
		log.Warn().Err(err).Msg("session clear failed")
	}
	if err := s.store.Delete(localstore.KeyToken); err != nil {
		log.Warn().Err(err).Msg("token clear failed")
	}
}

func (s *State) UpdateUser(ctx context.Context, id uint, username, password string) error {
	updated, err := s.api.UpdateUser(ctx, id, username, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i] = *updated
			break
		}
	}
	s.persistLocked()
	return nil
}

func (s *State) DeleteUser(ctx context.Context, id uint) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			break
		}
	}
	s.persistLocked()
	return nil
}

// ── Internal ─────────────────────────────────────────────────────────────────

func (s *State) indexOfLocked(id uint) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked mirrors the in-memory lists to the local store. Callers hold
// the mutex. Persistence failures are logged, not fatal: the store is a cache.
func (s *State) persistLocked() {
	if err := s.store.PutJSON(localstore.KeyProducts, s.products); err != nil {
		log.Warn().Err(err).Msg("products persist failed")
	}
	if err := s.store.PutJSON(localstore.KeyUsers, s.users); err != nil {
		log.Warn().Err(err).Msg("users persist failed")
	}
	if err := s.store.PutJSON(localstore.KeyTransactions, s.transactions); err != nil {
		log.Warn().Err(err).Msg("transactions persist failed")
	}
}
