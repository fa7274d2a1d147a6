package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ThatoMphasane/thato/internal/dto"
	"github.com/ThatoMphasane/thato/internal/localstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves the subset of the REST surface the state manager talks
// to, with adjustable failure injection and a request counter per route.
type fakeBackend struct {
	mu       sync.Mutex
	products []dto.ProductResponse
	users    []dto.UserResponse

	failAdjust bool
	hits       map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products: []dto.ProductResponse{
			{ID: 1, Name: "Tea", Price: decimal.RequireFromString("10.50"), Quantity: 5, Category: "Beverages", Description: "Black tea"},
		},
		users: []dto.UserResponse{{ID: 1, Username: "Thato"}},
		hits:  make(map[string]int),
	}
}

func (b *fakeBackend) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		b.count(r.Method + " /api/products")
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewEncoder(w).Encode(b.products)
	})
	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		b.count(r.Method + " /api/users")
		b.mu.Lock()
		defer b.mu.Unlock()
		if r.Method == http.MethodPost {
			var req dto.CreateUserRequest
			json.NewDecoder(r.Body).Decode(&req)
			for _, u := range b.users {
				if u.Username == req.Username {
					w.WriteHeader(http.StatusBadRequest)
					json.NewEncoder(w).Encode(map[string]string{"detail": "Username already exists"})
					return
				}
			}
			b.users = append(b.users, dto.UserResponse{ID: uint(len(b.users) + 1), Username: req.Username})
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"message": "User added successfully"})
			return
		}
		json.NewEncoder(w).Encode(b.users)
	})
	mux.HandleFunc("/api/products/1", func(w http.ResponseWriter, r *http.Request) {
		b.count(r.Method + " /api/products/1")
		b.mu.Lock()
		defer b.mu.Unlock()
		var req dto.UpdateProductRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.IsQuantityOnly() {
			b.products[0].Quantity = *req.Quantity
			json.NewEncoder(w).Encode(dto.QuantityUpdateResponse{ID: b.products[0].ID, NewQuantity: *req.Quantity})
			return
		}
		if req.Name != nil {
			b.products[0].Name = *req.Name
		}
		if req.Price != nil {
			b.products[0].Price = *req.Price
		}
		if req.Quantity != nil {
			b.products[0].Quantity = *req.Quantity
		}
		if req.Category != nil {
			b.products[0].Category = *req.Category
		}
		if req.Description != nil {
			b.products[0].Description = *req.Description
		}
		json.NewEncoder(w).Encode(b.products[0])
	})
	mux.HandleFunc("/api/products/1/stock", func(w http.ResponseWriter, r *http.Request) {
		b.count("PATCH /api/products/1/stock")
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failAdjust {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Insufficient stock"})
			return
		}
		var req dto.AdjustStockRequest
		json.NewDecoder(r.Body).Decode(&req)
		delta := req.Quantity
		if req.Type == "sale" {
			delta = -req.Quantity
		}
		b.products[0].Quantity += delta
		json.NewEncoder(w).Encode(b.products[0])
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.count("POST /api/auth/login")
		var req dto.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "pass1234" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(dto.LoginResponse{
			Token: "test-token", TokenType: "bearer", ExpiresIn: 3600,
			User: dto.UserResponse{ID: 1, Username: req.Username},
		})
	})
	return httptest.NewServer(mux)
}

func (b *fakeBackend) count(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits[route]++
}

func (b *fakeBackend) hitCount(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

func newTestState(t *testing.T, backend *fakeBackend) (*State, *localstore.Store) {
	t.Helper()
	srv := backend.server()
	t.Cleanup(srv.Close)

	store, err := localstore.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	st := NewState(New(srv.URL), store)
	require.NoError(t, st.Load(context.Background()))
	return st, store
}

// ── Tests: load ──────────────────────────────────────────────────────────────

func TestLoad_MirrorsServerState(t *testing.T) {
	st, store := newTestState(t, newFakeBackend())

	assert.Len(t, st.Products(), 1)
	assert.Equal(t, "Tea", st.Products()[0].Name)
	assert.Len(t, st.Users(), 1)

	// The local store now carries the mirrored lists.
	var mirrored []dto.ProductResponse
	found, err := store.GetJSON(localstore.KeyProducts, &mirrored)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, mirrored, 1)
}

// ── Tests: sell / restock ────────────────────────────────────────────────────

func TestSell_UpdatesMirrorAndRecordsTransaction(t *testing.T) {
	backend := newFakeBackend()
	st, store := newTestState(t, backend)

	require.NoError(t, st.Sell(context.Background(), 1, 2))

	p, ok := st.Product(1)
	require.True(t, ok)
	assert.Equal(t, 3, p.Quantity)

	txns := st.Transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, "sale", txns[0].Type)
	assert.Equal(t, "Tea", txns[0].Product)
	assert.Equal(t, 2, txns[0].Quantity)
	assert.NotEmpty(t, txns[0].Date)

	// The transaction survived to the store as well.
	var persisted []Transaction
	found, err := store.GetJSON(localstore.KeyTransactions, &persisted)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, persisted, 1)
}

func TestSell_Overdraw_RejectedWithoutNetworkCall(t *testing.T) {
	backend := newFakeBackend()
	st, _ := newTestState(t, backend)
	before := backend.hitCount("PATCH /api/products/1/stock")

	err := st.Sell(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// Local validation short-circuits: the stock route was never called.
	assert.Equal(t, before, backend.hitCount("PATCH /api/products/1/stock"))

	p, _ := st.Product(1)
	assert.Equal(t, 5, p.Quantity)
	assert.Empty(t, st.Transactions())
}

func TestSell_ZeroQuantity_Rejected(t *testing.T) {
	st, _ := newTestState(t, newFakeBackend())

	assert.ErrorIs(t, st.Sell(context.Background(), 1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, st.AddStock(context.Background(), 1, -3), ErrInvalidQuantity)
}

func TestSell_UnknownProduct(t *testing.T) {
	st, _ := newTestState(t, newFakeBackend())

	assert.ErrorIs(t, st.Sell(context.Background(), 42, 1), ErrUnknownProduct)
}

func TestSell_ServerRejection_RollsBack(t *testing.T) {
	backend := newFakeBackend()
	st, _ := newTestState(t, backend)

	// Local state says 5 units, so a sale of 4 passes local validation.
	// The server then rejects it, and the optimistic change must unwind.
	backend.failAdjust = true
	err := st.Sell(context.Background(), 1, 4)
	require.Error(t, err)

	p, _ := st.Product(1)
	assert.Equal(t, 5, p.Quantity)
	assert.Empty(t, st.Transactions())
}

func TestAddStock_AppliesServerAnswer(t *testing.T) {
	st, _ := newTestState(t, newFakeBackend())

	require.NoError(t, st.AddStock(context.Background(), 1, 10))

	p, _ := st.Product(1)
	assert.Equal(t, 15, p.Quantity)

	txns := st.Transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, "add-stock", txns[0].Type)
}

// ── Tests: product edits ─────────────────────────────────────────────────────

func TestSetQuantity_AppliesServerAnswer(t *testing.T) {
	st, store := newTestState(t, newFakeBackend())

	require.NoError(t, st.SetQuantity(context.Background(), 1, 15))

	p, ok := st.Product(1)
	require.True(t, ok)
	assert.Equal(t, 15, p.Quantity)

	// An absolute set is not a sale or restock, so no transaction appears.
	assert.Empty(t, st.Transactions())

	var mirrored []dto.ProductResponse
	found, err := store.GetJSON(localstore.KeyProducts, &mirrored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 15, mirrored[0].Quantity)
}

func TestUpdateProduct_RefreshesMirror(t *testing.T) {
	st, store := newTestState(t, newFakeBackend())

	name := "Green Tea"
	price := decimal.RequireFromString("12.00")
	qty := 8
	category := "Beverages"
	description := "Loose leaf"
	updated, err := st.UpdateProduct(context.Background(), 1, dto.UpdateProductRequest{
		Name: &name, Price: &price, Quantity: &qty,
		Category: &category, Description: &description,
	})
	require.NoError(t, err)
	assert.Equal(t, "Green Tea", updated.Name)

	p, ok := st.Product(1)
	require.True(t, ok)
	assert.Equal(t, "Green Tea", p.Name)
	assert.True(t, p.Price.Equal(price))
	assert.Equal(t, 8, p.Quantity)

	var mirrored []dto.ProductResponse
	found, err := store.GetJSON(localstore.KeyProducts, &mirrored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Green Tea", mirrored[0].Name)
}

// ── Tests: session ───────────────────────────────────────────────────────────

func TestLogin_SetsSessionAndPersistsToken(t *testing.T) {
	st, store := newTestState(t, newFakeBackend())

	require.NoError(t, st.Login(context.Background(), "Thato", "pass1234"))
	assert.True(t, st.Authenticated())
	assert.Equal(t, "Thato", st.CurrentUser())

	tok, err := store.GetString(localstore.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "test-token", tok)
}

func TestLogin_BadPassword(t *testing.T) {
	st, _ := newTestState(t, newFakeBackend())

	err := st.Login(context.Background(), "Thato", "nope")
	require.Error(t, err)
	assert.False(t, st.Authenticated())
}

func TestLogout_ClearsSession(t *testing.T) {
	st, store := newTestState(t, newFakeBackend())
	require.NoError(t, st.Login(context.Background(), "Thato", "pass1234"))

	st.Logout()
	assert.False(t, st.Authenticated())

	user, err := store.GetString(localstore.KeyCurrentUser)
	require.NoError(t, err)
	assert.Empty(t, user)
}

// ── Tests: signup ────────────────────────────────────────────────────────────

func TestSignup_LocalDuplicate_FastPath(t *testing.T) {
	backend := newFakeBackend()
	st, _ := newTestState(t, backend)
	before := backend.hitCount("POST /api/users")

	err := st.Signup(context.Background(), "Thato", "pass1234")
	require.Error(t, err)
	assert.Equal(t, before, backend.hitCount("POST /api/users"))
}

func TestSignup_Success_RefreshesUsers(t *testing.T) {
	st, _ := newTestState(t, newFakeBackend())

	require.NoError(t, st.Signup(context.Background(), "Lerato", "pass1234"))
	assert.Len(t, st.Users(), 2)
}

// ── Tests: dashboard helpers ─────────────────────────────────────────────────

func TestDashboardHelpers(t *testing.T) {
	backend := newFakeBackend()
	backend.products = append(backend.products, dto.ProductResponse{
		ID: 2, Name: "Scone", Price: decimal.RequireFromString("5.00"), Quantity: 20, Category: "Food", Description: "Plain scone",
	})
	st, _ := newTestState(t, backend)

	assert.Equal(t, []string{"Beverages", "Food"}, st.Categories())

	// 5 * 10.50 + 20 * 5.00
	assert.True(t, st.InventoryValue("").Equal(decimal.RequireFromString("152.50")))
	assert.True(t, st.InventoryValue("Food").Equal(decimal.RequireFromString("100.00")))

	low := st.LowStock(DefaultLowStockThreshold)
	require.Len(t, low, 1)
	assert.Equal(t, "Tea", low[0].Name)
}
