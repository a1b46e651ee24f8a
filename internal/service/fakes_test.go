package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-stockbit/internal/model"
	"go-stockbit/internal/repository"
	"go-stockbit/internal/storage"
)

// memDB is an in-memory stand-in for the relational store shared by the
// fake repositories below.
type memDB struct {
	mu        sync.Mutex
	users     map[uuid.UUID]model.User
	products  map[uuid.UUID]model.Product
	sales     []model.Sale
	suppliers map[uuid.UUID]model.Supplier
	payments  map[uuid.UUID]model.PaymentVerification
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[uuid.UUID]model.User{},
		products:  map[uuid.UUID]model.Product{},
		suppliers: map[uuid.UUID]model.Supplier{},
		payments:  map[uuid.UUID]model.PaymentVerification{},
	}
}

func assignID(b *model.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
}

// --- users ---

type fakeUserRepo struct{ db *memDB }

func (r fakeUserRepo) Create(u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	assignID(&u.BaseModel)
	r.db.users[u.ID] = *u
	return nil
}

func (r fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r fakeUserRepo) findBy(match func(model.User) bool) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	return r.findBy(func(u model.User) bool { return u.Username == username })
}

func (r fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	return r.findBy(func(u model.User) bool { return u.Email == email })
}

func (r fakeUserRepo) FindAll() ([]model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	users := make([]model.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// withEditable copies the columns the real repository writes on update.
func withEditable(stored model.User, u *model.User) model.User {
	stored.Username = u.Username
	stored.Email = u.Email
	stored.BusinessName = u.BusinessName
	stored.Phone = u.Phone
	stored.IsPremium = u.IsPremium
	stored.PremiumSince = u.PremiumSince
	stored.SubscriptionActive = u.SubscriptionActive
	stored.IsAdmin = u.IsAdmin
	return stored
}

func (r fakeUserRepo) Update(u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	r.db.users[u.ID] = withEditable(stored, u)
	return nil
}

func (r fakeUserRepo) UpdatePassword(id uuid.UUID, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	r.db.users[id] = u
	return nil
}

func (r fakeUserRepo) UpdateTokenVersion(id uuid.UUID, version string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u := r.db.users[id]
	u.TokenVersion = version
	r.db.users[id] = u
	return nil
}

func (r fakeUserRepo) adminCount() int {
	n := 0
	for _, u := range r.db.users {
		if u.IsAdmin {
			n++
		}
	}
	return n
}

func (r fakeUserRepo) CountAdmins() (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(r.adminCount()), nil
}

func (r fakeUserRepo) UpdateKeepingAdmin(u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	current, ok := r.db.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if current.IsAdmin && !u.IsAdmin && r.adminCount() <= 1 {
		return repository.ErrLastAdmin
	}
	r.db.users[u.ID] = withEditable(current, u)
	return nil
}

func (r fakeUserRepo) Delete(id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if u.IsAdmin && r.adminCount() <= 1 {
		return repository.ErrLastAdmin
	}
	delete(r.db.users, id)
	return nil
}

// --- products and sales ---

type fakeProductRepo struct{ db *memDB }

func (r fakeProductRepo) Create(p *model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	assignID(&p.BaseModel)
	r.db.products[p.ID] = *p
	return nil
}

func (r fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r fakeProductRepo) FindByUser(userID uuid.UUID) ([]model.Product, error) {
	return r.filter(func(p model.Product) bool { return p.UserID == userID })
}

func (r fakeProductRepo) FindLowStock(userID uuid.UUID) ([]model.Product, error) {
	return r.filter(func(p model.Product) bool { return p.UserID == userID && p.LowStock() })
}

func (r fakeProductRepo) filter(match func(model.Product) bool) ([]model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.Product
	for _, p := range r.db.products {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeProductRepo) Update(p *model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.products[p.ID] = *p
	return nil
}

func (r fakeProductRepo) Delete(id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.products, id)
	return nil
}

type fakeSaleRepo struct{ db *memDB }

func (r fakeSaleRepo) Record(userID, productID uuid.UUID, qty int, at time.Time) (*model.Sale, *model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[productID]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	if p.UserID != userID {
		return nil, nil, repository.ErrNotOwner
	}
	if qty > p.Quantity {
		return nil, nil, repository.ErrInsufficientStock
	}
	p.Quantity -= qty
	p.LastUpdated = at
	r.db.products[p.ID] = p

	sale := model.Sale{ProductID: p.ID, Quantity: qty, SalePrice: p.SalePrice, SaleDate: at}
	assignID(&sale.BaseModel)
	r.db.sales = append(r.db.sales, sale)
	return &sale, &p, nil
}

func (r fakeSaleRepo) FindByUser(userID uuid.UUID, limit int) ([]model.SaleView, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.SaleView
	for i := len(r.db.sales) - 1; i >= 0; i-- {
		s := r.db.sales[i]
		p := r.db.products[s.ProductID]
		if p.UserID != userID {
			continue
		}
		out = append(out, model.SaleView{
			ID: s.ID, ProductID: s.ProductID, ProductName: p.Name,
			Quantity: s.Quantity, SalePrice: s.SalePrice, SaleDate: s.SaleDate,
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// fakeReportRepo computes the aggregates from memDB the same way the SQL
// queries do.
type fakeReportRepo struct{ db *memDB }

func (r fakeReportRepo) InventoryStats(userID uuid.UUID) (*repository.InventoryStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stats := &repository.InventoryStats{InventoryValue: decimal.Zero}
	for _, p := range r.db.products {
		if p.UserID != userID {
			continue
		}
		stats.TotalProducts++
		if p.LowStock() {
			stats.LowStockCount++
		}
		stats.InventoryValue = stats.InventoryValue.Add(p.CostPrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return stats, nil
}

func (r fakeReportRepo) SalesTotals(userID uuid.UUID) (*repository.SalesTotals, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	totals := &repository.SalesTotals{Revenue: decimal.Zero}
	for _, s := range r.db.sales {
		p := r.db.products[s.ProductID]
		if p.UserID != userID {
			continue
		}
		q := decimal.NewFromInt(int64(s.Quantity))
		totals.Revenue = totals.Revenue.Add(s.SalePrice.Mul(q))
	}
	return totals, nil
}

func (r fakeReportRepo) TopProducts(userID uuid.UUID, limit int) ([]repository.TopProduct, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	byID := map[uuid.UUID]*repository.TopProduct{}
	for _, s := range r.db.sales {
		p := r.db.products[s.ProductID]
		if p.UserID != userID {
			continue
		}
		tp, ok := byID[p.ID]
		if !ok {
			tp = &repository.TopProduct{ProductID: p.ID, Name: p.Name, Revenue: decimal.Zero}
			byID[p.ID] = tp
		}
		tp.QuantitySold += int64(s.Quantity)
		tp.Revenue = tp.Revenue.Add(s.Total())
	}
	var out []repository.TopProduct
	for _, tp := range byID {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantitySold != out[j].QuantitySold {
			return out[i].QuantitySold > out[j].QuantitySold
		}
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- suppliers ---

type fakeSupplierRepo struct{ db *memDB }

func (r fakeSupplierRepo) Create(s *model.Supplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	assignID(&s.BaseModel)
	r.db.suppliers[s.ID] = *s
	return nil
}

func (r fakeSupplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.suppliers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r fakeSupplierRepo) FindByUser(userID uuid.UUID) ([]model.Supplier, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.Supplier
	for _, s := range r.db.suppliers {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r fakeSupplierRepo) Update(s *model.Supplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.suppliers[s.ID] = *s
	return nil
}

func (r fakeSupplierRepo) Delete(id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.suppliers, id)
	return nil
}

// --- payments ---

type fakePaymentRepo struct{ db *memDB }

func (r fakePaymentRepo) Create(p *model.PaymentVerification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	assignID(&p.BaseModel)
	r.db.payments[p.ID] = *p
	return nil
}

func (r fakePaymentRepo) FindByID(id uuid.UUID) (*model.PaymentVerification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r fakePaymentRepo) filter(match func(model.PaymentVerification) bool) []model.PaymentVerification {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.PaymentVerification
	for _, p := range r.db.payments {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r fakePaymentRepo) FindByUser(userID uuid.UUID) ([]model.PaymentVerification, error) {
	return r.filter(func(p model.PaymentVerification) bool { return p.UserID == userID }), nil
}

func (r fakePaymentRepo) FindLatestByUser(userID uuid.UUID) (*model.PaymentVerification, error) {
	all := r.filter(func(p model.PaymentVerification) bool { return p.UserID == userID })
	if len(all) == 0 {
		return nil, repository.ErrNotFound
	}
	return &all[0], nil
}

func (r fakePaymentRepo) FindPending() ([]model.PaymentVerification, error) {
	return r.filter(func(p model.PaymentVerification) bool { return p.Pending() }), nil
}

func (r fakePaymentRepo) FindByScreenshot(name string) (*model.PaymentVerification, error) {
	all := r.filter(func(p model.PaymentVerification) bool { return p.Screenshot == name })
	if len(all) == 0 {
		return nil, repository.ErrNotFound
	}
	return &all[0], nil
}

func (r fakePaymentRepo) review(id, reviewer uuid.UUID, at time.Time, status model.PaymentStatus) (*model.PaymentVerification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !p.Pending() {
		return nil, repository.ErrNotPending
	}
	p.Status = status
	p.ReviewedBy = &reviewer
	p.ReviewedAt = &at
	r.db.payments[id] = p
	if status == model.PaymentApproved {
		u := r.db.users[p.UserID]
		u.ActivatePremium(at)
		r.db.users[p.UserID] = u
	}
	return &p, nil
}

func (r fakePaymentRepo) Approve(id, reviewer uuid.UUID, at time.Time) (*model.PaymentVerification, error) {
	return r.review(id, reviewer, at, model.PaymentApproved)
}

func (r fakePaymentRepo) Reject(id, reviewer uuid.UUID, at time.Time) (*model.PaymentVerification, error) {
	return r.review(id, reviewer, at, model.PaymentRejected)
}

// --- files and notifications ---

type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string][]byte{}}
}

func (f *memFiles) Save(_ context.Context, name string, body io.Reader, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = data
	return nil
}

func (f *memFiles) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[name]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *memFiles) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, name)
	return nil
}

// failingPaymentRepo refuses every insert.
type failingPaymentRepo struct {
	fakePaymentRepo
	err error
}

func (r failingPaymentRepo) Create(*model.PaymentVerification) error {
	return r.err
}

type published struct {
	UserID uuid.UUID
	Type   string
	Data   interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []published
}

func (n *recordingNotifier) Publish(userID uuid.UUID, eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, published{UserID: userID, Type: eventType, Data: data})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

// seedUser stores a user with a known password.
func seedUser(db *memDB, username string, admin, premium bool) *model.User {
	u := &model.User{
		Username:           username,
		Email:              username + "@example.com",
		BusinessName:       "Shop of " + username,
		Phone:              "08012345678",
		SubscriptionActive: true,
		IsAdmin:            admin,
		IsPremium:          premium,
	}
	if err := u.SetPassword("password123"); err != nil {
		panic(err)
	}
	_ = fakeUserRepo{db}.Create(u)
	return u
}

func seedProduct(db *memDB, owner uuid.UUID, name string, qty int, cost, price string) *model.Product {
	p := &model.Product{
		UserID:       owner,
		Name:         name,
		Quantity:     qty,
		ReorderLevel: model.DefaultReorderLevel,
		CostPrice:    decimal.RequireFromString(cost),
		SalePrice:    decimal.RequireFromString(price),
		LastUpdated:  time.Now(),
	}
	_ = fakeProductRepo{db}.Create(p)
	return p
}
