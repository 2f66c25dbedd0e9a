// Package memory holds a mutex-guarded in-memory implementation of the store
// interfaces, used as the backing store in tests and local development. Each
// multi-step write runs under one lock, giving it the same all-or-nothing
// semantics the Mongo stores get from a transaction.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"avance/internal/models"
)

type productRec struct {
	p   models.Product
	seq uint64
}

type customerRec struct {
	c   models.Customer
	seq uint64
}

type orderRec struct {
	o   models.Order
	seq uint64
}

type messageRec struct {
	m   models.ContactMessage
	seq uint64
}

type Store struct {
	mu        sync.RWMutex
	seq       uint64
	products  map[primitive.ObjectID]*productRec
	customers map[primitive.ObjectID]*customerRec
	byEmail   map[string]primitive.ObjectID
	orders    map[primitive.ObjectID]*orderRec
	items     map[primitive.ObjectID][]models.OrderItem
	messages  map[primitive.ObjectID]*messageRec
}

func New() *Store {
	return &Store{
		products:  make(map[primitive.ObjectID]*productRec),
		customers: make(map[primitive.ObjectID]*customerRec),
		byEmail:   make(map[string]primitive.ObjectID),
		orders:    make(map[primitive.ObjectID]*orderRec),
		items:     make(map[primitive.ObjectID][]models.OrderItem),
		messages:  make(map[primitive.ObjectID]*messageRec),
	}
}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// --- products ---

func (s *Store) Latest(ctx context.Context, category string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*productRec, 0, len(s.products))
	for _, r := range s.products {
		if !r.p.IsActive {
			continue
		}
		if category != "" && r.p.Category != category {
			continue
		}
		recs = append(recs, r)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	out := make([]models.Product, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.p)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNoRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.products[oid]
	if !ok {
		return nil, models.ErrNoRecord
	}
	p := r.p
	return &p, nil
}

func (s *Store) Insert(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := models.ValidateProduct(p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	s.products[p.ID] = &productRec{p: *p, seq: s.nextSeq()}
	out := *p
	return &out, nil
}

func (s *Store) Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNoRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.products[oid]
	if !ok {
		return nil, models.ErrNoRecord
	}

	if upd.Name != nil {
		r.p.Name = *upd.Name
	}
	if upd.Description != nil {
		r.p.Description = *upd.Description
	}
	if upd.Price != nil {
		r.p.Price = *upd.Price
	}
	if upd.Category != nil {
		r.p.Category = *upd.Category
	}
	if upd.ImageURL != nil {
		r.p.ImageURL = *upd.ImageURL
	}
	if upd.Stock != nil {
		r.p.Stock = *upd.Stock
	}
	if upd.IsActive != nil {
		r.p.IsActive = *upd.IsActive
	}
	if upd.Rating != nil {
		r.p.Rating = *upd.Rating
	}
	if upd.ReviewCount != nil {
		r.p.ReviewCount = *upd.ReviewCount
	}
	r.p.UpdatedAt = time.Now().UTC()

	p := r.p
	return &p, nil
}

func (s *Store) Deactivate(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNoRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.products[oid]
	if !ok {
		return models.ErrNoRecord
	}
	r.p.IsActive = false
	r.p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) CountActive(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.products {
		if r.p.IsActive {
			n++
		}
	}
	return n, nil
}

// --- orders ---

func (s *Store) InsertOrder(ctx context.Context, o *models.Order, lines []models.OrderLine) (*models.OrderDetail, error) {
	if err := models.ValidateOrder(o, lines); err != nil {
		return nil, err
	}

	pids := make([]primitive.ObjectID, len(lines))
	for i, ln := range lines {
		oid, err := primitive.ObjectIDFromHex(ln.ProductID)
		if err != nil {
			ve := models.NewValidationError()
			ve.Add(fmt.Sprintf("items.%d.productId", i), "must be a valid product id")
			return nil, ve
		}
		pids[i] = oid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check every line before touching anything so a late failure cannot
	// leave a partial order behind. Quantities are summed per product first,
	// since the same product may appear on several lines.
	need := make(map[primitive.ObjectID]int, len(lines))
	for i, ln := range lines {
		need[pids[i]] += ln.Quantity
	}
	for pid, qty := range need {
		r, ok := s.products[pid]
		if !ok {
			return nil, models.ErrNoRecord
		}
		if r.p.Stock < qty {
			return nil, models.ErrInsufficientStock
		}
	}

	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = "Credit Card"
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	items := make([]models.OrderItem, 0, len(lines))
	for i, ln := range lines {
		items = append(items, models.OrderItem{
			ID:        primitive.NewObjectID(),
			OrderID:   o.ID,
			ProductID: pids[i],
			Quantity:  ln.Quantity,
			Price:     ln.Price,
		})
		r := s.products[pids[i]]
		r.p.Stock -= ln.Quantity
		r.p.UpdatedAt = now
	}

	s.orders[o.ID] = &orderRec{o: *o, seq: s.nextSeq()}
	s.items[o.ID] = items

	return s.assembleLocked(*o), nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.OrderDetail, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNoRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.orders[oid]
	if !ok {
		return nil, models.ErrNoRecord
	}
	return s.assembleLocked(r.o), nil
}

func (s *Store) AllOrders(ctx context.Context) ([]models.OrderDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(func(models.Order) bool { return true }), nil
}

func (s *Store) OrdersByCustomer(ctx context.Context, customerID string) ([]models.OrderDetail, error) {
	oid, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, models.ErrNoRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(func(o models.Order) bool {
		return o.CustomerID != nil && *o.CustomerID == oid
	}), nil
}

func (s *Store) listLocked(keep func(models.Order) bool) []models.OrderDetail {
	recs := make([]*orderRec, 0, len(s.orders))
	for _, r := range s.orders {
		if keep(r.o) {
			recs = append(recs, r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	out := make([]models.OrderDetail, 0, len(recs))
	for _, r := range recs {
		out = append(out, *s.assembleLocked(r.o))
	}
	return out
}

func (s *Store) assembleLocked(o models.Order) *models.OrderDetail {
	items := s.items[o.ID]
	detail := &models.OrderDetail{Order: o, Items: make([]models.OrderItemDetail, 0, len(items))}
	for _, it := range items {
		var snapshot *models.Product
		if r, ok := s.products[it.ProductID]; ok {
			p := r.p
			snapshot = &p
		}
		detail.Items = append(detail.Items, models.OrderItemDetail{OrderItem: it, Product: snapshot})
	}
	return detail
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if !status.Valid() {
		ve := models.NewValidationError()
		ve.Add("status", "must be a valid order status")
		return ve
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNoRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.orders[oid]
	if !ok {
		return models.ErrNoRecord
	}
	if !r.o.Status.CanTransition(status) {
		return models.ErrInvalidTransition
	}
	r.o.Status = status
	r.o.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) OrderStats(ctx context.Context) (*models.OrderStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.OrderStats{}
	for _, r := range s.orders {
		stats.TotalOrders++
		switch r.o.Status {
		case models.StatusPending:
			stats.PendingOrders++
		case models.StatusDelivered:
			stats.CompletedOrders++
		}
		if r.o.Status != models.StatusCancelled {
			stats.TotalSales += r.o.Total
		}
	}
	return stats, nil
}

func (s *Store) CountStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.orders {
		if r.o.Status == models.StatusPending && r.o.CreatedAt.Before(olderThan) {
			n++
		}
	}
	return n, nil
}

// --- customers ---

func (s *Store) InsertCustomer(ctx context.Context, c *models.Customer, password string) (*models.Customer, error) {
	if err := models.ValidateCustomer(c, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[c.Email]; exists {
		return nil, models.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.PasswordHash = string(hash)
	c.CreatedAt = now
	c.UpdatedAt = now

	s.customers[c.ID] = &customerRec{c: *c, seq: s.nextSeq()}
	s.byEmail[c.Email] = c.ID

	out := *c
	return &out, nil
}

func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.Customer, error) {
	s.mu.RLock()
	id, ok := s.byEmail[email]
	var rec customerRec
	if ok {
		rec = *s.customers[id]
	}
	s.mu.RUnlock()

	if !ok {
		return nil, models.ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(rec.c.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	c := rec.c
	return &c, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNoRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.customers[oid]
	if !ok {
		return nil, models.ErrNoRecord
	}
	c := r.c
	return &c, nil
}

func (s *Store) AllCustomers(ctx context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*customerRec, 0, len(s.customers))
	for _, r := range s.customers {
		recs = append(recs, r)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	out := make([]models.Customer, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.c)
	}
	return out, nil
}

func (s *Store) CountCustomers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.customers)), nil
}

// --- contact messages ---

func (s *Store) InsertMessage(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error) {
	if err := models.ValidateContactMessage(m); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = primitive.NewObjectID()
	if m.Subject == "" {
		m.Subject = "Contact Form Message"
	}
	m.IsRead = false
	m.CreatedAt = time.Now().UTC()

	s.messages[m.ID] = &messageRec{m: *m, seq: s.nextSeq()}
	out := *m
	return &out, nil
}

func (s *Store) AllMessages(ctx context.Context) ([]models.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*messageRec, 0, len(s.messages))
	for _, r := range s.messages {
		recs = append(recs, r)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	out := make([]models.ContactMessage, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.m)
	}
	return out, nil
}

func (s *Store) MarkMessageRead(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNoRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.messages[oid]
	if !ok {
		return models.ErrNoRecord
	}
	r.m.IsRead = true
	return nil
}

// --- interface views ---

// Products returns the store as a models.ProductStore.
func (s *Store) Products() models.ProductStore { return productStore{s} }

// Orders returns the store as a models.OrderStore.
func (s *Store) Orders() models.OrderStore { return orderStore{s} }

// Customers returns the store as a models.CustomerStore.
func (s *Store) Customers() models.CustomerStore { return customerStore{s} }

// Contacts returns the store as a models.ContactStore.
func (s *Store) Contacts() models.ContactStore { return contactStore{s} }

type productStore struct{ s *Store }

func (v productStore) Latest(ctx context.Context, category string) ([]models.Product, error) {
	return v.s.Latest(ctx, category)
}

func (v productStore) Get(ctx context.Context, id string) (*models.Product, error) {
	return v.s.Get(ctx, id)
}

func (v productStore) Insert(ctx context.Context, p *models.Product) (*models.Product, error) {
	return v.s.Insert(ctx, p)
}

func (v productStore) Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	return v.s.Update(ctx, id, upd)
}

func (v productStore) Deactivate(ctx context.Context, id string) error {
	return v.s.Deactivate(ctx, id)
}

func (v productStore) CountActive(ctx context.Context) (int64, error) {
	return v.s.CountActive(ctx)
}

type orderStore struct{ s *Store }

func (v orderStore) Insert(ctx context.Context, o *models.Order, lines []models.OrderLine) (*models.OrderDetail, error) {
	return v.s.InsertOrder(ctx, o, lines)
}

func (v orderStore) Get(ctx context.Context, id string) (*models.OrderDetail, error) {
	return v.s.GetOrder(ctx, id)
}

func (v orderStore) All(ctx context.Context) ([]models.OrderDetail, error) {
	return v.s.AllOrders(ctx)
}

func (v orderStore) ByCustomer(ctx context.Context, customerID string) ([]models.OrderDetail, error) {
	return v.s.OrdersByCustomer(ctx, customerID)
}

func (v orderStore) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return v.s.UpdateOrderStatus(ctx, id, status)
}

func (v orderStore) Stats(ctx context.Context) (*models.OrderStats, error) {
	return v.s.OrderStats(ctx)
}

func (v orderStore) CountStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	return v.s.CountStalePending(ctx, olderThan)
}

type customerStore struct{ s *Store }

func (v customerStore) Insert(ctx context.Context, c *models.Customer, password string) (*models.Customer, error) {
	return v.s.InsertCustomer(ctx, c, password)
}

func (v customerStore) Authenticate(ctx context.Context, email, password string) (*models.Customer, error) {
	return v.s.Authenticate(ctx, email, password)
}

func (v customerStore) Get(ctx context.Context, id string) (*models.Customer, error) {
	return v.s.GetCustomer(ctx, id)
}

func (v customerStore) All(ctx context.Context) ([]models.Customer, error) {
	return v.s.AllCustomers(ctx)
}

func (v customerStore) Count(ctx context.Context) (int64, error) {
	return v.s.CountCustomers(ctx)
}

type contactStore struct{ s *Store }

func (v contactStore) Insert(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error) {
	return v.s.InsertMessage(ctx, m)
}

func (v contactStore) All(ctx context.Context) ([]models.ContactMessage, error) {
	return v.s.AllMessages(ctx)
}

func (v contactStore) MarkRead(ctx context.Context, id string) error {
	return v.s.MarkMessageRead(ctx, id)
}
