// Package memstore implementa los puertos de repositorio en memoria para pruebas de
// casos de uso. Run reproduce la semántica transaccional: si fn falla, el estado
// vuelve al snapshot previo.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository     = (*Store)(nil)
	_ repository.MovementRepository = (*Store)(nil)
)

// Store guarda artículos y movimientos en memoria.
type Store struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	items     map[int64]*entity.Item
	inbound   []*entity.InboundRecord
	outbound  []*entity.OutboundRecord
	nextID    int64
	nextMovID int64

	// FailOn hace fallar la operación con ese nombre (p. ej. "UpsertByCode").
	FailOn  string
	FailErr error
}

// New crea un Store vacío.
func New() *Store {
	return &Store{items: make(map[int64]*entity.Item)}
}

func (s *Store) fail(op string) error {
	if s.FailOn == op {
		return s.FailErr
	}
	return nil
}

// Run ejecuta fn de forma serializada; revierte el estado si fn devuelve error.
func (s *Store) Run(ctx context.Context, fn func(items repository.ItemRepository, movements repository.MovementRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(s, s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	items     map[int64]entity.Item
	inbound   []*entity.InboundRecord
	outbound  []*entity.OutboundRecord
	nextID    int64
	nextMovID int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make(map[int64]entity.Item, len(s.items))
	for id, it := range s.items {
		items[id] = *it
	}
	return snapshot{
		items:     items,
		inbound:   append([]*entity.InboundRecord(nil), s.inbound...),
		outbound:  append([]*entity.OutboundRecord(nil), s.outbound...),
		nextID:    s.nextID,
		nextMovID: s.nextMovID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[int64]*entity.Item, len(snap.items))
	for id, it := range snap.items {
		cp := it
		s.items[id] = &cp
	}
	s.inbound = snap.inbound
	s.outbound = snap.outbound
	s.nextID = snap.nextID
	s.nextMovID = snap.nextMovID
}

// Items devuelve una copia de todos los artículos ordenados por id.
func (s *Store) Items() []entity.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Seed inserta un artículo tal cual (asigna ID si falta).
func (s *Store) Seed(it entity.Item) *entity.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	if it.ID == 0 {
		it.ID = s.nextID
	}
	now := time.Now()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	if it.UpdatedAt.IsZero() {
		it.UpdatedAt = now
	}
	cp := it
	s.items[it.ID] = &cp
	return &it
}

func (s *Store) Create(_ context.Context, item *entity.Item) error {
	if err := s.fail("Create"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ItemCode == item.ItemCode {
			return domain.ErrDuplicate
		}
	}
	s.nextID++
	item.ID = s.nextID
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) GetForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	return s.GetByID(ctx, id)
}

func (s *Store) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ItemCode == code {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) NameTakenByOtherCode(_ context.Context, name, code string) (bool, error) {
	if err := s.fail("NameTakenByOtherCode"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ItemName == name && it.ItemCode != code {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Update(_ context.Context, item *entity.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	item.UpdatedAt = time.Now()
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	in := s.inbound[:0]
	for _, r := range s.inbound {
		if r.ItemID != id {
			in = append(in, r)
		}
	}
	s.inbound = in
	out := s.outbound[:0]
	for _, r := range s.outbound {
		if r.ItemID != id {
			out = append(out, r)
		}
	}
	s.outbound = out
	return true, nil
}

func (s *Store) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*entity.Item
	for _, it := range s.items {
		if f.Search != "" && !containsFold(it.ItemCode, f.Search) && !containsFold(it.ItemName, f.Search) {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Unit != "" && it.Unit != f.Unit {
			continue
		}
		if f.LowStockOnly && !it.IsLowStock() {
			continue
		}
		cp := *it
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	return page(all, f.Limit, f.Offset), total, nil
}

func (s *Store) ListAll(ctx context.Context) ([]*entity.Item, error) {
	list, _, err := s.List(ctx, repository.ItemFilter{})
	return list, err
}

func (s *Store) UpsertByCode(_ context.Context, item *entity.Item) (bool, error) {
	if err := s.fail("UpsertByCode"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, it := range s.items {
		if it.ItemCode == item.ItemCode {
			item.ID = id
			item.CreatedAt = it.CreatedAt
			item.UpdatedAt = now
			cp := *item
			s.items[id] = &cp
			return false, nil
		}
	}
	s.nextID++
	item.ID = s.nextID
	item.CreatedAt, item.UpdatedAt = now, now
	cp := *item
	s.items[item.ID] = &cp
	return true, nil
}

func (s *Store) AdjustStock(_ context.Context, id int64, delta int) (*entity.Item, error) {
	if err := s.fail("AdjustStock"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	it.CurrentStock += delta
	it.UpdatedAt = time.Now()
	cp := *it
	return &cp, nil
}

func (s *Store) SetCurrentStock(_ context.Context, id int64, stock int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.CurrentStock = stock
	return nil
}

func (s *Store) Statistics(_ context.Context) (*repository.ItemStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &repository.ItemStatistics{AverageStock: decimal.Zero}
	for _, it := range s.items {
		st.TotalItems++
		st.TotalStock += int64(it.CurrentStock)
		if it.IsLowStock() {
			st.LowStockCount++
		}
	}
	st.NormalStockCount = st.TotalItems - st.LowStockCount
	if st.TotalItems > 0 {
		st.AverageStock = decimal.NewFromInt(st.TotalStock).Div(decimal.NewFromInt(int64(st.TotalItems))).Round(2)
	}
	return st, nil
}

func (s *Store) CreateInbound(_ context.Context, rec *entity.InboundRecord) error {
	if err := s.fail("CreateInbound"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMovID++
	rec.ID = s.nextMovID
	rec.CreatedAt = time.Now()
	cp := *rec
	s.inbound = append(s.inbound, &cp)
	return nil
}

func (s *Store) CreateOutbound(_ context.Context, rec *entity.OutboundRecord) error {
	if err := s.fail("CreateOutbound"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMovID++
	rec.ID = s.nextMovID
	rec.CreatedAt = time.Now()
	cp := *rec
	s.outbound = append(s.outbound, &cp)
	return nil
}

func (s *Store) ListInbound(_ context.Context, f repository.MovementFilter) ([]*entity.InboundRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*entity.InboundRecord
	for i := len(s.inbound) - 1; i >= 0; i-- {
		r := s.inbound[i]
		if f.ItemID != 0 && r.ItemID != f.ItemID {
			continue
		}
		if f.Search != "" && !containsFold(r.ItemName, f.Search) && !containsFold(r.Supplier, f.Search) && !containsFold(r.OperatorName, f.Search) {
			continue
		}
		cp := *r
		all = append(all, &cp)
	}
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (s *Store) ListOutbound(_ context.Context, f repository.MovementFilter) ([]*entity.OutboundRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*entity.OutboundRecord
	for i := len(s.outbound) - 1; i >= 0; i-- {
		r := s.outbound[i]
		if f.ItemID != 0 && r.ItemID != f.ItemID {
			continue
		}
		if f.Search != "" && !containsFold(r.ItemName, f.Search) && !containsFold(r.Receiver, f.Search) {
			continue
		}
		cp := *r
		all = append(all, &cp)
	}
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (s *Store) Balance(_ context.Context, itemID int64) (*entity.LedgerBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok {
		return nil, nil
	}
	b := &entity.LedgerBalance{ItemID: itemID, InitialStock: it.InitialStock, CurrentStock: it.CurrentStock}
	for _, r := range s.inbound {
		if r.ItemID == itemID {
			b.InboundTotal += r.Quantity
		}
	}
	for _, r := range s.outbound {
		if r.ItemID == itemID {
			b.OutboundTotal += r.Quantity
		}
	}
	return b, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
