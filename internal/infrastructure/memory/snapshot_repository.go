// Package memory adaptadores en memoria de los puertos de persistencia. Se usan en tests y con
// APP_ENV=demo. Todos devuelven copias para que el llamador no comparta estado con el almacén.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo almacén de snapshots en memoria.
type SnapshotRepo struct {
	mu    sync.RWMutex
	byID  map[string]entity.InventorySnapshot
	order []string
}

// NewSnapshotRepository construye el almacén vacío.
func NewSnapshotRepository() *SnapshotRepo {
	return &SnapshotRepo{byID: make(map[string]entity.InventorySnapshot)}
}

// Create guarda el snapshot; un ID repetido es ErrDuplicate.
func (r *SnapshotRepo) Create(_ context.Context, s *entity.InventorySnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.ID]; ok {
		return domain.ErrDuplicate
	}
	r.byID[s.ID] = cloneSnapshot(*s)
	r.order = append(r.order, s.ID)
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *SnapshotRepo) GetByID(_ context.Context, id string) (*entity.InventorySnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := cloneSnapshot(s)
	return &c, nil
}

// List devuelve los snapshots de la empresa ordenados por fecha y orden de alta.
func (r *SnapshotRepo) List(_ context.Context, q repository.SnapshotQuery) ([]entity.InventorySnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.InventorySnapshot, 0)
	for _, id := range r.order {
		s, ok := r.byID[id]
		if !ok || s.CompanyID != q.CompanyID {
			continue
		}
		if q.CenterID != "" && s.CenterID != q.CenterID {
			continue
		}
		d := entity.NormalizeDate(s.Date)
		if q.From != nil && d.Before(entity.NormalizeDate(*q.From)) {
			continue
		}
		if q.To != nil && d.After(entity.NormalizeDate(*q.To)) {
			continue
		}
		out = append(out, cloneSnapshot(s))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return entity.NormalizeDate(out[i].Date).Before(entity.NormalizeDate(out[j].Date))
	})
	return out, nil
}

// UpdateItemQuantity corrige una línea; ErrNotFound si el snapshot o la línea no existen.
func (r *SnapshotRepo) UpdateItemQuantity(_ context.Context, snapshotID, itemID string, qty decimal.Decimal, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[snapshotID]
	if !ok {
		return domain.ErrNotFound
	}
	s = cloneSnapshot(s)
	if err := s.Correct(itemID, qty, now); err != nil {
		return err
	}
	r.byID[snapshotID] = s
	return nil
}

// Delete borra el snapshot con sus líneas; ErrNotFound si no existe.
func (r *SnapshotRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func cloneSnapshot(s entity.InventorySnapshot) entity.InventorySnapshot {
	s.Items = append([]entity.InventoryItem(nil), s.Items...)
	return s
}

type repoState struct {
	byID  map[string]entity.InventorySnapshot
	order []string
}

func (r *SnapshotRepo) checkpoint() repoState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := repoState{byID: make(map[string]entity.InventorySnapshot, len(r.byID)), order: append([]string(nil), r.order...)}
	for id, s := range r.byID {
		st.byID[id] = cloneSnapshot(s)
	}
	return st
}

func (r *SnapshotRepo) restore(st repoState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = st.byID
	r.order = st.order
}
