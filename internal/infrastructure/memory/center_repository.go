package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
)

var _ repository.CenterRepository = (*CenterRepo)(nil)

// CenterRepo directorio de centros en memoria.
type CenterRepo struct {
	mu   sync.RWMutex
	byID map[string]entity.Center
}

// NewCenterRepository construye el directorio con centros iniciales.
func NewCenterRepository(centers ...entity.Center) *CenterRepo {
	r := &CenterRepo{byID: make(map[string]entity.Center, len(centers))}
	for _, c := range centers {
		r.byID[c.ID] = c
	}
	return r
}

// Put agrega o reemplaza un centro.
func (r *CenterRepo) Put(c entity.Center) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
}

// GetByID devuelve (nil, nil) si no existe.
func (r *CenterRepo) GetByID(_ context.Context, id string) (*entity.Center, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ListByCompany centros de la empresa ordenados por ID.
func (r *CenterRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Center, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Center, 0)
	for _, c := range r.byID {
		if c.CompanyID == companyID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
