package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo almacén de liquidaciones en memoria, con llave (empresa, fecha, centro|*).
type SettlementRepo struct {
	mu    sync.RWMutex
	byKey map[string]entity.DailySettlement
}

// NewSettlementRepository construye el almacén vacío.
func NewSettlementRepository() *SettlementRepo {
	return &SettlementRepo{byKey: make(map[string]entity.DailySettlement)}
}

// Get devuelve (nil, nil) si no hay liquidación guardada.
func (r *SettlementRepo) Get(_ context.Context, companyID string, date time.Time, centerID string) (*entity.DailySettlement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byKey[entity.SettlementKey(companyID, date, centerID)]
	if !ok {
		return nil, nil
	}
	return cloneSettlement(s), nil
}

// Upsert reemplaza el registro de la misma llave.
func (r *SettlementRepo) Upsert(_ context.Context, s *entity.DailySettlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[s.CacheKey()] = *cloneSettlement(*s)
	return nil
}

// ListRange liquidaciones de [from, to] ordenadas por fecha y luego centro (consolidado primero).
// centerID vacío devuelve todas, incluido el consolidado.
func (r *SettlementRepo) ListRange(_ context.Context, companyID string, from, to time.Time, centerID string) ([]entity.DailySettlement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	from, to = entity.NormalizeDate(from), entity.NormalizeDate(to)
	out := make([]entity.DailySettlement, 0)
	for _, s := range r.byKey {
		if s.CompanyID != companyID {
			continue
		}
		d := entity.NormalizeDate(s.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		if centerID != "" && s.CenterKey() != centerID {
			continue
		}
		out = append(out, *cloneSettlement(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if !entity.SameDay(out[i].Date, out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CenterKey() < out[j].CenterKey()
	})
	return out, nil
}

// Delete borra el registro si existe; borrar algo ausente no es error.
func (r *SettlementRepo) Delete(_ context.Context, companyID string, date time.Time, centerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byKey, entity.SettlementKey(companyID, date, centerID))
	return nil
}

func cloneSettlement(s entity.DailySettlement) *entity.DailySettlement {
	s.CenterID = entity.CenterPtr(s.CenterKey())
	return &s
}
