package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/gesafe-api/internal/application/inventory"
	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	domaininv "github.com/jhoicas/gesafe-api/internal/domain/inventory"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda usuarios, propriedades, lotes y el ledger en memoria.
// Implementa los mismos puertos que el adaptador PostgreSQL; se usa como simulador
// local (STORAGE_DRIVER=memory) y en pruebas.
type Store struct {
	mu sync.RWMutex

	users      map[string]*entity.User
	properties map[string]*entity.Property
	propOrder  []string
	lots       map[string]*entity.Lot
	lotOrder   []string
	movements  []*entity.Movement // orden de Seq
	movIndex   map[string]int
	seq        int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]*entity.User),
		properties: make(map[string]*entity.Property),
		lots:       make(map[string]*entity.Lot),
		movIndex:   make(map[string]int),
	}
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Properties repositorio de propriedades.
func (s *Store) Properties() *PropertyRepository { return &PropertyRepository{s: s} }

// Lots repositorio de lotes fuera de transacción.
func (s *Store) Lots() *LotRepository { return &LotRepository{conn{s: s}} }

// Movements repositorio del ledger fuera de transacción.
func (s *Store) Movements() *MovementRepository { return &MovementRepository{conn{s: s}} }

// Run ejecuta fn con repositorios atados a una transacción: las escrituras quedan
// en un área temporal y se aplican juntas solo si fn no devuelve error y la
// unicidad de lotes activos por clave se mantiene.
func (s *Store) Run(ctx context.Context, fn func(
	lots repository.LotRepository,
	movements repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v := newView(s)
	c := conn{s: s, tx: v}
	if err := fn(&LotRepository{c}, &MovementRepository{c}); err != nil {
		return err
	}
	return v.commit()
}

// conn decide si una operación corre dentro de una transacción abierta o toma el lock propio.
type conn struct {
	s  *Store
	tx *view
}

func (c conn) read(fn func(v *view)) {
	if c.tx != nil {
		fn(c.tx)
		return
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	fn(newView(c.s))
}

func (c conn) write(fn func(v *view) error) error {
	if c.tx != nil {
		return fn(c.tx)
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	v := newView(c.s)
	if err := fn(v); err != nil {
		return err
	}
	return v.commit()
}

// view combina el estado confirmado con las escrituras pendientes de una transacción.
// Se usa siempre con el lock del store tomado.
type view struct {
	s       *Store
	lots    map[string]*entity.Lot
	newLots []string
	movs    []*entity.Movement
}

func newView(s *Store) *view {
	return &view{s: s, lots: make(map[string]*entity.Lot)}
}

func (v *view) lot(id string) *entity.Lot {
	if l, ok := v.lots[id]; ok {
		return l
	}
	return v.s.lots[id]
}

func (v *view) lotIDs() []string {
	ids := make([]string, 0, len(v.s.lotOrder)+len(v.newLots))
	ids = append(ids, v.s.lotOrder...)
	return append(ids, v.newLots...)
}

func (v *view) putLot(l *entity.Lot) {
	if v.lot(l.ID) == nil {
		v.newLots = append(v.newLots, l.ID)
	}
	cp := *l
	cp.PropertyName = ""
	cp.QuantityOnHand = 0
	v.lots[l.ID] = &cp
}

// events historial del lote en orden de Seq.
func (v *view) events(lotID string) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range v.s.movements {
		if m.LotID == lotID {
			out = append(out, m)
		}
	}
	for _, m := range v.movs {
		if m.LotID == lotID {
			out = append(out, m)
		}
	}
	return out
}

func (v *view) allMovements() []*entity.Movement {
	out := make([]*entity.Movement, 0, len(v.s.movements)+len(v.movs))
	out = append(out, v.s.movements...)
	return append(out, v.movs...)
}

func (v *view) movement(id string) *entity.Movement {
	if i, ok := v.s.movIndex[id]; ok {
		return v.s.movements[i]
	}
	for _, m := range v.movs {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (v *view) addMovement(m *entity.Movement) {
	m.Seq = v.s.seq + int64(len(v.movs)) + 1
	cp := *m
	v.movs = append(v.movs, &cp)
}

// fillLot copia el lote y resuelve los campos derivados.
func (v *view) fillLot(l *entity.Lot) *entity.Lot {
	cp := *l
	if p := v.s.properties[l.PropertyID]; p != nil {
		cp.PropertyName = p.Name
	}
	cp.QuantityOnHand = domaininv.OnHand(v.events(l.ID))
	return &cp
}

// fillMovement copia el movimiento y resuelve los campos del lote.
func (v *view) fillMovement(m *entity.Movement) *entity.Movement {
	cp := *m
	if l := v.lot(m.LotID); l != nil {
		cp.ProductName = l.ProductName
		cp.Packaging = l.Packaging
		cp.ExpiryDate = l.ExpiryDate
	}
	if p := v.s.properties[m.PropertyID]; p != nil {
		cp.PropertyName = p.Name
	}
	return &cp
}

func (v *view) commit() error {
	active := make(map[string]string)
	for _, id := range v.lotIDs() {
		l := v.lot(id)
		if !l.Active {
			continue
		}
		k := l.Key().String()
		if other, ok := active[k]; ok && other != id {
			return domain.ErrDuplicate
		}
		active[k] = id
	}

	for id, l := range v.lots {
		v.s.lots[id] = l
	}
	v.s.lotOrder = append(v.s.lotOrder, v.newLots...)
	for _, m := range v.movs {
		v.s.movIndex[m.ID] = len(v.s.movements)
		v.s.movements = append(v.s.movements, m)
		v.s.seq = m.Seq
	}
	return nil
}
