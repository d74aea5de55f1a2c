// Package apptest repositorios en memoria para las pruebas de los casos de uso.
package apptest

import (
	"context"
	"iter"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/ledger"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	products  map[string]entity.Product
	named     map[entity.NamedKind]map[string]entity.NamedEntity
	relations map[entity.NamedKind]map[string][]string // productID -> ids
	movements []entity.StockMovement
	users     map[string]entity.User

	// FailNextMovement fuerza un error en el próximo Create de movimiento.
	FailNextMovement error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: map[string]entity.Product{},
		named: map[entity.NamedKind]map[string]entity.NamedEntity{
			entity.KindSector: {}, entity.KindSupplier: {}, entity.KindNature: {},
		},
		relations: map[entity.NamedKind]map[string][]string{
			entity.KindSupplier: {}, entity.KindNature: {},
		},
		users: map[string]entity.User{},
	}
}

type snapshot struct {
	products  map[string]entity.Product
	named     map[entity.NamedKind]map[string]entity.NamedEntity
	relations map[entity.NamedKind]map[string][]string
	movements []entity.StockMovement
	users     map[string]entity.User
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products:  maps.Clone(s.products),
		named:     map[entity.NamedKind]map[string]entity.NamedEntity{},
		relations: map[entity.NamedKind]map[string][]string{},
		movements: slices.Clone(s.movements),
		users:     maps.Clone(s.users),
	}
	for k, v := range s.named {
		snap.named[k] = maps.Clone(v)
	}
	for k, v := range s.relations {
		snap.relations[k] = maps.Clone(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products, s.named, s.relations, s.movements, s.users =
		snap.products, snap.named, snap.relations, snap.movements, snap.users
}

// Run implementa ports.TxRunner: serializa las transacciones y revierte si fn falla.
func (s *Store) Run(ctx context.Context, fn func(repository.ProductRepository, repository.MovementRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(s.Products(), s.Movements()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Movements repositorio de movimientos.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Named repositorio de sector, proveedor o naturaleza.
func (s *Store) Named(kind entity.NamedKind) *NamedRepo { return &NamedRepo{s: s, kind: kind} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Analytics repositorio de analítica.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

// MovementCount número de movimientos registrados.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

func (s *Store) balanceLocked(productID string) int64 {
	var movs []entity.StockMovement
	for _, m := range s.movements {
		if m.ProductID == productID {
			movs = append(movs, m)
		}
	}
	return ledger.Balance(movs)
}

// ─── Productos ───────────────────────────────────────────────────────────────

type ProductRepo struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.Code == p.Code {
			return domain.Duplicate("ya existe un producto con el código '" + p.Code + "'")
		}
	}
	if p.SectorID != "" {
		if _, ok := r.s.named[entity.KindSector][p.SectorID]; !ok {
			return domain.Validation("el sector indicado no existe")
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) get(match func(entity.Product) bool) *entity.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if match(p) {
			cp := p
			return &cp
		}
	}
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.get(func(p entity.Product) bool { return p.ID == id }), nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	return r.get(func(p entity.Product) bool { return p.Code == code }), nil
}

func (r *ProductRepo) detailLocked(p entity.Product) *entity.ProductDetail {
	d := &entity.ProductDetail{Product: p}
	if sec, ok := r.s.named[entity.KindSector][p.SectorID]; ok {
		d.SectorName = sec.Name
	}
	for _, kind := range []entity.NamedKind{entity.KindSupplier, entity.KindNature} {
		var list []entity.NamedEntity
		for _, id := range r.s.relations[kind][p.ID] {
			if e, ok := r.s.named[kind][id]; ok {
				list = append(list, e)
			}
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		if kind == entity.KindSupplier {
			d.Suppliers = list
		} else {
			d.Natures = list
		}
	}
	return d
}

func (r *ProductRepo) GetDetail(_ context.Context, id string) (*entity.ProductDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.detailLocked(p), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.NotFound("producto no encontrado")
	}
	for _, existing := range r.s.products {
		if existing.Code == p.Code && existing.ID != p.ID {
			return domain.Duplicate("ya existe un producto con el código '" + p.Code + "'")
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.NotFound("producto no encontrado")
	}
	for _, m := range r.s.movements {
		if m.ProductID == id {
			return domain.Conflict("el producto tiene movimientos registrados y no puede eliminarse")
		}
	}
	delete(r.s.products, id)
	for _, rel := range r.s.relations {
		delete(rel, id)
	}
	return nil
}

func matches(p entity.Product, f entity.ProductFilter) bool {
	if f.SectorID != "" && p.SectorID != f.SectorID {
		return false
	}
	if f.Term == "" {
		return true
	}
	term := strings.ToLower(f.Term)
	for _, field := range []string{p.Name, p.Code, p.CodeB, p.CodeC} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Search(_ context.Context, f entity.ProductFilter) ([]*entity.ProductDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.ProductDetail
	for _, p := range r.s.products {
		if matches(p, f) {
			list = append(list, r.detailLocked(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *ProductRepo) Count(context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.products), nil
}

func (r *ProductRepo) ReplaceRelations(_ context.Context, productID string, kind entity.NamedKind, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var kept []string
	for _, id := range ids {
		if _, ok := r.s.named[kind][id]; ok && !slices.Contains(kept, id) {
			kept = append(kept, id)
		}
	}
	r.s.relations[kind][productID] = kept
	return nil
}

func (r *ProductRepo) AddRelationsByName(_ context.Context, productID string, kind entity.NamedKind, names []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current := r.s.relations[kind][productID]
	for _, e := range r.s.named[kind] {
		if slices.Contains(names, e.Name) && !slices.Contains(current, e.ID) {
			current = append(current, e.ID)
		}
	}
	r.s.relations[kind][productID] = current
	return nil
}

// ─── Movimientos ─────────────────────────────────────────────────────────────

type MovementRepo struct{ s *Store }

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailNextMovement; err != nil {
		r.s.FailNextMovement = nil
		return err
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *MovementRepo) BalanceOf(_ context.Context, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.balanceLocked(productID), nil
}

func (r *MovementRepo) ExistsForProduct(_ context.Context, productID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.ContainsFunc(r.s.movements, func(m entity.StockMovement) bool { return m.ProductID == productID }), nil
}

func (r *MovementRepo) Iterate(_ context.Context, f entity.MovementFilter) iter.Seq2[entity.MovementRecord, error] {
	return func(yield func(entity.MovementRecord, error) bool) {
		r.s.mu.Lock()
		var recs []entity.MovementRecord
		for _, m := range r.s.movements {
			if f.Kind != "" && m.Kind != f.Kind {
				continue
			}
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			rec := entity.MovementRecord{StockMovement: m}
			if p, ok := r.s.products[m.ProductID]; ok {
				rec.ProductCode, rec.ProductName = p.Code, p.Name
			}
			if u, ok := r.s.users[m.UserID]; ok {
				rec.UserName = u.Name
			}
			recs = append(recs, rec)
		}
		r.s.mu.Unlock()

		sort.SliceStable(recs, func(i, j int) bool {
			if f.NewestFirst {
				return recs[i].CreatedAt.After(recs[j].CreatedAt)
			}
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		})
		if f.Limit > 0 && len(recs) > f.Limit {
			recs = recs[:f.Limit]
		}
		for _, rec := range recs {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (r *MovementRepo) Balances(_ context.Context, f entity.ProductFilter) ([]entity.ProductBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []entity.ProductBalance
	for _, p := range r.s.products {
		if !matches(p, f) {
			continue
		}
		b := entity.ProductBalance{
			ProductID: p.ID, Code: p.Code, Name: p.Name, CodeB: p.CodeB, CodeC: p.CodeC,
			Price: p.Price, Balance: r.s.balanceLocked(p.ID),
		}
		if sec, ok := r.s.named[entity.KindSector][p.SectorID]; ok {
			b.SectorName = sec.Name
		}
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ─── Sector / proveedor / naturaleza ─────────────────────────────────────────

type NamedRepo struct {
	s    *Store
	kind entity.NamedKind
}

var _ repository.NamedEntityRepository = (*NamedRepo)(nil)

func (r *NamedRepo) Kind() entity.NamedKind { return r.kind }

func (r *NamedRepo) nameTakenLocked(e *entity.NamedEntity) bool {
	for _, other := range r.s.named[r.kind] {
		if other.Name == e.Name && other.ID != e.ID {
			return true
		}
	}
	return false
}

func (r *NamedRepo) Create(_ context.Context, e *entity.NamedEntity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTakenLocked(e) {
		return domain.Duplicate("ya existe un " + r.kind.Label() + " con el nombre '" + e.Name + "'")
	}
	e.Kind = r.kind
	r.s.named[r.kind][e.ID] = *e
	return nil
}

func (r *NamedRepo) GetByID(_ context.Context, id string) (*entity.NamedEntity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.named[r.kind][id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *NamedRepo) Update(_ context.Context, e *entity.NamedEntity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.named[r.kind][e.ID]; !ok {
		return domain.NotFound(r.kind.Label() + " no encontrado")
	}
	if r.nameTakenLocked(e) {
		return domain.Duplicate("ya existe un " + r.kind.Label() + " con el nombre '" + e.Name + "'")
	}
	r.s.named[r.kind][e.ID] = *e
	return nil
}

func (r *NamedRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.named[r.kind][id]; !ok {
		return domain.NotFound(r.kind.Label() + " no encontrado")
	}
	delete(r.s.named[r.kind], id)
	return nil
}

func (r *NamedRepo) List(context.Context) ([]*entity.NamedEntity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.NamedEntity
	for _, e := range r.s.named[r.kind] {
		cp := e
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *NamedRepo) InUse(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.kind == entity.KindSector {
		for _, p := range r.s.products {
			if p.SectorID == id {
				return true, nil
			}
		}
		return false, nil
	}
	for _, ids := range r.s.relations[r.kind] {
		if slices.Contains(ids, id) {
			return true, nil
		}
	}
	return false, nil
}

func (r *NamedRepo) Count(context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.named[r.kind]), nil
}

// ─── Usuarios ────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) loginTakenLocked(u *entity.User) bool {
	for _, other := range r.s.users {
		if other.Login == u.Login && other.ID != u.ID {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.loginTakenLocked(u) {
		return domain.Duplicate("el login '" + u.Login + "' ya está en uso")
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByLogin(_ context.Context, login string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Login == login {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.NotFound("usuario no encontrado")
	}
	if r.loginTakenLocked(u) {
		return domain.Duplicate("el login '" + u.Login + "' ya está en uso")
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) List(context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.User
	for _, u := range r.s.users {
		cp := u
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ─── Analítica ───────────────────────────────────────────────────────────────

type AnalyticsRepo struct{ s *Store }

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

func (r *AnalyticsRepo) StockValue(context.Context) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, p := range r.s.products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(r.s.balanceLocked(p.ID))))
	}
	return total, nil
}
