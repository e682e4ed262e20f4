// Package memory implementa los repositorios del ledger en memoria.
// Se usa con STORE_DRIVER=memory (demo, desarrollo) y en los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

// Store guarda todas las entidades detrás de un único mutex.
// Una transacción trabaja sobre una copia del estado y la publica al confirmar.
type Store struct {
	mu   sync.Mutex
	data *state
}

type state struct {
	sales          map[string]entity.Sale
	purchases      map[string]entity.Purchase
	plans          map[string]entity.InstallmentPlan
	planByPurchase map[string]string
	customers      map[string]entity.Customer
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newState()}
}

func newState() *state {
	return &state{
		sales:          make(map[string]entity.Sale),
		purchases:      make(map[string]entity.Purchase),
		plans:          make(map[string]entity.InstallmentPlan),
		planByPurchase: make(map[string]string),
		customers:      make(map[string]entity.Customer),
	}
}

// clone copia los mapas; las entidades se copian profundo al leer y al escribir.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.plans {
		c.plans[k] = v
	}
	for k, v := range s.planByPurchase {
		c.planByPurchase[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	return c
}

// RunLedger serializa la transacción completa: fn ve una copia privada del
// estado que reemplaza al original solo si fn retorna nil.
func (s *Store) RunLedger(ctx context.Context, fn func(repos ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	if err := fn(s.repos(tx)); err != nil {
		return err
	}
	s.data = tx
	return nil
}

// Repos repositorios fuera de transacción (cada llamada toma el lock).
func (s *Store) Repos() ports.Repos {
	return s.repos(nil)
}

func (s *Store) repos(tx *state) ports.Repos {
	v := view{store: s, tx: tx}
	return ports.Repos{
		Sales:     &SaleRepo{v},
		Purchases: &PurchaseRepo{v},
		Plans:     &InstallmentPlanRepo{v},
		Customers: &CustomerRepo{v},
	}
}

// view resuelve sobre qué estado opera un repositorio.
type view struct {
	store *Store
	tx    *state
}

func (v view) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.data)
}

func copySale(s entity.Sale) entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	s.PaymentHistory = append([]entity.PaymentRecord(nil), s.PaymentHistory...)
	return s
}

func copyPurchase(p entity.Purchase) entity.Purchase {
	p.PaymentHistory = append([]entity.PaymentRecord(nil), p.PaymentHistory...)
	return p
}

func copyPlan(p entity.InstallmentPlan) entity.InstallmentPlan {
	insts := make([]entity.Installment, len(p.Installments))
	for i, inst := range p.Installments {
		insts[i] = copyInstallment(inst)
	}
	p.Installments = insts
	return p
}

func copyInstallment(inst entity.Installment) entity.Installment {
	if inst.PaidDate != nil {
		d := *inst.PaidDate
		inst.PaidDate = &d
	}
	return inst
}
