package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
	"github.com/hercules830/nexa-control-app-sub000/internal/model"
	"github.com/hercules830/nexa-control-app-sub000/internal/repository"
)

// Ticket is one user's in-progress sale: an ordered list of denormalized
// product lines plus the chosen payment method. It lives only in memory
// and is cleared on finalize or cancel.
type Ticket struct {
	Lineas     []model.LineaTicket
	MetodoPago string
}

// Total is Σ precio × cantidad over all lines.
func (t Ticket) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range t.Lineas {
		total = total.Add(t.Lineas[i].Subtotal())
	}
	return total
}

// TicketStore holds the per-user session tickets. Every accessor works on
// a copy under the store mutex, so callers never share a mutable Ticket
// across goroutines.
type TicketStore struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*Ticket
}

func NewTicketStore() *TicketStore {
	return &TicketStore{tickets: make(map[uuid.UUID]*Ticket)}
}

// ticketLocked returns the live ticket for usuarioID, creating an empty
// one on first use. Callers must hold s.mu.
func (s *TicketStore) ticketLocked(usuarioID uuid.UUID) *Ticket {
	t, ok := s.tickets[usuarioID]
	if !ok {
		t = &Ticket{MetodoPago: model.PagoEfectivo}
		s.tickets[usuarioID] = t
	}
	return t
}

// snapshotLocked copies t so the caller can read it outside the lock.
func snapshotLocked(t *Ticket) Ticket {
	out := Ticket{MetodoPago: t.MetodoPago}
	if len(t.Lineas) > 0 {
		out.Lineas = make([]model.LineaTicket, len(t.Lineas))
		copy(out.Lineas, t.Lineas)
	}
	return out
}

// Obtener returns a copy of the user's ticket, creating an empty one on
// first use.
func (s *TicketStore) Obtener(usuarioID uuid.UUID) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotLocked(s.ticketLocked(usuarioID))
}

// AgregarLinea appends linea to the user's ticket and returns the result.
func (s *TicketStore) AgregarLinea(usuarioID uuid.UUID, linea model.LineaTicket) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.ticketLocked(usuarioID)
	t.Lineas = append(t.Lineas, linea)
	return snapshotLocked(t)
}

// QuitarLinea removes the line at indice. The bool reports whether the
// index was in range; out-of-range leaves the ticket untouched.
func (s *TicketStore) QuitarLinea(usuarioID uuid.UUID, indice int) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.ticketLocked(usuarioID)
	if indice < 0 || indice >= len(t.Lineas) {
		return snapshotLocked(t), false
	}
	t.Lineas = append(t.Lineas[:indice], t.Lineas[indice+1:]...)
	return snapshotLocked(t), true
}

// SetMetodoPago records the payment method for the in-progress ticket.
func (s *TicketStore) SetMetodoPago(usuarioID uuid.UUID, metodo string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticketLocked(usuarioID).MetodoPago = metodo
}

// Limpiar resets the user's ticket to empty with the default payment method.
func (s *TicketStore) Limpiar(usuarioID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[usuarioID] = &Ticket{MetodoPago: model.PagoEfectivo}
}

// TicketService builds the session ticket. Adding a line copies the
// product's current price, cost and recipe; stock is deliberately NOT
// checked here - only the finalizer validates stock, because a ticket may
// sit open across several product selections. The referenced insumos DO
// have to exist at add time, so a product whose insumo was deleted is
// rejected here instead of surfacing at finalize.
type TicketService interface {
	AgregarLinea(ctx context.Context, usuarioID uuid.UUID, req dto.AgregarLineaRequest) (*dto.TicketResponse, error)
	QuitarLinea(ctx context.Context, usuarioID uuid.UUID, indice int) (*dto.TicketResponse, error)
	Limpiar(ctx context.Context, usuarioID uuid.UUID)
	Obtener(ctx context.Context, usuarioID uuid.UUID) *dto.TicketResponse
}

type ticketService struct {
	store        *TicketStore
	productoRepo repository.ProductoRepository
	insumoRepo   repository.InsumoRepository
}

func NewTicketService(
	store *TicketStore,
	productoRepo repository.ProductoRepository,
	insumoRepo repository.InsumoRepository,
) TicketService {
	return &ticketService{store: store, productoRepo: productoRepo, insumoRepo: insumoRepo}
}

func (s *ticketService) AgregarLinea(ctx context.Context, usuarioID uuid.UUID, req dto.AgregarLineaRequest) (*dto.TicketResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, validacion("producto_id inválido")
	}
	if req.Cantidad < 1 {
		return nil, validacion("cantidad debe ser al menos 1")
	}

	producto, err := s.productoRepo.FindByID(ctx, usuarioID, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}
	if err := s.verificarInsumos(ctx, usuarioID, producto); err != nil {
		return nil, err
	}

	linea := model.LineaTicket{
		ProductoID:    producto.ID,
		Nombre:        producto.Nombre,
		Cantidad:      req.Cantidad,
		Precio:        producto.Precio,
		CostoCatalogo: producto.Costo,
		Tipo:          producto.Tipo,
		InsumoID:      producto.InsumoID,
		Receta:        producto.Receta,
	}

	ticket := s.store.AgregarLinea(usuarioID, linea)
	return ticketToResponse(ticket), nil
}

// verificarInsumos confirms every insumo the product references still
// exists for this user. Products keep dangling references after an insumo
// is deleted, so adding one to a ticket re-checks the ledger.
func (s *ticketService) verificarInsumos(ctx context.Context, usuarioID uuid.UUID, producto *model.Producto) error {
	ids := make([]uuid.UUID, 0, 1+len(producto.Receta))
	if producto.Tipo == model.TipoDirecto && producto.InsumoID != nil {
		ids = append(ids, *producto.InsumoID)
	}
	for _, item := range producto.Receta {
		ids = append(ids, item.InsumoID)
	}
	for _, id := range ids {
		if _, err := s.insumoRepo.FindByID(ctx, usuarioID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInsumoNoEncontrado
			}
			return err
		}
	}
	return nil
}

func (s *ticketService) QuitarLinea(_ context.Context, usuarioID uuid.UUID, indice int) (*dto.TicketResponse, error) {
	ticket, ok := s.store.QuitarLinea(usuarioID, indice)
	if !ok {
		return nil, validacion("índice de línea fuera de rango")
	}
	return ticketToResponse(ticket), nil
}

func (s *ticketService) Limpiar(_ context.Context, usuarioID uuid.UUID) {
	s.store.Limpiar(usuarioID)
}

func (s *ticketService) Obtener(_ context.Context, usuarioID uuid.UUID) *dto.TicketResponse {
	return ticketToResponse(s.store.Obtener(usuarioID))
}

func ticketToResponse(t Ticket) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		Lineas: make([]dto.LineaTicketResponse, 0, len(t.Lineas)),
		Total:  t.Total(),
	}
	for _, l := range t.Lineas {
		resp.Lineas = append(resp.Lineas, dto.LineaTicketResponse{
			ProductoID: l.ProductoID.String(),
			Nombre:     l.Nombre,
			Cantidad:   l.Cantidad,
			Precio:     l.Precio,
			Subtotal:   l.Subtotal(),
			Tipo:       string(l.Tipo),
		})
	}
	return resp
}
