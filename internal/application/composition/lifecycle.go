package composition

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	domcomp "github.com/jhoicas/Almacen-api/internal/domain/composition"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// LifecycleUseCase gobierna la máquina de estados de una composición:
// DRAFT --validate--> VALIDATED --approve--> APPROVED --execute--> EXECUTED
// EXECUTED --disassemble--> DRAFT.
//
// Concurrencia en dos capas: un guard en proceso (lease corto por composición,
// TryLock) rechaza de inmediato la segunda llamada concurrente, y la versión
// optimista del repositorio (CAS en el UPDATE) cubre procesos distintos. En
// ambos casos el caller observa ErrConcurrentModification, nunca un bloqueo
// indefinido. execute es la única transición con efecto externo y corre
// completa dentro de una transacción.
type LifecycleUseCase struct {
	compositions repository.CompositionRepository
	units        repository.PackagingUnitRepository
	compose      *ComposeUseCase
	tx           TxRunner

	mu       sync.Mutex
	inflight map[string]bool
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	compositions repository.CompositionRepository,
	units repository.PackagingUnitRepository,
	compose *ComposeUseCase,
	tx TxRunner,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		compositions: compositions,
		units:        units,
		compose:      compose,
		tx:           tx,
		inflight:     map[string]bool{},
	}
}

// acquire toma el lease corto de la composición; false si otro actor lo tiene.
func (uc *LifecycleUseCase) acquire(id string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.inflight[id] {
		return false
	}
	uc.inflight[id] = true
	return true
}

func (uc *LifecycleUseCase) release(id string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inflight, id)
}

// Create crea una composición nueva en estado DRAFT, versión 1.
func (uc *LifecycleUseCase) Create(name string, req domcomp.Request, userID string) (*entity.Composition, error) {
	if name == "" || req.PalletID == "" || len(req.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	comp := &entity.Composition{
		ID:        uuid.New().String(),
		Name:      name,
		PalletID:  req.PalletID,
		Status:    entity.CompositionStatusDraft,
		Version:   1,
		Request:   req,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.compositions.Create(comp); err != nil {
		return nil, err
	}
	return comp, nil
}

// Get devuelve la composición; ErrNotFound si no existe.
func (uc *LifecycleUseCase) Get(id string) (*entity.Composition, error) {
	comp, err := uc.compositions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return nil, domain.ErrNotFound
	}
	return comp, nil
}

// List lista composiciones paginadas.
func (uc *LifecycleUseCase) List(limit, offset int) ([]*entity.Composition, error) {
	return uc.compositions.List(limit, offset)
}

// UpdateRequest edita el request de una composición no ejecutada y la regresa
// a DRAFT, descartando el resultado previo. Requiere la versión observada.
func (uc *LifecycleUseCase) UpdateRequest(id string, version int64, req domcomp.Request) (*entity.Composition, error) {
	if !uc.acquire(id) {
		return nil, domain.ErrConcurrentModification
	}
	defer uc.release(id)

	comp, err := uc.Get(id)
	if err != nil {
		return nil, err
	}
	if !comp.CanEdit() {
		return nil, domain.ErrInvalidTransition
	}
	if len(req.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	comp.Request = req
	comp.PalletID = req.PalletID
	comp.Status = entity.CompositionStatusDraft
	comp.Result = nil
	comp.Lines = nil
	if err := uc.compositions.Update(comp, version); err != nil {
		return nil, err
	}
	return comp, nil
}

// Validate re-ejecuta la evaluación completa y guarda el Result fresco.
// Solo desde DRAFT. La composición pasa a VALIDATED únicamente si el
// resultado es válido; si no, permanece en DRAFT con el detalle guardado.
func (uc *LifecycleUseCase) Validate(id string, version int64) (*entity.Composition, error) {
	if !uc.acquire(id) {
		return nil, domain.ErrConcurrentModification
	}
	defer uc.release(id)

	comp, err := uc.Get(id)
	if err != nil {
		return nil, err
	}
	if comp.Status != entity.CompositionStatusDraft {
		return nil, domain.ErrInvalidTransition
	}

	result, err := uc.compose.Compose(comp.Request)
	if err != nil {
		return nil, err
	}
	comp.Result = result
	comp.Lines = BuildLines(comp.ID, comp.Request, result, func() string { return uuid.New().String() })
	if result.IsValid {
		comp.Status = entity.CompositionStatusValidated
	}
	if err := uc.compositions.Update(comp, version); err != nil {
		return nil, err
	}
	return comp, nil
}

// Approve aprueba una composición VALIDATED; cualquier otro estado es
// ErrInvalidTransition.
func (uc *LifecycleUseCase) Approve(id string, version int64) (*entity.Composition, error) {
	if !uc.acquire(id) {
		return nil, domain.ErrConcurrentModification
	}
	defer uc.release(id)

	comp, err := uc.Get(id)
	if err != nil {
		return nil, err
	}
	if comp.Status != entity.CompositionStatusValidated {
		return nil, domain.ErrInvalidTransition
	}
	comp.Status = entity.CompositionStatusApproved
	if err := uc.compositions.Update(comp, version); err != nil {
		return nil, err
	}
	return comp, nil
}

// Execute arma la UCP: deduce el stock consumido, marca el pallet ocupado y
// pasa la composición a EXECUTED, todo dentro de una sola transacción
// (todo-o-nada: nunca queda stock deducido sin UCP ni al revés). Un segundo
// execute contra capacidad ya consumida falla con ErrInsufficientStock o
// ErrPalletOccupied, jamás sobre-compromete en silencio.
func (uc *LifecycleUseCase) Execute(ctx context.Context, id string, version int64) (*entity.Composition, error) {
	if !uc.acquire(id) {
		return nil, domain.ErrConcurrentModification
	}
	defer uc.release(id)

	comp, err := uc.Get(id)
	if err != nil {
		return nil, err
	}
	if comp.Status != entity.CompositionStatusApproved {
		return nil, domain.ErrInvalidTransition
	}

	factors, err := uc.unitFactors(comp.Lines)
	if err != nil {
		return nil, err
	}

	err = uc.tx.Run(ctx, func(
		stockRepo repository.StockLineRepository,
		ucpRepo repository.UCPRepository,
		palletRepo repository.PalletRepository,
		compRepo repository.CompositionRepository,
	) error {
		pallet, err := palletRepo.GetByID(comp.PalletID)
		if err != nil {
			return err
		}
		if pallet == nil {
			return domain.ErrPalletNotFound
		}
		if pallet.Occupied {
			return domain.ErrPalletOccupied
		}

		for _, line := range comp.Lines {
			needed := line.Quantity.Mul(factors[line.UnitID])
			if err := deductStock(stockRepo, line.ProductID, needed, factors); err != nil {
				return err
			}
		}

		now := time.Now()
		ucp := &entity.UCP{
			ID:            uuid.New().String(),
			Code:          "UCP-" + uuid.New().String()[:8],
			PalletID:      comp.PalletID,
			CompositionID: comp.ID,
			Status:        entity.UCPStatusFormed,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := ucpRepo.Create(ucp); err != nil {
			return err
		}
		if err := palletRepo.SetOccupied(comp.PalletID, true); err != nil {
			return err
		}
		comp.Status = entity.CompositionStatusExecuted
		return compRepo.Update(comp, version)
	})
	if err != nil {
		return nil, err
	}
	return comp, nil
}

// Disassemble desarma la UCP de una composición EXECUTED: devuelve el stock a
// la posición de staging, libera el pallet y regresa la composición a DRAFT.
// Misma disciplina transaccional que execute.
func (uc *LifecycleUseCase) Disassemble(ctx context.Context, id string, version int64) (*entity.Composition, error) {
	if !uc.acquire(id) {
		return nil, domain.ErrConcurrentModification
	}
	defer uc.release(id)

	comp, err := uc.Get(id)
	if err != nil {
		return nil, err
	}
	if comp.Status != entity.CompositionStatusExecuted {
		return nil, domain.ErrInvalidTransition
	}

	err = uc.tx.Run(ctx, func(
		stockRepo repository.StockLineRepository,
		ucpRepo repository.UCPRepository,
		palletRepo repository.PalletRepository,
		compRepo repository.CompositionRepository,
	) error {
		ucp, err := ucpRepo.GetByComposition(comp.ID)
		if err != nil {
			return err
		}
		if ucp == nil || ucp.Status != entity.UCPStatusFormed {
			return domain.ErrNotFound
		}

		now := time.Now()
		for _, line := range comp.Lines {
			unitID := line.UnitID
			if err := stockRepo.Append(&entity.StockLine{
				ID:         uuid.New().String(),
				ProductID:  line.ProductID,
				PositionID: entity.PositionStaging,
				UnitID:     &unitID,
				Quantity:   line.Quantity,
				Active:     true,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}

		ucp.Status = entity.UCPStatusDisassembled
		ucp.UpdatedAt = now
		if err := ucpRepo.Update(ucp); err != nil {
			return err
		}
		if err := palletRepo.SetOccupied(comp.PalletID, false); err != nil {
			return err
		}
		comp.Status = entity.CompositionStatusDraft
		return compRepo.Update(comp, version)
	})
	if err != nil {
		return nil, err
	}
	return comp, nil
}

// unitFactors precarga los factores a unidad base de TODOS los empaques de
// los productos involucrados (lectura fuera de la transacción): el stock puede
// estar registrado en empaques distintos a los del request.
func (uc *LifecycleUseCase) unitFactors(lines []entity.CompositionLine) (map[string]decimal.Decimal, error) {
	factors := map[string]decimal.Decimal{}
	seen := map[string]bool{}
	for _, line := range lines {
		if seen[line.ProductID] {
			continue
		}
		seen[line.ProductID] = true
		units, err := uc.units.ListByProduct(line.ProductID)
		if err != nil {
			return nil, err
		}
		for _, u := range units {
			factors[u.ID] = u.BaseUnitQuantity
		}
	}
	for _, line := range lines {
		if _, ok := factors[line.UnitID]; !ok {
			return nil, domain.ErrUnitNotFound
		}
	}
	return factors, nil
}

// deductStock consume `needed` unidades base del producto con disciplina
// append/retire: retira líneas completas en orden de llegada y agrega una
// línea nueva con el remanente de la última línea parcialmente consumida.
func deductStock(stockRepo repository.StockLineRepository, productID string, needed decimal.Decimal, factors map[string]decimal.Decimal) error {
	lines, err := stockRepo.ListActiveByProductForUpdate(productID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if !needed.IsPositive() {
			break
		}
		lineBase := line.Quantity
		if line.UnitID != nil {
			factor, ok := factors[*line.UnitID]
			if !ok {
				// empaque no precargado: factor 1 sería incorrecto, abortar
				return domain.ErrUnitNotFound
			}
			lineBase = lineBase.Mul(factor)
		}
		if err := stockRepo.Retire(line.ID); err != nil {
			return err
		}
		if lineBase.GreaterThan(needed) {
			remainder := lineBase.Sub(needed)
			if err := stockRepo.Append(&entity.StockLine{
				ID:         uuid.New().String(),
				ProductID:  productID,
				PositionID: line.PositionID,
				UnitID:     nil, // remanente en unidades base
				Quantity:   remainder,
				Active:     true,
				CreatedAt:  time.Now(),
			}); err != nil {
				return err
			}
			needed = decimal.Zero
		} else {
			needed = needed.Sub(lineBase)
		}
	}
	if needed.IsPositive() {
		return domain.ErrInsufficientStock
	}
	return nil
}
