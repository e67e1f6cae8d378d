package http

import (
	"github.com/gofiber/fiber/v2"
	appcomposition "github.com/jhoicas/Almacen-api/internal/application/composition"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	domcomp "github.com/jhoicas/Almacen-api/internal/domain/composition"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CompositionHandler maneja composiciones: evaluación ad-hoc, CRUD y las
// transiciones del ciclo de vida (protegido). Las transiciones reciben la
// versión observada en el body; un desfase responde 409 VERSION_CONFLICT.
type CompositionHandler struct {
	compose   *appcomposition.ComposeUseCase
	lifecycle *appcomposition.LifecycleUseCase
}

// NewCompositionHandler construye el handler.
func NewCompositionHandler(compose *appcomposition.ComposeUseCase, lifecycle *appcomposition.LifecycleUseCase) *CompositionHandler {
	return &CompositionHandler{compose: compose, lifecycle: lifecycle}
}

// Evaluate evalúa un request sin persistir nada (cotización de composición).
// POST /api/compositions/evaluate
func (h *CompositionHandler) Evaluate(c *fiber.Ctx) error {
	var req domcomp.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.compose.Compose(req)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(result)
}

// Create crea una composición en DRAFT.
// POST /api/compositions
func (h *CompositionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompositionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	comp, err := h.lifecycle.Create(in.Name, in.Request, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToCompositionResponse(comp))
}

// GetByID obtiene una composición con su último resultado y líneas.
// GET /api/compositions/:id
func (h *CompositionHandler) GetByID(c *fiber.Ctx) error {
	comp, err := h.lifecycle.Get(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToCompositionResponse(comp))
}

// List lista composiciones paginadas.
// GET /api/compositions
func (h *CompositionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	comps, err := h.lifecycle.List(page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.CompositionResponse, 0, len(comps))
	for _, comp := range comps {
		out = append(out, dto.ToCompositionResponse(comp))
	}
	return c.JSON(fiber.Map{"total": len(out), "compositions": out})
}

// Update edita el request de una composición no ejecutada (vuelve a DRAFT).
// PUT /api/compositions/:id
func (h *CompositionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompositionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	comp, err := h.lifecycle.UpdateRequest(c.Params("id"), in.Version, in.Request)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToCompositionResponse(comp))
}

// Validate re-evalúa la composición y guarda el resultado fresco.
// POST /api/compositions/:id/validate
func (h *CompositionHandler) Validate(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.Validate)
}

// Approve aprueba una composición validada.
// POST /api/compositions/:id/approve
func (h *CompositionHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.Approve)
}

// Execute arma la UCP: deduce stock, ocupa el pallet y pasa a EXECUTED.
// POST /api/compositions/:id/execute
func (h *CompositionHandler) Execute(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	comp, err := h.lifecycle.Execute(c.Context(), c.Params("id"), in.Version)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToCompositionResponse(comp))
}

// Disassemble desarma la UCP y regresa la composición a DRAFT.
// POST /api/compositions/:id/disassemble
func (h *CompositionHandler) Disassemble(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	comp, err := h.lifecycle.Disassemble(c.Context(), c.Params("id"), in.Version)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToCompositionResponse(comp))
}

// transition factoriza las transiciones síncronas (validate/approve).
func (h *CompositionHandler) transition(c *fiber.Ctx, fn func(id string, version int64) (*entity.Composition, error)) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	comp, err := fn(c.Params("id"), in.Version)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToCompositionResponse(comp))
}
