package composition

import "github.com/shopspring/decimal"

// Tipos de violación física.
const (
	ViolationWeight = "weight"
	ViolationVolume = "volume"
	ViolationHeight = "height"
	ViolationStock  = "stock"
)

// Severidades. Solo "error" bloquea la validez del resultado.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// RequestLine una línea de la solicitud: producto, cantidad y empaque.
// UnitID vacío significa la unidad base del producto.
type RequestLine struct {
	ProductID string          `json:"product_id"`
	UnitID    string          `json:"unit_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// Constraints restricciones opcionales que el caller impone por encima del
// pallet. Nunca pueden exceder los límites físicos del pallet.
type Constraints struct {
	MaxWeightKg *decimal.Decimal `json:"max_weight_kg,omitempty"`
	MaxVolumeM3 *decimal.Decimal `json:"max_volume_m3,omitempty"`
	MaxHeightCm *decimal.Decimal `json:"max_height_cm,omitempty"`
}

// Request solicitud de composición contra un pallet concreto.
type Request struct {
	PalletID string        `json:"pallet_id"`
	Lines    []RequestLine `json:"lines"`
	Override *Constraints  `json:"override,omitempty"`
}

// PalletSpec dimensiones y límites físicos del pallet, como valores planos:
// el motor no toca repositorios, recibe los datos ya cargados.
type PalletSpec struct {
	WidthCm     decimal.Decimal
	LengthCm    decimal.Decimal
	MaxHeightCm decimal.Decimal
	MaxWeightKg decimal.Decimal
}

// VolumeM3 volumen útil del pallet en m³.
func (p PalletSpec) VolumeM3() decimal.Decimal {
	return p.WidthCm.Mul(p.LengthCm).Mul(p.MaxHeightCm).Div(decimal.NewFromInt(1_000_000))
}

// Item una línea resuelta: cantidades y física del empaque, lista para
// validar y empacar. Quantity es cantidad de ejemplares del empaque.
type Item struct {
	ProductID string
	UnitID    string
	Quantity  decimal.Decimal
	WidthCm   decimal.Decimal
	LengthCm  decimal.Decimal
	HeightCm  decimal.Decimal
	WeightKg  decimal.Decimal // por ejemplar
}

// VolumeM3 volumen de un ejemplar en m³.
func (it Item) VolumeM3() decimal.Decimal {
	return it.WidthCm.Mul(it.LengthCm).Mul(it.HeightCm).Div(decimal.NewFromInt(1_000_000))
}

// Position posición del ítem en cm relativa al origen del pallet.
type Position struct {
	X decimal.Decimal `json:"x"`
	Y decimal.Decimal `json:"y"`
	Z decimal.Decimal `json:"z"`
}

// Dimensions dimensiones del ítem tal como quedó colocado (puede estar rotado 90°).
type Dimensions struct {
	WidthCm  decimal.Decimal `json:"width_cm"`
	LengthCm decimal.Decimal `json:"length_cm"`
	HeightCm decimal.Decimal `json:"height_cm"`
}

// Placement un ítem colocado dentro del arrangement.
type Placement struct {
	ProductID  string     `json:"product_id"`
	UnitID     string     `json:"unit_id"`
	Quantity   int64      `json:"quantity"`
	Position   Position   `json:"position"`
	Dimensions Dimensions `json:"dimensions"`
}

// Layout resultado geométrico del packer.
type Layout struct {
	Layers        int         `json:"layers"`
	ItemsPerLayer int         `json:"items_per_layer"` // ítems colocados en la primera capa
	TotalItems    int64       `json:"total_items"`     // ítems solicitados (enteros)
	PlacedItems   int64       `json:"placed_items"`
	Arrangement   []Placement `json:"arrangement"`
}

// Usage total vs. límite de una magnitud física.
type Usage struct {
	Total       decimal.Decimal `json:"total"`
	Limit       decimal.Decimal `json:"limit"`
	Utilization float64         `json:"utilization"` // Total/Limit
}

// Violation violación física, devuelta como dato (nunca como error Go).
type Violation struct {
	Type     string          `json:"type"` // weight | volume | height | stock
	Severity string          `json:"severity"`
	Message  string          `json:"message"`
	Limit    decimal.Decimal `json:"limit"`
	Actual   decimal.Decimal `json:"actual"`
}

// ProductBreakdown desglose por producto dentro del resultado.
type ProductBreakdown struct {
	ProductID     string          `json:"product_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg"`
	TotalVolumeM3 decimal.Decimal `json:"total_volume_m3"`
	Efficiency    float64         `json:"efficiency"` // fracción de sus ítems colocados
	CanFit        bool            `json:"can_fit"`
	Issues        []string        `json:"issues,omitempty"`
}

// Result resultado completo de evaluar una composición. Es una estructura
// cerrada y tipada: cada campo tiene nombre y tipo, aunque la capa de
// persistencia lo serialice como JSON.
type Result struct {
	IsValid         bool               `json:"is_valid"`
	Efficiency      float64            `json:"efficiency"` // 0..1
	Layout          Layout             `json:"layout"`
	Weight          Usage              `json:"weight"`
	Volume          Usage              `json:"volume"`
	Height          Usage              `json:"height"`
	Violations      []Violation        `json:"violations"`
	Warnings        []string           `json:"warnings"`
	Recommendations []string           `json:"recommendations"`
	Products        []ProductBreakdown `json:"products"`
}

// HasErrors indica si existe al menos una violación de severidad error.
func (r *Result) HasErrors() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}
