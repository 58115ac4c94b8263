package session

type selectProductRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type focusLineRequest struct {
	LineID string `json:"line_id"`
	Target string `json:"target" validate:"omitempty,oneof=none quantity price"`
}

type numpadKeyRequest struct {
	Key string `json:"key" validate:"required"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

type initiatePaymentRequest struct {
	Tender string `json:"tender" validate:"required"`
}
