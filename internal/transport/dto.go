package transport

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PlaceOrderRequest struct {
	Flavour string `json:"flavour"`
}

type UpdateOrderRequest struct {
	Size     *string `json:"size"`
	Flavour  *string `json:"flavour"`
	Quantity *int    `json:"quantity"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"order_status"`
}
