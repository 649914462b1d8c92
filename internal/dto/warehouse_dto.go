package dto

type CreateWarehouseRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type WarehouseResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
