package dto

type CreateSupplierRequest struct {
	Name         string `json:"name"           validate:"required,min=2,max=120"`
	ContactEmail string `json:"contact_email"  validate:"required,email"`
	LeadTimeDays int    `json:"lead_time_days" validate:"required,min=1"`
}

type LinkSupplierRequest struct {
	ProductID  string `json:"product_id"  validate:"required,uuid"`
	SupplierID string `json:"supplier_id" validate:"required,uuid"`
}

type SupplierResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	LeadTimeDays int    `json:"lead_time_days"`
}
