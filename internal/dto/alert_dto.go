package dto

// Alert is one low-stock warning for a (product, warehouse) pair.
// DaysUntilStockout is nil when demand is unknown (no sales in the window) —
// explicitly distinguished from "about to run out".
type Alert struct {
	ProductID         string         `json:"product_id"`
	ProductName       string         `json:"product_name"`
	SKU               string         `json:"sku"`
	WarehouseID       string         `json:"warehouse_id"`
	WarehouseName     string         `json:"warehouse_name"`
	CurrentStock      int            `json:"current_stock"`
	Threshold         int            `json:"threshold"`
	DaysUntilStockout *int           `json:"days_until_stockout"`
	Supplier          *AlertSupplier `json:"supplier"`
}

// AlertSupplier is the restock suggestion attached to an alert.
type AlertSupplier struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	LeadTimeDays int    `json:"lead_time_days"`
}

type AlertListResponse struct {
	Alerts      []Alert `json:"alerts"`
	TotalAlerts int     `json:"total_alerts"`
}
