package infra_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stockpilot/internal/dto"
	"stockpilot/internal/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAlerts() []dto.Alert {
	days := 4
	return []dto.Alert{
		{
			ProductID:         uuid.NewString(),
			ProductName:       "Blue Widget",
			SKU:               "WIDGET-BLU",
			WarehouseID:       uuid.NewString(),
			WarehouseName:     "Main",
			CurrentStock:      6,
			Threshold:         20,
			DaysUntilStockout: &days,
			Supplier: &dto.AlertSupplier{
				ID:           uuid.NewString(),
				Name:         "Quick Co",
				ContactEmail: "orders@quick.example",
				LeadTimeDays: 2,
			},
		},
		{
			ProductID:     uuid.NewString(),
			ProductName:   "Red Widget",
			SKU:           "WIDGET-RED",
			WarehouseID:   uuid.NewString(),
			WarehouseName: "Overflow",
			CurrentStock:  1,
			Threshold:     10,
			// no sales history, no supplier
		},
	}
}

func TestGenerateAlertReportPDF_WritesFile(t *testing.T) {
	dir := t.TempDir()
	companyID := uuid.NewString()

	path, err := infra.GenerateAlertReportPDF(companyID, sampleAlerts(), dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerateAlertReportPDF_Filename(t *testing.T) {
	dir := t.TempDir()
	companyID := uuid.NewString()

	path, err := infra.GenerateAlertReportPDF(companyID, sampleAlerts(), dir)
	require.NoError(t, err)

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "low_stock_"+companyID))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
}

func TestGenerateAlertReportPDF_EmptyList(t *testing.T) {
	dir := t.TempDir()

	path, err := infra.GenerateAlertReportPDF(uuid.NewString(), nil, dir)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
