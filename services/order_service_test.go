package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
)

func TestPlaceOrderOpensTable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewOrderService(db, NewNotifier(nil, pub))
	table := createTable(t, db, 4)
	tikka := createMenuItem(t, db, "Paneer Tikka", "250.00", "Appetizers")
	lassi := createMenuItem(t, db, "Mango Lassi", "90.50", "Beverages")
	staffID := uint(7)

	order, err := svc.PlaceOrder(ctx, table.ID, &staffID, []OrderLine{
		{MenuItemID: tikka.ID, Quantity: 2},
		{MenuItemID: lassi.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	require.Len(t, order.Items, 2)
	require.NotNil(t, order.StaffID)
	assert.Equal(t, staffID, *order.StaffID)

	var reloaded models.Table
	require.NoError(t, db.First(&reloaded, table.ID).Error)
	assert.Equal(t, models.TableOccupied, reloaded.Status)
	require.NotNil(t, reloaded.CurrentOrderID)
	assert.Equal(t, order.ID, *reloaded.CurrentOrderID)
	assert.Equal(t, []string{"order.placed", "table.updated"}, pub.keys())
}

func TestPlaceOrderAppendsToOpenOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewOrderService(db, nil)
	table := createTable(t, db, 4)
	tikka := createMenuItem(t, db, "Paneer Tikka", "250.00", "Appetizers")
	kulfi := createMenuItem(t, db, "Kulfi", "120.00", "Desserts")

	first, err := svc.PlaceOrder(ctx, table.ID, nil, []OrderLine{{MenuItemID: tikka.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.MarkReady(ctx, first.ID)
	require.NoError(t, err)

	second, err := svc.PlaceOrder(ctx, table.ID, nil, []OrderLine{{MenuItemID: kulfi.ID, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Items, 2)
	assert.Equal(t, models.OrderPending, second.Status)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(1), orders)
}

func TestPlaceOrderSnapshotsPrice(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewOrderService(db, nil)
	table := createTable(t, db, 2)
	dosa := createMenuItem(t, db, "Masala Dosa", "150.00", "Main Course")

	order, err := svc.PlaceOrder(ctx, table.ID, nil, []OrderLine{{MenuItemID: dosa.ID, Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, db.Model(&dosa).Update("price", decimal.RequireFromString("175.00")).Error)

	reloaded, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Items[0].Price.Equal(decimal.RequireFromString("150.00")))
}

func TestPlaceOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewOrderService(db, nil)
	table := createTable(t, db, 2)
	dosa := createMenuItem(t, db, "Masala Dosa", "150.00", "Main Course")

	_, err := svc.PlaceOrder(ctx, table.ID, nil, nil)
	assertCategory(t, err, utils.ErrInvalid)

	_, err = svc.PlaceOrder(ctx, table.ID, nil, []OrderLine{{MenuItemID: dosa.ID, Quantity: 0}})
	assertCategory(t, err, utils.ErrInvalid)

	_, err = svc.PlaceOrder(ctx, table.ID, nil, []OrderLine{{MenuItemID: 999, Quantity: 1}})
	assertCategory(t, err, utils.ErrNotFound)

	_, err = svc.PlaceOrder(ctx, 999, nil, []OrderLine{{MenuItemID: dosa.ID, Quantity: 1}})
	assertCategory(t, err, utils.ErrNotFound)

	var reloaded models.Table
	require.NoError(t, db.First(&reloaded, table.ID).Error)
	assert.Equal(t, models.TableAvailable, reloaded.Status)
	assert.Nil(t, reloaded.CurrentOrderID)
}

func TestKitchenQueueAndMarkReady(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewOrderService(db, nil)
	t1 := createTable(t, db, 2)
	t2 := createTable(t, db, 2)
	dosa := createMenuItem(t, db, "Masala Dosa", "150.00", "Main Course")

	first, err := svc.PlaceOrder(ctx, t1.ID, nil, []OrderLine{{MenuItemID: dosa.ID, Quantity: 1}})
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, t2.ID, nil, []OrderLine{{MenuItemID: dosa.ID, Quantity: 3}})
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, "Masala Dosa", pending[1].Items[0].MenuItem.Name)

	ready, err := svc.MarkReady(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderReady, ready.Status)

	_, err = svc.MarkReady(ctx, first.ID)
	assertCategory(t, err, utils.ErrConflict)
	_, err = svc.MarkReady(ctx, 999)
	assertCategory(t, err, utils.ErrNotFound)

	pending, err = svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	open, err := svc.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 2)
}
