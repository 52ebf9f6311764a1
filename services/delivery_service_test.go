package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealrescue/marketplace-api/models"
)

func TestCreateForOrderLinksTracking(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db)
	delivery := NewDeliveryService(db)
	item := seedFoodItem(t, db, 5)

	orderID, err := orders.Create(orderInput(item.ID))
	require.NoError(t, err)

	tracking, err := delivery.CreateForOrder(orderID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tracking.TrackingNumber, "TRK-"))
	assert.Equal(t, models.DeliveryStatusPending, tracking.Status)

	history := tracking.History()
	require.Len(t, history, 1)
	assert.Equal(t, models.DeliveryStatusPending, history[0].Status)

	order, err := orders.FindByID(orderID)
	require.NoError(t, err)
	require.NotNil(t, order.DeliveryTrackingID)
	assert.Equal(t, tracking.ID, *order.DeliveryTrackingID)

	found, err := delivery.FindByTrackingNumber(tracking.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, tracking.ID, found.ID)
}

func TestUpdateStatusAppendsHistory(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db)
	delivery := NewDeliveryService(db)
	item := seedFoodItem(t, db, 5)

	orderID, err := orders.Create(orderInput(item.ID))
	require.NoError(t, err)
	_, err = delivery.CreateForOrder(orderID)
	require.NoError(t, err)

	loc := "distribution hub"
	require.NoError(t, delivery.UpdateStatus(orderID, models.DeliveryStatusInTransit, &loc, nil))

	tracking, err := delivery.FindByOrderID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusInTransit, tracking.Status)

	history := tracking.History()
	require.Len(t, history, 2)
	assert.Equal(t, models.DeliveryStatusInTransit, history[1].Status)
}

func TestExternalDeliveredSettlesOrder(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db)
	delivery := NewDeliveryService(db)
	item := seedFoodItem(t, db, 5)

	orderID, err := orders.Create(orderInput(item.ID))
	require.NoError(t, err)
	_, err = delivery.CreateForOrder(orderID)
	require.NoError(t, err)

	ext := "partner-ref-123"
	err = delivery.ApplyExternalUpdate(orderID, ExternalUpdate{
		Status:             models.DeliveryStatusDelivered,
		ExternalTrackingID: &ext,
	})
	require.NoError(t, err)

	tracking, err := delivery.FindByOrderID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusDelivered, tracking.Status)
	require.NotNil(t, tracking.ExternalTrackingID)
	assert.Equal(t, ext, *tracking.ExternalTrackingID)

	history := tracking.History()
	require.NotEmpty(t, history)
	assert.Equal(t, "external_api", history[len(history)-1].Source)

	order, err := orders.FindByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
}
