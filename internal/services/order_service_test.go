package services_test

import (
	"testing"

	"loja/internal/models"
	"loja/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestOrderService_MyOrders(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	service := services.NewOrderService(mockOrders, new(MockProductRepository))

	expected := []models.Order{{ID: "o2"}, {ID: "o1"}}
	mockOrders.On("GetByUserEmail", "buyer@example.com").Return(expected, nil).Once()

	orders, err := service.MyOrders("buyer@example.com")

	assert.NoError(t, err)
	assert.Equal(t, expected, orders)
	mockOrders.AssertExpectations(t)
}

func TestOrderService_Library_DeduplicatesAcrossOrders(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewOrderService(mockOrders, mockProducts)

	orders := []models.Order{
		{ID: "o1", Items: []models.OrderItem{{ProductID: "p1"}, {ProductID: "p2"}}},
		{ID: "o2", Items: []models.OrderItem{{ProductID: "p2"}, {ProductID: "p3"}}},
	}
	mockOrders.On("GetPaidByUserEmail", "buyer@example.com").Return(orders, nil).Once()
	// p3 was deleted since purchase; the repository simply does not
	// return it.
	mockProducts.On("GetByIDs", []string{"p1", "p2", "p3"}).
		Return([]models.Product{{ID: "p1"}, {ID: "p2"}}, nil).Once()

	library, err := service.Library("buyer@example.com")

	assert.NoError(t, err)
	assert.Len(t, library, 2)
	mockOrders.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
}
