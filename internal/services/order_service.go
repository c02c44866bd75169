package services

import (
	"loja/internal/models"
	"loja/internal/repositories"
)

// OrderService serves the buyer-facing order queries. Orders are only
// ever created by the fulfillment pipeline.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// MyOrders retrieves the buyer's orders, newest first.
func (s *OrderService) MyOrders(email string) ([]models.Order, error) {
	return s.orderRepo.GetByUserEmail(email)
}

// Library returns the distinct products the buyer has purchased across
// all paid orders. Products that were deleted since purchase are
// omitted.
func (s *OrderService) Library(email string) ([]models.Product, error) {
	orders, err := s.orderRepo.GetPaidByUserEmail(email)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	for _, order := range orders {
		for _, item := range order.Items {
			if item.ProductID != "" && !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
	}
	return s.productRepo.GetByIDs(ids)
}
