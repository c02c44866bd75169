package repositories

import "loja/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetByProviderID(provider, providerID string) (*models.User, error)
	GetByResetToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id string) error
}
