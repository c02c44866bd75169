package services

import (
	"errors"
	"fmt"
	"time"

	"loja/internal/models"
	"loja/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccountService handles self-service account features: wishlist,
// personal collections, download history, and credential changes.
type AccountService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// Wishlist returns the user's wishlisted products, populated.
func (s *AccountService) Wishlist(userID string) ([]models.Product, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.GetByIDs(user.Wishlist)
}

// AddToWishlist adds an existing product to the wishlist, rejecting
// duplicates.
func (s *AccountService) AddToWishlist(userID, productID string) ([]models.Product, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.InWishlist(productID) {
		return nil, fmt.Errorf("%w: product is already in the wishlist", ErrValidation)
	}
	user.Wishlist = append(user.Wishlist, productID)
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.productRepo.GetByIDs(user.Wishlist)
}

// RemoveFromWishlist removes a product from the wishlist. Removing an
// absent product is a no-op.
func (s *AccountService) RemoveFromWishlist(userID, productID string) ([]models.Product, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	kept := user.Wishlist[:0]
	for _, id := range user.Wishlist {
		if id != productID {
			kept = append(kept, id)
		}
	}
	user.Wishlist = kept
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.productRepo.GetByIDs(user.Wishlist)
}

// Collections returns the user's personal collections.
func (s *AccountService) Collections(userID string) ([]models.UserCollection, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return user.Collections, nil
}

// CreateCollection adds a new empty personal collection.
func (s *AccountService) CreateCollection(userID, name string) ([]models.UserCollection, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: collection name is required", ErrValidation)
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.Collections = append(user.Collections, models.UserCollection{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	})
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user.Collections, nil
}

// UpdateCollection adds or removes one product in a personal
// collection. action is "add" or "remove".
func (s *AccountService) UpdateCollection(userID, collectionID, productID, action string) ([]models.UserCollection, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	var target *models.UserCollection
	for i := range user.Collections {
		if user.Collections[i].ID == collectionID {
			target = &user.Collections[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("collection %s: %w", collectionID, repositories.ErrNotFound)
	}

	switch action {
	case "add":
		already := false
		for _, id := range target.ProductIDs {
			if id == productID {
				already = true
				break
			}
		}
		if !already {
			target.ProductIDs = append(target.ProductIDs, productID)
		}
	case "remove":
		kept := target.ProductIDs[:0]
		for _, id := range target.ProductIDs {
			if id != productID {
				kept = append(kept, id)
			}
		}
		target.ProductIDs = kept
	default:
		return nil, fmt.Errorf("%w: action must be add or remove", ErrValidation)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user.Collections, nil
}

// DeleteCollection removes a personal collection.
func (s *AccountService) DeleteCollection(userID, collectionID string) ([]models.UserCollection, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	kept := user.Collections[:0]
	for _, col := range user.Collections {
		if col.ID != collectionID {
			kept = append(kept, col)
		}
	}
	user.Collections = kept
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user.Collections, nil
}

// RecordDownload appends one download-history entry.
func (s *AccountService) RecordDownload(userID, productID, version string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if version == "" {
		version = "1.0"
	}
	user.DownloadHistory = append(user.DownloadHistory, models.DownloadRecord{
		ProductID:    productID,
		Version:      version,
		DownloadedAt: time.Now(),
	})
	return s.userRepo.Update(user)
}

// UpdateEmail changes the account email after verifying the password.
func (s *AccountService) UpdateEmail(userID, newEmail, password string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	if existing, err := s.userRepo.GetByEmail(newEmail); err == nil && existing != nil {
		return ErrEmailTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	user.Email = newEmail
	return s.userRepo.Update(user)
}

// UpdatePassword changes the password after verifying the current one.
func (s *AccountService) UpdatePassword(userID, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: the new password must have at least 6 characters", ErrValidation)
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(user)
}

// DeleteAccount removes the user's own account.
func (s *AccountService) DeleteAccount(userID string) error {
	return s.userRepo.Delete(userID)
}
