package services_test

import (
	"testing"

	"loja/internal/models"
	"loja/internal/repositories"
	"loja/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestAccountService_AddToWishlist(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewAccountService(mockUsers, mockProducts)

	user := &models.User{ID: "u1", Email: "user@example.com", Wishlist: []string{"p1"}}
	mockProducts.On("GetByID", "p2").Return(&models.Product{ID: "p2"}, nil).Once()
	mockUsers.On("GetByID", "u1").Return(user, nil).Once()
	mockUsers.On("Update", user).Return(nil).Once()
	mockProducts.On("GetByIDs", []string{"p1", "p2"}).
		Return([]models.Product{{ID: "p1"}, {ID: "p2"}}, nil).Once()

	products, err := service.AddToWishlist("u1", "p2")

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, []string{"p1", "p2"}, user.Wishlist)
	mockUsers.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
}

func TestAccountService_AddToWishlist_Duplicate(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewAccountService(mockUsers, mockProducts)

	user := &models.User{ID: "u1", Wishlist: []string{"p1"}}
	mockProducts.On("GetByID", "p1").Return(&models.Product{ID: "p1"}, nil).Once()
	mockUsers.On("GetByID", "u1").Return(user, nil).Once()

	_, err := service.AddToWishlist("u1", "p1")

	assert.ErrorIs(t, err, services.ErrValidation)
	mockUsers.AssertNotCalled(t, "Update", mock.Anything)
}

func TestAccountService_AddToWishlist_UnknownProduct(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewAccountService(mockUsers, mockProducts)

	mockProducts.On("GetByID", "ghost").Return(nil, repositories.ErrNotFound).Once()

	_, err := service.AddToWishlist("u1", "ghost")

	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockUsers.AssertNotCalled(t, "Update", mock.Anything)
}

func TestAccountService_RemoveFromWishlist(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewAccountService(mockUsers, mockProducts)

	user := &models.User{ID: "u1", Wishlist: []string{"p1", "p2"}}
	mockUsers.On("GetByID", "u1").Return(user, nil).Once()
	mockUsers.On("Update", user).Return(nil).Once()
	mockProducts.On("GetByIDs", []string{"p2"}).Return([]models.Product{{ID: "p2"}}, nil).Once()

	products, err := service.RemoveFromWishlist("u1", "p1")

	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, []string{"p2"}, user.Wishlist)
}

func TestAccountService_CollectionLifecycle(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := services.NewAccountService(mockUsers, new(MockProductRepository))

	user := &models.User{ID: "u1"}
	mockUsers.On("GetByID", "u1").Return(user, nil)
	mockUsers.On("Update", user).Return(nil)

	// Create.
	collections, err := service.CreateCollection("u1", "Favorites")
	assert.NoError(t, err)
	assert.Len(t, collections, 1)
	assert.Equal(t, "Favorites", collections[0].Name)
	assert.NotEmpty(t, collections[0].ID)
	collectionID := collections[0].ID

	// Add a product, twice: the second add is a no-op.
	collections, err = service.UpdateCollection("u1", collectionID, "p1", "add")
	assert.NoError(t, err)
	collections, err = service.UpdateCollection("u1", collectionID, "p1", "add")
	assert.NoError(t, err)
	assert.Equal(t, []string{"p1"}, collections[0].ProductIDs)

	// Remove the product.
	collections, err = service.UpdateCollection("u1", collectionID, "p1", "remove")
	assert.NoError(t, err)
	assert.Empty(t, collections[0].ProductIDs)

	// Unknown action.
	_, err = service.UpdateCollection("u1", collectionID, "p1", "rename")
	assert.ErrorIs(t, err, services.ErrValidation)

	// Unknown collection.
	_, err = service.UpdateCollection("u1", "ghost", "p1", "add")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Delete.
	collections, err = service.DeleteCollection("u1", collectionID)
	assert.NoError(t, err)
	assert.Empty(t, collections)
}

func TestAccountService_RecordDownload(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := services.NewAccountService(mockUsers, new(MockProductRepository))

	user := &models.User{ID: "u1"}
	mockUsers.On("GetByID", "u1").Return(user, nil).Once()
	mockUsers.On("Update", user).Return(nil).Once()

	err := service.RecordDownload("u1", "p1", "")

	assert.NoError(t, err)
	assert.Len(t, user.DownloadHistory, 1)
	assert.Equal(t, "p1", user.DownloadHistory[0].ProductID)
	// Version defaults when the client does not send one.
	assert.Equal(t, "1.0", user.DownloadHistory[0].Version)
}

func TestAccountService_UpdateEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := services.NewAccountService(mockUsers, new(MockProductRepository))

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: "u1", Email: "old@example.com", Password: string(hashed)}

	mockUsers.On("GetByID", "u1").Return(user, nil).Once()
	mockUsers.On("GetByEmail", "new@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockUsers.On("Update", user).Return(nil).Once()

	err := service.UpdateEmail("u1", "new@example.com", "secret123")

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	mockUsers.AssertExpectations(t)
}

func TestAccountService_UpdateEmail_WrongPassword(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := services.NewAccountService(mockUsers, new(MockProductRepository))

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: "u1", Email: "old@example.com", Password: string(hashed)}
	mockUsers.On("GetByID", "u1").Return(user, nil).Once()

	err := service.UpdateEmail("u1", "new@example.com", "wrong")

	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockUsers.AssertNotCalled(t, "Update", mock.Anything)
}

func TestAccountService_UpdateEmail_Taken(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := services.NewAccountService(mockUsers, new(MockProductRepository))

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: "u1", Email: "old@example.com", Password: string(hashed)}
	mockUsers.On("GetByID", "u1").Return(user, nil).Once()
	mockUsers.On("GetByEmail", "taken@example.com").Return(&models.User{ID: "u2"}, nil).Once()

	err := service.UpdateEmail("u1", "taken@example.com", "secret123")

	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockUsers.AssertNotCalled(t, "Update", mock.Anything)
}

func TestAccountService_UpdatePassword(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := services.NewAccountService(mockUsers, new(MockProductRepository))

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: "u1", Password: string(hashed)}

	mockUsers.On("GetByID", "u1").Return(user, nil).Once()
	mockUsers.On("Update", user).Return(nil).Once()

	err := service.UpdatePassword("u1", "secret123", "newsecret")

	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("newsecret")))

	// Too short.
	err = service.UpdatePassword("u1", "newsecret", "abc")
	assert.ErrorIs(t, err, services.ErrValidation)
}
