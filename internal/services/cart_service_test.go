package services_test

import (
	"fmt"
	"testing"
	"time"

	"gamestore/internal/models"
	"gamestore/internal/repositories"
	"gamestore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPurchaseRepository is a mock implementation of repositories.PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) CreateBatch(purchases []models.Purchase) error {
	args := m.Called(purchases)
	return args.Error(0)
}

func (m *MockPurchaseRepository) ListByUser(userID uint) ([]models.Purchase, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListGameIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func TestCartService_AddToCart_Idempotent(t *testing.T) {
	gameRepo := new(MockGameRepository)
	purchaseRepo := new(MockPurchaseRepository)
	service := services.NewCartService(gameRepo, purchaseRepo, nil)

	game := &models.Game{ID: 3, Title: "Pixel Raiders", Price: 19.99}
	gameRepo.On("GetByID", uint(3)).Return(game, nil).Twice()

	cart := models.Cart{}
	got, err := service.AddToCart(cart, 3)
	assert.NoError(t, err)
	assert.Equal(t, "Pixel Raiders", got.Title)
	assert.Len(t, cart, 1)

	// Adding the same game again leaves the cart unchanged.
	_, err = service.AddToCart(cart, 3)
	assert.NoError(t, err)
	assert.Len(t, cart, 1)
	assert.Equal(t, 1, cart[3])
	gameRepo.AssertExpectations(t)
}

func TestCartService_AddToCart_UnknownGame(t *testing.T) {
	gameRepo := new(MockGameRepository)
	purchaseRepo := new(MockPurchaseRepository)
	service := services.NewCartService(gameRepo, purchaseRepo, nil)

	gameRepo.On("GetByID", uint(99)).Return(nil, fmt.Errorf("game with ID 99: %w", repositories.ErrNotFound)).Once()

	cart := models.Cart{}
	_, err := service.AddToCart(cart, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Empty(t, cart)
	gameRepo.AssertExpectations(t)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	service := services.NewCartService(new(MockGameRepository), new(MockPurchaseRepository), nil)

	cart := models.Cart{5: 1}
	assert.True(t, service.RemoveFromCart(cart, 5))
	assert.Empty(t, cart)

	// Removing again is informational, not an error.
	assert.False(t, service.RemoveFromCart(cart, 5))
}

func TestCartService_Summarize(t *testing.T) {
	gameRepo := new(MockGameRepository)
	service := services.NewCartService(gameRepo, new(MockPurchaseRepository), nil)

	// The cart holds two resolvable games and one stale ID; the stale
	// entry is dropped from both the listing and the total.
	cart := models.Cart{1: 1, 2: 1, 99: 1}
	resolved := []models.Game{
		{ID: 1, Title: "Pixel Raiders", Price: 19.99},
		{ID: 2, Title: "Speed Kingdom", Price: 49.99},
	}
	gameRepo.On("GetByIDs", mock.MatchedBy(func(ids []uint) bool { return len(ids) == 3 })).
		Return(resolved, nil).Once()

	summary, err := service.Summarize(cart)
	assert.NoError(t, err)
	assert.Len(t, summary.Games, 2)
	assert.InDelta(t, 69.98, summary.TotalPrice, 0.001)
	gameRepo.AssertExpectations(t)
}

func TestCartService_Checkout_EmptyCart(t *testing.T) {
	service := services.NewCartService(new(MockGameRepository), new(MockPurchaseRepository), nil)

	_, err := service.Checkout(1, models.Cart{})
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestCartService_Checkout_SkipsOwnedGames(t *testing.T) {
	gameRepo := new(MockGameRepository)
	purchaseRepo := new(MockPurchaseRepository)
	publisher := new(MockEventPublisher)
	service := services.NewCartService(gameRepo, purchaseRepo, publisher)

	cart := models.Cart{1: 1, 2: 1}
	games := []models.Game{
		{ID: 1, Title: "Pixel Raiders", Price: 19.99},
		{ID: 2, Title: "Speed Kingdom", Price: 49.99},
	}
	purchaseRepo.On("ListGameIDs", uint(7)).Return([]uint{1}, nil).Once()
	gameRepo.On("GetByIDs", mock.AnythingOfType("[]uint")).Return(games, nil).Once()
	purchaseRepo.On("CreateBatch", mock.MatchedBy(func(ps []models.Purchase) bool {
		return len(ps) == 1 && ps[0].UserID == 7 && ps[0].GameID == 2
	})).Return(nil).Once()
	publisher.On("Publish", "purchase", "purchase.completed", mock.Anything).Return(nil).Once()

	result, err := service.Checkout(7, cart)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Pixel Raiders"}, result.AlreadyOwned)
	assert.Len(t, result.Purchased, 1)
	assert.Equal(t, uint(2), result.Purchased[0].ID)
	purchaseRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCartService_Checkout_BatchFailureAbortsAll(t *testing.T) {
	gameRepo := new(MockGameRepository)
	purchaseRepo := new(MockPurchaseRepository)
	publisher := new(MockEventPublisher)
	service := services.NewCartService(gameRepo, purchaseRepo, publisher)

	cart := models.Cart{2: 1}
	purchaseRepo.On("ListGameIDs", uint(7)).Return([]uint{}, nil).Once()
	gameRepo.On("GetByIDs", mock.AnythingOfType("[]uint")).
		Return([]models.Game{{ID: 2, Title: "Speed Kingdom", Price: 49.99}}, nil).Once()
	purchaseRepo.On("CreateBatch", mock.Anything).Return(fmt.Errorf("database error")).Once()

	_, err := service.Checkout(7, cart)
	assert.Error(t, err)
	// No event for a checkout that wrote nothing.
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	purchaseRepo.AssertExpectations(t)
}

func TestCartService_Checkout_AllOwnedPublishesNothing(t *testing.T) {
	gameRepo := new(MockGameRepository)
	purchaseRepo := new(MockPurchaseRepository)
	publisher := new(MockEventPublisher)
	service := services.NewCartService(gameRepo, purchaseRepo, publisher)

	cart := models.Cart{1: 1}
	purchaseRepo.On("ListGameIDs", uint(7)).Return([]uint{1}, nil).Once()
	gameRepo.On("GetByIDs", mock.AnythingOfType("[]uint")).
		Return([]models.Game{{ID: 1, Title: "Pixel Raiders", Price: 19.99}}, nil).Once()
	purchaseRepo.On("CreateBatch", mock.MatchedBy(func(ps []models.Purchase) bool { return len(ps) == 0 })).
		Return(nil).Once()

	result, err := service.Checkout(7, cart)
	assert.NoError(t, err)
	assert.Empty(t, result.Purchased)
	assert.Equal(t, []string{"Pixel Raiders"}, result.AlreadyOwned)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_Library(t *testing.T) {
	gameRepo := new(MockGameRepository)
	purchaseRepo := new(MockPurchaseRepository)
	service := services.NewCartService(gameRepo, purchaseRepo, nil)

	now := time.Now()
	purchases := []models.Purchase{
		{ID: 2, UserID: 7, GameID: 2, PurchaseDate: now},
		{ID: 1, UserID: 7, GameID: 1, PurchaseDate: now.Add(-time.Hour)},
	}
	games := []models.Game{
		{ID: 1, Title: "Pixel Raiders"},
		{ID: 2, Title: "Speed Kingdom"},
	}
	purchaseRepo.On("ListByUser", uint(7)).Return(purchases, nil).Once()
	gameRepo.On("GetByIDs", []uint{2, 1}).Return(games, nil).Once()

	entries, err := service.Library(7)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	// Newest purchase first, as the repository returned them.
	assert.Equal(t, "Speed Kingdom", entries[0].Game.Title)
	assert.Equal(t, "Pixel Raiders", entries[1].Game.Title)
	purchaseRepo.AssertExpectations(t)
	gameRepo.AssertExpectations(t)
}
