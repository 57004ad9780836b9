package services

import (
	"encoding/json"
	"log"

	"gamestore/internal/models"
	"gamestore/internal/repositories"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// CartService handles the session cart and the checkout flow.
type CartService struct {
	gameRepo     repositories.GameRepository
	purchaseRepo repositories.PurchaseRepository
	publisher    EventPublisher
}

// NewCartService creates a new CartService. The publisher may be nil, in
// which case checkout events are skipped.
func NewCartService(gameRepo repositories.GameRepository, purchaseRepo repositories.PurchaseRepository, publisher EventPublisher) *CartService {
	return &CartService{
		gameRepo:     gameRepo,
		purchaseRepo: purchaseRepo,
		publisher:    publisher,
	}
}

// CartSummary is the resolved view of a cart.
type CartSummary struct {
	Games      []models.Game `json:"games"`
	TotalPrice float64       `json:"total_price"`
}

// CheckoutResult reports what a confirmed checkout did.
type CheckoutResult struct {
	Purchased    []models.Game `json:"purchased"`
	AlreadyOwned []string      `json:"already_owned"`
}

// AddToCart verifies the game exists and puts it in the cart. Adding a
// game twice has no further effect. Returns the game for messaging.
func (s *CartService) AddToCart(cart models.Cart, gameID uint) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, err
	}
	cart.Add(game.ID)
	return game, nil
}

// RemoveFromCart takes a game out of the cart and reports whether it was
// there. A missing entry is informational, not an error.
func (s *CartService) RemoveFromCart(cart models.Cart, gameID uint) bool {
	return cart.Remove(gameID)
}

// Summarize resolves the cart's game IDs in one batched lookup and totals
// their prices. IDs that no longer resolve are dropped silently.
func (s *CartService) Summarize(cart models.Cart) (*CartSummary, error) {
	games, err := s.gameRepo.GetByIDs(cart.GameIDs())
	if err != nil {
		return nil, err
	}
	summary := &CartSummary{Games: games}
	for _, game := range games {
		summary.TotalPrice += game.Price
	}
	return summary, nil
}

// Checkout converts the cart into purchase rows for the user. Games the
// user already owns are skipped and reported by title; the remaining rows
// are inserted in a single batch, so a storage failure leaves no partial
// purchases. The caller clears the cart only when Checkout succeeds.
func (s *CartService) Checkout(userID uint, cart models.Cart) (*CheckoutResult, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	ownedIDs, err := s.purchaseRepo.ListGameIDs(userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[uint]bool, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = true
	}

	games, err := s.gameRepo.GetByIDs(cart.GameIDs())
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{}
	var purchases []models.Purchase
	for _, game := range games {
		if owned[game.ID] {
			result.AlreadyOwned = append(result.AlreadyOwned, game.Title)
			continue
		}
		purchases = append(purchases, models.Purchase{UserID: userID, GameID: game.ID})
		result.Purchased = append(result.Purchased, game)
	}

	if err := s.purchaseRepo.CreateBatch(purchases); err != nil {
		return nil, err
	}

	s.publishCheckout(userID, result)
	return result, nil
}

// Library retrieves the games the user owns, newest purchase first.
func (s *CartService) Library(userID uint) ([]models.LibraryEntry, error) {
	purchases, err := s.purchaseRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(purchases))
	for _, p := range purchases {
		ids = append(ids, p.GameID)
	}
	games, err := s.gameRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	entries := make([]models.LibraryEntry, 0, len(purchases))
	for _, p := range purchases {
		game, ok := byID[p.GameID]
		if !ok {
			continue
		}
		entries = append(entries, models.LibraryEntry{Game: game, PurchasedAt: p.PurchaseDate})
	}
	return entries, nil
}

// publishCheckout emits a purchase.completed event. Publishing is best
// effort: a broker failure never fails the checkout itself.
func (s *CartService) publishCheckout(userID uint, result *CheckoutResult) {
	if s.publisher == nil {
		log.Println("Event publisher is not initialized. Skipping purchase event.")
		return
	}
	if len(result.Purchased) == 0 {
		return
	}

	gameIDs := make([]uint, 0, len(result.Purchased))
	var total float64
	for _, game := range result.Purchased {
		gameIDs = append(gameIDs, game.ID)
		total += game.Price
	}
	body, err := json.Marshal(map[string]interface{}{
		"userID":  userID,
		"gameIDs": gameIDs,
		"total":   total,
	})
	if err != nil {
		log.Printf("Failed to marshal purchase event: %v", err)
		return
	}
	if err := s.publisher.Publish("purchase", "purchase.completed", body); err != nil {
		log.Printf("Warning: Failed to publish purchase event for user %d: %v", userID, err)
	} else {
		log.Printf("Published purchase event for user %d (%d games)", userID, len(gameIDs))
	}
}
