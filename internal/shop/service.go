package shop

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/wikaquest/backend/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
)

const fullHealthPrice = 80

// livesPrices is the bundle price table for buying lives directly.
var livesPrices = map[int]int{
	1: 10,
	3: 25,
	5: 40,
}

// LivesPrice returns the cost of a lives bundle and whether the bundle size
// is sold at all.
func LivesPrice(amount int) (int, bool) {
	price, ok := livesPrices[amount]
	return price, ok
}

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.store.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// BuyLives purchases a bundle of lives. Lives cap at the maximum and any
// running regen window is cleared: bought lives are an override, not a regen
// event.
func (s *Service) BuyLives(userID int64, amount int) (*models.PurchaseResult, error) {
	price, ok := LivesPrice(amount)
	if !ok {
		return &models.PurchaseResult{Success: false, Message: "Invalid amount"}, nil
	}

	var result *models.PurchaseResult
	err := s.inTx(func(tx *sql.Tx) error {
		w, err := s.store.getWalletForUpdate(tx, userID)
		if err != nil {
			return err
		}
		if w.Lives >= models.MaxLives {
			result = &models.PurchaseResult{Success: false, Message: "Already at max lives", NewBalance: w.Coins}
			return nil
		}
		if w.Coins < price {
			result = &models.PurchaseResult{Success: false, Message: "Not enough coins", NewBalance: w.Coins}
			return nil
		}

		newLives := w.Lives + amount
		if newLives > models.MaxLives {
			newLives = models.MaxLives
		}
		newCoins := w.Coins - price
		if err := s.store.setLives(tx, userID, newCoins, newLives); err != nil {
			return err
		}

		result = &models.PurchaseResult{
			Success:    true,
			Message:    fmt.Sprintf("Bought %d lives", amount),
			NewBalance: newCoins,
			NewLives:   newLives,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BuyFullHealth refills lives to the cap for a flat price.
func (s *Service) BuyFullHealth(userID int64) (*models.PurchaseResult, error) {
	var result *models.PurchaseResult
	err := s.inTx(func(tx *sql.Tx) error {
		w, err := s.store.getWalletForUpdate(tx, userID)
		if err != nil {
			return err
		}
		if w.Coins < fullHealthPrice {
			result = &models.PurchaseResult{Success: false, Message: "Not enough coins", NewBalance: w.Coins}
			return nil
		}

		newCoins := w.Coins - fullHealthPrice
		if err := s.store.setLives(tx, userID, newCoins, models.MaxLives); err != nil {
			return err
		}

		result = &models.PurchaseResult{
			Success:    true,
			Message:    "Lives fully restored",
			NewBalance: newCoins,
			NewLives:   models.MaxLives,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BuyAvatar purchases an avatar once; repeat purchases are rejected.
func (s *Service) BuyAvatar(userID, avatarID int64) (*models.PurchaseResult, error) {
	var result *models.PurchaseResult
	err := s.inTx(func(tx *sql.Tx) error {
		owned, err := s.store.ownsAvatar(tx, userID, avatarID)
		if err != nil {
			return err
		}
		if owned {
			result = &models.PurchaseResult{Success: false, Message: "You already own this avatar"}
			return nil
		}

		avatar, err := s.store.getAvatar(tx, avatarID)
		if err != nil {
			return err
		}
		if avatar == nil {
			result = &models.PurchaseResult{Success: false, Message: "Avatar not found"}
			return nil
		}

		w, err := s.store.getWalletForUpdate(tx, userID)
		if err != nil {
			return err
		}
		if w.Coins < avatar.Price {
			result = &models.PurchaseResult{Success: false, Message: "Not enough coins", NewBalance: w.Coins}
			return nil
		}

		newCoins := w.Coins - avatar.Price
		if err := s.store.setCoins(tx, userID, newCoins); err != nil {
			return err
		}
		if err := s.store.grantAvatar(tx, userID, avatarID); err != nil {
			return err
		}

		result = &models.PurchaseResult{Success: true, Message: "Avatar purchased", NewBalance: newCoins}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BuyItem purchases a quantity of one item, stacking onto any existing stock.
// Items gated above the user's account level are refused.
func (s *Service) BuyItem(userID, itemID int64, quantity int) (*models.PurchaseResult, error) {
	if quantity < 1 {
		return &models.PurchaseResult{Success: false, Message: "Invalid quantity"}, nil
	}

	var result *models.PurchaseResult
	err := s.inTx(func(tx *sql.Tx) error {
		item, err := s.store.getItem(tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			result = &models.PurchaseResult{Success: false, Message: "Item not found"}
			return nil
		}

		w, err := s.store.getWalletForUpdate(tx, userID)
		if err != nil {
			return err
		}
		if w.AccountLevel < item.RequiredLevel {
			result = &models.PurchaseResult{
				Success:    false,
				Message:    fmt.Sprintf("Requires account level %d", item.RequiredLevel),
				NewBalance: w.Coins,
			}
			return nil
		}

		total := item.Price * quantity
		if w.Coins < total {
			result = &models.PurchaseResult{Success: false, Message: "Not enough coins", NewBalance: w.Coins}
			return nil
		}

		newCoins := w.Coins - total
		if err := s.store.setCoins(tx, userID, newCoins); err != nil {
			return err
		}
		if err := s.store.grantItem(tx, userID, itemID, quantity); err != nil {
			return err
		}

		result = &models.PurchaseResult{
			Success:    true,
			Message:    fmt.Sprintf("Bought %d x %s", quantity, item.Name),
			NewBalance: newCoins,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SelectAvatar sets the profile picture to an avatar the user owns.
func (s *Service) SelectAvatar(userID, avatarID int64) error {
	var owned bool
	err := s.inTx(func(tx *sql.Tx) error {
		var err error
		owned, err = s.store.ownsAvatar(tx, userID, avatarID)
		return err
	})
	if err != nil {
		return err
	}
	if !owned {
		return fmt.Errorf("avatar %d not owned: %w", avatarID, ErrNotFound)
	}

	filename, err := s.store.AvatarFilename(avatarID)
	if err != nil {
		return err
	}
	return s.store.SetProfilePicture(userID, filename)
}

func (s *Service) Listing(userID int64) (*models.ShopListing, error) {
	return s.store.Listing(userID)
}

func (s *Service) Inventory(userID int64) ([]models.InventoryItem, error) {
	return s.store.Inventory(userID)
}

func (s *Service) ItemsByLevel(level int) ([]models.Item, error) {
	return s.store.ItemsByLevel(level)
}

func (s *Service) OwnedAvatars(userID int64) ([]models.Avatar, error) {
	return s.store.OwnedAvatars(userID)
}

func (s *Service) SetPreferredLanguage(userID int64, language string) error {
	if !models.ValidLanguage(language) {
		return fmt.Errorf("invalid language %q", language)
	}
	return s.store.SetPreferredLanguage(userID, language)
}
