package models

// Avatar is a purchasable profile picture.
type Avatar struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Filename string `json:"filename"`
	Price    int    `json:"price"`
	Owned    bool   `json:"owned"`
}

// Item is a purchasable consumable, gated behind an account level.
type Item struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Filename      string `json:"filename"`
	Price         int    `json:"price"`
	RequiredLevel int    `json:"required_level"`
	Owned         bool   `json:"owned"`
}

// InventoryItem is an owned item plus how many the user holds.
type InventoryItem struct {
	Item
	Quantity int `json:"quantity"`
}

type ShopListing struct {
	Coins        int      `json:"coins"`
	AccountLevel int      `json:"account_level"`
	Avatars      []Avatar `json:"avatars"`
	Items        []Item   `json:"items"`
}

type BuyLivesRequest struct {
	Amount int `json:"amount"`
}

type BuyItemRequest struct {
	Quantity int `json:"quantity"`
}

type SelectAvatarRequest struct {
	AvatarID int64 `json:"avatar_id"`
}

type PreferredLanguageRequest struct {
	Language string `json:"language"`
}

// PurchaseResult is the common success/failure shape for shop operations.
type PurchaseResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	NewBalance int    `json:"new_balance"`
	NewLives   int    `json:"new_lives,omitempty"`
}
