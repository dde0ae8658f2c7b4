package shop

import (
	"database/sql"
	"fmt"

	"github.com/wikaquest/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin() (*sql.Tx, error) {
	return s.db.Begin()
}

// wallet locks the purchase-relevant slice of the users row.
type wallet struct {
	Coins        int
	Lives        int
	AccountLevel int
}

func (s *Store) getWalletForUpdate(tx *sql.Tx, userID int64) (*wallet, error) {
	var w wallet
	err := tx.QueryRow(
		`SELECT coins, lives, account_level FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&w.Coins, &w.Lives, &w.AccountLevel)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

func (s *Store) setCoins(tx *sql.Tx, userID int64, coins int) error {
	_, err := tx.Exec(
		`UPDATE users SET coins = $2, updated_at = NOW() WHERE id = $1`,
		userID, coins,
	)
	if err != nil {
		return fmt.Errorf("set coins: %w", err)
	}
	return nil
}

// setLives also clears any running regen window; purchased lives override it.
func (s *Store) setLives(tx *sql.Tx, userID int64, coins, lives int) error {
	_, err := tx.Exec(
		`UPDATE users SET coins = $2, lives = $3, life_regen_start = NULL, updated_at = NOW()
		 WHERE id = $1`,
		userID, coins, lives,
	)
	if err != nil {
		return fmt.Errorf("set lives: %w", err)
	}
	return nil
}

func (s *Store) getAvatar(tx *sql.Tx, avatarID int64) (*models.Avatar, error) {
	var a models.Avatar
	err := tx.QueryRow(
		`SELECT id, name, filename, price FROM avatars WHERE id = $1`,
		avatarID,
	).Scan(&a.ID, &a.Name, &a.Filename, &a.Price)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get avatar: %w", err)
	}
	return &a, nil
}

func (s *Store) ownsAvatar(tx *sql.Tx, userID, avatarID int64) (bool, error) {
	var exists bool
	err := tx.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM user_avatars WHERE user_id = $1 AND avatar_id = $2)`,
		userID, avatarID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check avatar ownership: %w", err)
	}
	return exists, nil
}

func (s *Store) grantAvatar(tx *sql.Tx, userID, avatarID int64) error {
	_, err := tx.Exec(
		`INSERT INTO user_avatars (user_id, avatar_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, avatar_id) DO NOTHING`,
		userID, avatarID,
	)
	if err != nil {
		return fmt.Errorf("grant avatar: %w", err)
	}
	return nil
}

func (s *Store) getItem(tx *sql.Tx, itemID int64) (*models.Item, error) {
	var it models.Item
	err := tx.QueryRow(
		`SELECT id, name, description, filename, price, required_level FROM items WHERE id = $1`,
		itemID,
	).Scan(&it.ID, &it.Name, &it.Description, &it.Filename, &it.Price, &it.RequiredLevel)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

func (s *Store) grantItem(tx *sql.Tx, userID, itemID int64, quantity int) error {
	_, err := tx.Exec(
		`INSERT INTO user_items (user_id, item_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, item_id) DO UPDATE SET quantity = user_items.quantity + EXCLUDED.quantity`,
		userID, itemID, quantity,
	)
	if err != nil {
		return fmt.Errorf("grant item: %w", err)
	}
	return nil
}

// Listing returns the full shop catalogue annotated with ownership.
func (s *Store) Listing(userID int64) (*models.ShopListing, error) {
	listing := &models.ShopListing{Avatars: []models.Avatar{}, Items: []models.Item{}}

	err := s.db.QueryRow(
		`SELECT coins, account_level FROM users WHERE id = $1`,
		userID,
	).Scan(&listing.Coins, &listing.AccountLevel)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("shop listing: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT a.id, a.name, a.filename, a.price,
		        EXISTS (SELECT 1 FROM user_avatars ua WHERE ua.user_id = $1 AND ua.avatar_id = a.id)
		 FROM avatars a ORDER BY a.price, a.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list avatars: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Avatar
		if err := rows.Scan(&a.ID, &a.Name, &a.Filename, &a.Price, &a.Owned); err != nil {
			return nil, err
		}
		listing.Avatars = append(listing.Avatars, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := s.db.Query(
		`SELECT i.id, i.name, i.description, i.filename, i.price, i.required_level,
		        EXISTS (SELECT 1 FROM user_items ui WHERE ui.user_id = $1 AND ui.item_id = i.id)
		 FROM items i ORDER BY i.required_level, i.price, i.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it models.Item
		if err := itemRows.Scan(&it.ID, &it.Name, &it.Description, &it.Filename, &it.Price, &it.RequiredLevel, &it.Owned); err != nil {
			return nil, err
		}
		listing.Items = append(listing.Items, it)
	}
	return listing, itemRows.Err()
}

// Inventory returns the user's owned items with quantities.
func (s *Store) Inventory(userID int64) ([]models.InventoryItem, error) {
	rows, err := s.db.Query(
		`SELECT i.id, i.name, i.description, i.filename, i.price, i.required_level, ui.quantity
		 FROM user_items ui
		 JOIN items i ON i.id = ui.item_id
		 WHERE ui.user_id = $1
		 ORDER BY i.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}
	defer rows.Close()

	items := []models.InventoryItem{}
	for rows.Next() {
		var it models.InventoryItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Filename, &it.Price, &it.RequiredLevel, &it.Quantity); err != nil {
			return nil, err
		}
		it.Owned = true
		items = append(items, it)
	}
	return items, rows.Err()
}

// ItemsByLevel lists items that unlock at exactly the given account level.
func (s *Store) ItemsByLevel(level int) ([]models.Item, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, filename, price, required_level
		 FROM items WHERE required_level = $1 ORDER BY id`,
		level,
	)
	if err != nil {
		return nil, fmt.Errorf("items by level: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Filename, &it.Price, &it.RequiredLevel); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// OwnedAvatars lists the avatars the user has purchased.
func (s *Store) OwnedAvatars(userID int64) ([]models.Avatar, error) {
	rows, err := s.db.Query(
		`SELECT a.id, a.name, a.filename, a.price
		 FROM user_avatars ua
		 JOIN avatars a ON a.id = ua.avatar_id
		 WHERE ua.user_id = $1
		 ORDER BY a.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("owned avatars: %w", err)
	}
	defer rows.Close()

	avatars := []models.Avatar{}
	for rows.Next() {
		var a models.Avatar
		if err := rows.Scan(&a.ID, &a.Name, &a.Filename, &a.Price); err != nil {
			return nil, err
		}
		a.Owned = true
		avatars = append(avatars, a)
	}
	return avatars, rows.Err()
}

// SetProfilePicture points the user's profile at an owned avatar's file.
func (s *Store) SetProfilePicture(userID int64, filename string) error {
	_, err := s.db.Exec(
		`UPDATE users SET profile_picture = $2, updated_at = NOW() WHERE id = $1`,
		userID, filename,
	)
	if err != nil {
		return fmt.Errorf("set profile picture: %w", err)
	}
	return nil
}

func (s *Store) AvatarFilename(avatarID int64) (string, error) {
	var filename string
	err := s.db.QueryRow(`SELECT filename FROM avatars WHERE id = $1`, avatarID).Scan(&filename)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("avatar filename: %w", err)
	}
	return filename, nil
}

func (s *Store) SetPreferredLanguage(userID int64, language string) error {
	_, err := s.db.Exec(
		`UPDATE users SET preferred_language = $2, updated_at = NOW() WHERE id = $1`,
		userID, language,
	)
	if err != nil {
		return fmt.Errorf("set preferred language: %w", err)
	}
	return nil
}
