package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// MarketStore handles item prices, recipes, and auction listings.
type MarketStore struct {
	db *DB
}

// NewMarketStore creates a new MarketStore.
func NewMarketStore(db *DB) *MarketStore {
	return &MarketStore{db: db}
}

// BulkInsertPrices upserts item prices in a transaction.
func (s *MarketStore) BulkInsertPrices(ctx context.Context, prices []holocron.ItemPrice) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO item_prices
			(item_id, name, item_type, market_value, min_buyout, region_avg, sale_rate, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
			ON CONFLICT(item_id) DO UPDATE SET
				name = excluded.name,
				item_type = excluded.item_type,
				market_value = excluded.market_value,
				min_buyout = excluded.min_buyout,
				region_avg = excluded.region_avg,
				sale_rate = excluded.sale_rate,
				updated_at = excluded.updated_at
		`)
		if err != nil {
			return fmt.Errorf("preparing price statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, p := range prices {
			_, err := stmt.ExecContext(ctx,
				p.ItemID, p.Name, p.ItemType, p.MarketValue,
				p.MinBuyout, p.RegionAvg, p.SaleRate,
			)
			if err != nil {
				return fmt.Errorf("inserting price for item %d: %w", p.ItemID, err)
			}
		}

		return nil
	})
}

// GetPrice retrieves the price record for one item. Returns nil if the
// item has no pricing data.
func (s *MarketStore) GetPrice(ctx context.Context, itemID int64) (*holocron.ItemPrice, error) {
	var p holocron.ItemPrice
	err := s.db.QueryRowContext(ctx, `
		SELECT item_id, name, item_type, market_value, min_buyout, region_avg, sale_rate
		FROM item_prices WHERE item_id = ?
	`, itemID).Scan(
		&p.ItemID, &p.Name, &p.ItemType, &p.MarketValue,
		&p.MinBuyout, &p.RegionAvg, &p.SaleRate,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying item price: %w", err)
	}

	return &p, nil
}

// AllPrices returns every price record keyed by item ID.
func (s *MarketStore) AllPrices(ctx context.Context) (map[int64]holocron.ItemPrice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, name, item_type, market_value, min_buyout, region_avg, sale_rate
		FROM item_prices
	`)
	if err != nil {
		return nil, fmt.Errorf("querying item prices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	prices := make(map[int64]holocron.ItemPrice)
	for rows.Next() {
		var p holocron.ItemPrice
		if err := rows.Scan(
			&p.ItemID, &p.Name, &p.ItemType, &p.MarketValue,
			&p.MinBuyout, &p.RegionAvg, &p.SaleRate,
		); err != nil {
			return nil, fmt.Errorf("scanning item price: %w", err)
		}
		prices[p.ItemID] = p
	}

	return prices, rows.Err()
}

// BulkInsertRecipes upserts recipes and their reagent lists.
func (s *MarketStore) BulkInsertRecipes(ctx context.Context, recipes []holocron.CraftRecipe) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		recipeStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO recipes (id, name, profession, result_item_id, output_quantity)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing recipe statement: %w", err)
		}
		defer func() { _ = recipeStmt.Close() }()

		reagentStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO recipe_reagents (recipe_id, item_id, quantity)
			VALUES (?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing reagent statement: %w", err)
		}
		defer func() { _ = reagentStmt.Close() }()

		for _, r := range recipes {
			qty := r.OutputQuantity
			if qty == 0 {
				qty = 1
			}
			if _, err := recipeStmt.ExecContext(ctx, r.ID, r.Name, r.Profession, r.ResultItemID, qty); err != nil {
				return fmt.Errorf("inserting recipe %d: %w", r.ID, err)
			}
			for _, reagent := range r.Reagents {
				if _, err := reagentStmt.ExecContext(ctx, r.ID, reagent.ItemID, reagent.Quantity); err != nil {
					return fmt.Errorf("inserting reagent for recipe %d: %w", r.ID, err)
				}
			}
		}

		return nil
	})
}

// ListRecipes returns all recipes with their reagent lists.
func (s *MarketStore) ListRecipes(ctx context.Context) ([]holocron.CraftRecipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, profession, result_item_id, output_quantity FROM recipes ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recipes []holocron.CraftRecipe
	for rows.Next() {
		var r holocron.CraftRecipe
		if err := rows.Scan(&r.ID, &r.Name, &r.Profession, &r.ResultItemID, &r.OutputQuantity); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range recipes {
		reagents, err := s.recipeReagents(ctx, recipes[i].ID)
		if err != nil {
			return nil, fmt.Errorf("loading reagents for recipe %d: %w", recipes[i].ID, err)
		}
		recipes[i].Reagents = reagents
	}

	return recipes, nil
}

func (s *MarketStore) recipeReagents(ctx context.Context, recipeID int64) ([]holocron.Reagent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, quantity FROM recipe_reagents WHERE recipe_id = ?
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("querying reagents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reagents []holocron.Reagent
	for rows.Next() {
		var r holocron.Reagent
		if err := rows.Scan(&r.ItemID, &r.Quantity); err != nil {
			return nil, fmt.Errorf("scanning reagent: %w", err)
		}
		reagents = append(reagents, r)
	}

	return reagents, rows.Err()
}

// ReplaceAuctionListings replaces the current auction snapshot.
func (s *MarketStore) ReplaceAuctionListings(ctx context.Context, listings []holocron.SniperHit) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM auction_listings`); err != nil {
			return fmt.Errorf("clearing auction listings: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO auction_listings (item_id, listed_price) VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing listing statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, l := range listings {
			if _, err := stmt.ExecContext(ctx, l.ItemID, l.ListedPrice); err != nil {
				return fmt.Errorf("inserting listing for item %d: %w", l.ItemID, err)
			}
		}

		return nil
	})
}

// SniperCandidates returns listings joined to their market value,
// cheapest relative to market first.
func (s *MarketStore) SniperCandidates(ctx context.Context) ([]holocron.SniperHit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT al.item_id, COALESCE(ip.name, ''), al.listed_price, COALESCE(ip.market_value, 0)
		FROM auction_listings al
		LEFT JOIN item_prices ip ON ip.item_id = al.item_id
		ORDER BY al.listed_price
	`)
	if err != nil {
		return nil, fmt.Errorf("querying auction listings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []holocron.SniperHit
	for rows.Next() {
		var h holocron.SniperHit
		if err := rows.Scan(&h.ItemID, &h.Name, &h.ListedPrice, &h.MarketValue); err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		hits = append(hits, h)
	}

	return hits, rows.Err()
}
