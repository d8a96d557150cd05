package api

import (
	"context"
	"fmt"
	"net/url"
)

// BookLevel is one wire-format price level. Polymarket sends prices and
// sizes as decimal strings.
type BookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// Book is the CLOB orderbook response for one token.
type Book struct {
	Market    string      `json:"market"`
	AssetID   string      `json:"asset_id"`
	Timestamp string      `json:"timestamp"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
}

// GetBook fetches the current orderbook for a CLOB token.
func (c *Client) GetBook(ctx context.Context, tokenID string) (*Book, error) {
	query := url.Values{}
	query.Set("token_id", tokenID)

	var book Book
	if err := c.get(ctx, KeyClobBook, c.clobURL, "/book", query, &book); err != nil {
		return nil, fmt.Errorf("get book for token %s: %w", tokenID, err)
	}

	return &book, nil
}
