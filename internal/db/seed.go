package db

import (
	"context"       // Write context
	"encoding/json" // Catalog file decoding
	"fmt"           // Error wrapping
	"os"            // File access

	"github.com/sirupsen/logrus" // Logging

	"token_swipe/internal/domain" // Token model
	"token_swipe/internal/store"  // Catalog writer contract
)

// LoadCatalogFile decodes a JSON array of tokens
func LoadCatalogFile(path string) ([]domain.Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var tokens []domain.Token
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return tokens, nil
}

// SeedCatalog upserts the tokens of a JSON catalog file through w
func SeedCatalog(ctx context.Context, w store.CatalogWriter, path string) (int, error) {
	tokens, err := LoadCatalogFile(path)
	if err != nil {
		return 0, err
	}
	if err := w.UpsertTokens(ctx, tokens); err != nil {
		return 0, fmt.Errorf("seed catalog: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"path":   path,        // Source file
		"tokens": len(tokens), // Rows written
	}).Info("Catalog seeded")
	return len(tokens), nil
}
