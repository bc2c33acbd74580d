package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/fdnorm/internal/schema"
)

// catalogTablePrefix names the tables the FD catalog keeps for itself
const catalogTablePrefix = "fd_catalog"

func isCatalogTable(name string) bool {
	return strings.HasPrefix(name, catalogTablePrefix)
}

// extractTables runs extract for every table name in order
func extractTables(ctx context.Context, names []string, extract func(context.Context, string) (*schema.Table, error)) (*schema.Schema, error) {
	extracted := make([]schema.Table, 0, len(names))
	for _, name := range names {
		table, err := extract(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", name, err)
		}
		extracted = append(extracted, *table)
	}
	return &schema.Schema{Tables: extracted}, nil
}
