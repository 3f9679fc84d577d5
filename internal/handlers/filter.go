package handlers

import (
	"sort"
	"strings"

	"github.com/genmesh/meshstore/internal/models"
)

// Catalog filtering and sorting happen in memory after loading the full set;
// the store layer stays a plain "select all".

func filterProducts(items []models.Product, search string) []models.Product {
	if search == "" {
		return items
	}
	needle := strings.ToLower(search)
	out := make([]models.Product, 0, len(items))
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

func sortProducts(items []models.Product, sortBy string) {
	switch sortBy {
	case "name":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	case "price_low":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case "price_high":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	case "newest":
		sort.SliceStable(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	}
}
