package store

import (
	"fmt"

	"github.com/genmesh/meshstore/internal/hash"
	"github.com/genmesh/meshstore/internal/models"
)

// AdminEmail is the administrator account created on first run.
const (
	AdminEmail    = "admin@3dstore.com"
	adminPassword = "admin123"
)

var seedProducts = []models.Product{
	{
		Name:        "Futuristic Robot Model",
		Description: "High-quality 3D robot model with detailed textures and rigging. Perfect for games, animations, and renders.",
		Price:       29.99,
		ImageURL:    "https://images.unsplash.com/photo-1485827404703-89b55fcc595e?w=400",
		PaypalLink:  "https://www.paypal.com/cgi-bin/webscr?cmd=_s-xclick&hosted_button_id=SAMPLE1",
		ZipPath:     "assets/products/robot.zip",
	},
	{
		Name:        "Sci-Fi Spaceship Pack",
		Description: "Complete spaceship collection with 5 different models, materials, and blueprints included.",
		Price:       49.99,
		ImageURL:    "https://images.unsplash.com/photo-1446776653964-20c1d3a81b06?w=400",
		PaypalLink:  "https://www.paypal.com/cgi-bin/webscr?cmd=_s-xclick&hosted_button_id=SAMPLE2",
		ZipPath:     "assets/products/spaceship.zip",
	},
	{
		Name:        "Architectural Building Set",
		Description: "Modern architectural models including residential and commercial buildings with detailed interiors.",
		Price:       39.99,
		ImageURL:    "https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?w=400",
		PaypalLink:  "https://www.paypal.com/cgi-bin/webscr?cmd=_s-xclick&hosted_button_id=SAMPLE3",
		ZipPath:     "assets/products/building.zip",
	},
	{
		Name:        "Fantasy Character Pack",
		Description: "Collection of fantasy characters including warriors, mages, and mythical creatures.",
		Price:       34.99,
		ImageURL:    "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=400",
		PaypalLink:  "https://www.paypal.com/cgi-bin/webscr?cmd=_s-xclick&hosted_button_id=SAMPLE4",
		ZipPath:     "assets/products/characters.zip",
	},
	{
		Name:        "Vehicle Collection",
		Description: "Sports cars, trucks, and military vehicles with high-detail models and textures.",
		Price:       44.99,
		ImageURL:    "https://images.unsplash.com/photo-1492144534655-ae79c964c9d7?w=400",
		PaypalLink:  "https://www.paypal.com/cgi-bin/webscr?cmd=_s-xclick&hosted_button_id=SAMPLE5",
		ZipPath:     "assets/products/vehicles.zip",
	},
	{
		Name:        "Weapon Arsenal",
		Description: "Complete weapon pack including medieval swords, modern firearms, and sci-fi energy weapons.",
		Price:       24.99,
		ImageURL:    "https://images.unsplash.com/photo-1595590424283-b8f17842773f?w=400",
		PaypalLink:  "https://www.paypal.com/cgi-bin/webscr?cmd=_s-xclick&hosted_button_id=SAMPLE6",
		ZipPath:     "assets/products/weapons.zip",
	},
}

func (s *Store) seed() error {
	products := make([]models.Product, len(seedProducts))
	copy(products, seedProducts)
	if err := s.db.Create(&products).Error; err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	adminHash, err := hash.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Email:        AdminEmail,
		PasswordHash: adminHash,
		Role:         "admin",
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}
