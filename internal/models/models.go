package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"                 json:"price"`
	ImageURL    string  `gorm:"column:image_url"         json:"image_url"`
	PaypalLink  string  `gorm:"column:paypal_link"       json:"paypal_link"`
	ZipPath     string  `gorm:"column:zip_path"          json:"zip_path"`
}

// Order references the buyer by email, not user id; an order row can outlive
// the user row it was created under.
type Order struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"       json:"id"`
	UserEmail string    `gorm:"column:user_email;index;not null" json:"user_email"`
	ProductID uint      `gorm:"not null"                       json:"product_id"`
	Timestamp time.Time `gorm:"not null"                       json:"timestamp"`
}
