package models

import (
	"strings"
	"time"
)

type OrderSize string

const (
	SizeSmall      OrderSize = "small"
	SizeMedium     OrderSize = "medium"
	SizeLarge      OrderSize = "large"
	SizeExtraLarge OrderSize = "extra_large"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusInTransit OrderStatus = "in_transit"
	StatusDelivered OrderStatus = "delivered"
)

type OrderFlavour string

const (
	FlavourBBQChicken  OrderFlavour = "bbq_chicken"
	FlavourPepperoni   OrderFlavour = "pepperoni"
	FlavourSausage     OrderFlavour = "sausage"
	FlavourCheese      OrderFlavour = "cheese"
	FlavourExtraCheese OrderFlavour = "extra_cheese"
	FlavourBacon       OrderFlavour = "bacon"
	FlavourPineapple   OrderFlavour = "pineapple"
	FlavourMargherita  OrderFlavour = "margherita"
)

// Enum values travel on the wire as plain lowercase strings. Clients of the
// old API sent uppercase names, so parsing stays case-insensitive.
func ParseOrderSize(s string) (OrderSize, bool) {
	v := OrderSize(strings.ToLower(s))
	switch v {
	case SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge:
		return v, true
	}
	return "", false
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	v := OrderStatus(strings.ToLower(s))
	switch v {
	case StatusPending, StatusInTransit, StatusDelivered:
		return v, true
	}
	return "", false
}

func ParseOrderFlavour(s string) (OrderFlavour, bool) {
	v := OrderFlavour(strings.ToLower(s))
	switch v {
	case FlavourBBQChicken, FlavourPepperoni, FlavourSausage, FlavourCheese,
		FlavourExtraCheese, FlavourBacon, FlavourPineapple, FlavourMargherita:
		return v, true
	}
	return "", false
}

type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string  `gorm:"unique;not null"          json:"username"`
	Email        string  `gorm:"unique;not null"          json:"email"`
	PasswordHash string  `gorm:"not null"                 json:"-"`
	IsStaff      bool    `gorm:"not null;default:false"   json:"is_staff"`
	IsActive     bool    `gorm:"not null;default:true"    json:"is_active"`
	Orders       []Order `gorm:"foreignKey:UserID"        json:"orders,omitempty"`
}

type Order struct {
	ID        uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Size      OrderSize    `gorm:"not null;default:small"   json:"size"`
	Quantity  int          `gorm:"not null;default:1"       json:"quantity"`
	Flavour   OrderFlavour `gorm:"not null"                 json:"flavour"`
	Status    OrderStatus  `gorm:"not null;default:pending" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UserID    uint         `gorm:"index;not null"           json:"user_id"`
}

// RevokedToken is an append-only deny-list entry. The presence of a jti here
// keeps the matching token invalid regardless of its expiry.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	RevokedAt time.Time `gorm:"not null"             json:"revoked_at"`
}
