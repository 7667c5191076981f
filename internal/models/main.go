// Package models defines the data structures exchanged with the upstream
// commerce backend. The gateway never owns these records; the client holds at
// most a cached copy of the authenticated user.
package models

import "time"

// User represents the backend's user record as cached by the client after a
// successful authentication response.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Email is the login email address.
	Email string `json:"email"`
	// FullName is the display name of the user.
	FullName string `json:"full_name"`
	// IsAdmin grants access to the admin-gated surface. Advisory on the
	// client; the backend re-checks it on every call.
	IsAdmin bool `json:"is_admin"`
	// IsActive reports whether the account is enabled.
	IsActive bool `json:"is_active"`
	// IsVerified reports whether the email was confirmed.
	IsVerified bool `json:"is_verified"`
	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the account was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthToken is the credential returned by login, registration and the OAuth
// callback. The access token is opaque to the gateway and the client; only the
// backend validates it.
type AuthToken struct {
	// AccessToken is the bearer credential attached to authenticated calls.
	AccessToken string `json:"access_token"`
	// TokenType is the token scheme, normally "bearer".
	TokenType string `json:"token_type"`
	// User is the account the token belongs to.
	User User `json:"user"`
}

// PromotionType discriminates which optional Promotion fields are meaningful.
type PromotionType string

const (
	// PromotionPercentage is a flat percentage discount.
	PromotionPercentage PromotionType = "percentage"
	// PromotionBuyXPayY charges for Y units out of every X in the cart.
	PromotionBuyXPayY PromotionType = "buy_x_pay_y"
	// PromotionCoupon is a code-activated fixed or percentage discount.
	PromotionCoupon PromotionType = "coupon"
	// PromotionProgressive applies tiered percentages by quantity.
	PromotionProgressive PromotionType = "progressive"
	// PromotionProduct scopes a discount to specific products or categories.
	PromotionProduct PromotionType = "product"
)

// ProgressiveTier is one step of a progressive promotion.
type ProgressiveTier struct {
	MinQuantity int     `json:"min_quantity"`
	Percentage  float64 `json:"percentage"`
}

// Promotion mirrors the backend's discriminated promotion shape. Only the
// fields relevant to Type are meaningful; the backend ignores the rest, and
// the gateway passes the record through without enforcing that invariant.
type Promotion struct {
	ID          string        `json:"id,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Type        PromotionType `json:"type"`
	StartsAt    *time.Time    `json:"starts_at,omitempty"`
	EndsAt      *time.Time    `json:"ends_at,omitempty"`
	Active      bool          `json:"active"`

	Percentage  *float64          `json:"percentage,omitempty"`
	BuyQuantity *int              `json:"buy_quantity,omitempty"`
	PayQuantity *int              `json:"pay_quantity,omitempty"`
	CouponCode  *string           `json:"coupon_code,omitempty"`
	CouponValue *float64          `json:"coupon_value,omitempty"`
	Tiers       []ProgressiveTier `json:"tiers,omitempty"`
	ProductIDs  []string          `json:"product_ids,omitempty"`
	CategoryIDs []string          `json:"category_ids,omitempty"`

	UsageCount int  `json:"usage_count,omitempty"`
	MaxUsages  *int `json:"max_usages,omitempty"`
}
