package validation

import "time"

// SignUpRequest is the payload for POST /auth/signup. Role defaults to customer.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,notblank"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=customer admin chef delivery"`
	Phone    string `json:"phone,omitempty" validate:"max=32"`
	Address  string `json:"address,omitempty"`
}

// SignInRequest is the payload for POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// MenuItemRequest is the payload for POST /menu.
type MenuItemRequest struct {
	Name           string   `json:"name" validate:"required,notblank"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" validate:"required,gt=0"`
	Category       string   `json:"category" validate:"required,notblank"`
	Image          string   `json:"image,omitempty" validate:"omitempty,url"`
	Customizations []string `json:"customizations" validate:"dive,notblank"`
	PrepTime       int      `json:"prepTime,omitempty" validate:"omitempty,min=1,max=240"`
}

// MenuPatchRequest is the payload for PATCH /menu/:id. Only sent fields change.
type MenuPatchRequest struct {
	Name           *string   `json:"name,omitempty" validate:"omitempty,notblank"`
	Description    *string   `json:"description,omitempty"`
	Price          *float64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Category       *string   `json:"category,omitempty" validate:"omitempty,notblank"`
	Image          *string   `json:"image,omitempty" validate:"omitempty,url"`
	Available      *bool     `json:"available,omitempty"`
	Customizations *[]string `json:"customizations,omitempty"`
	PrepTime       *int      `json:"prepTime,omitempty" validate:"omitempty,min=1,max=240"`
}

// CartAddRequest is the payload for POST /cart/items.
type CartAddRequest struct {
	MenuItemID     string   `json:"menuItemId" validate:"required"`
	Quantity       int      `json:"quantity" validate:"required,min=1"`
	Customizations []string `json:"customizations"`
}

// CartUpdateRequest is the payload for PATCH /cart/items/:index. Zero or less removes the line.
type CartUpdateRequest struct {
	Quantity int `json:"quantity"`
}

// PaymentRequest carries the card or wallet fields typed at checkout.
type PaymentRequest struct {
	Method         string `json:"method" validate:"required,oneof=card mobile_wallet"`
	CardNumber     string `json:"cardNumber,omitempty"`
	CardHolderName string `json:"cardHolderName,omitempty"`
	Expiry         string `json:"expiry,omitempty"`
	CVV            string `json:"cvv,omitempty"`
	WalletNumber   string `json:"walletNumber,omitempty"`
}

// PlaceOrderRequest is the payload for POST /orders.
type PlaceOrderRequest struct {
	Type            string         `json:"type" validate:"required,oneof=dine-in takeaway delivery"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	ScheduledTime   *time.Time     `json:"scheduledTime,omitempty"`
	Payment         PaymentRequest `json:"payment"`
}

// TransitionRequest is the payload for POST /orders/:id/transitions.
type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready dispatched delivered cancelled"`
}

// ChefAssignmentRequest is the payload for POST /orders/:id/chef.
type ChefAssignmentRequest struct {
	ChefID string `json:"chefId" validate:"required,notblank"`
}

// PaymentStatusRequest is the payload for POST /orders/:id/payment-status.
type PaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending paid failed"`
}
