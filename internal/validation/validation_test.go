package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() PaymentRequest {
	return PaymentRequest{
		Method:         "card",
		CardNumber:     "4111 1111 1111 1234",
		CardHolderName: "Thandi Mokoena",
		Expiry:         "09/27",
		CVV:            "123",
	}
}

func failedTags(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve validatorv10.ValidationErrors
	require.True(t, errors.As(err, &ve), "expected validation errors, got %v", err)
	return validationErrorsToMap(ve)
}

func TestPlaceOrderRequest_Valid(t *testing.T) {
	v := New()
	later := time.Now().Add(time.Hour)
	req := PlaceOrderRequest{
		Type:            "delivery",
		DeliveryAddress: "12 Long Street, Cape Town",
		ScheduledTime:   &later,
		Payment:         validCard(),
	}
	assert.NoError(t, v.Struct(req))

	req = PlaceOrderRequest{Type: "takeaway", Payment: PaymentRequest{Method: "mobile_wallet", WalletNumber: "068 099 8913"}}
	assert.NoError(t, v.Struct(req))
}

func TestPlaceOrderRequest_DeliveryNeedsAddress(t *testing.T) {
	v := New()
	req := PlaceOrderRequest{Type: "delivery", DeliveryAddress: "   ", Payment: validCard()}
	fields := failedTags(t, v.Struct(req))
	assert.Equal(t, "required_for_delivery", fields["deliveryAddress"])
}

func TestPlaceOrderRequest_UnknownType(t *testing.T) {
	v := New()
	fields := failedTags(t, v.Struct(PlaceOrderRequest{Type: "drive-thru", Payment: validCard()}))
	assert.Equal(t, "oneof", fields["type"])
}

func TestPaymentRequest_CardShape(t *testing.T) {
	v := New()
	bad := PaymentRequest{Method: "card", CardNumber: "4111 1111", CardHolderName: " ", Expiry: "13/27", CVV: "12a"}
	fields := failedTags(t, v.Struct(PlaceOrderRequest{Type: "dine-in", Payment: bad}))
	assert.Equal(t, "card_number", fields["cardNumber"])
	assert.Equal(t, "required_for_card", fields["cardHolderName"])
	assert.Equal(t, "mm_yy", fields["expiry"])
	assert.Equal(t, "cvv", fields["cvv"])
}

func TestPaymentRequest_WalletShape(t *testing.T) {
	v := New()
	fields := failedTags(t, v.Struct(PlaceOrderRequest{Type: "dine-in", Payment: PaymentRequest{Method: "mobile_wallet", WalletNumber: "abc"}}))
	assert.Equal(t, "wallet_number", fields["walletNumber"])

	fields = failedTags(t, v.Struct(PlaceOrderRequest{Type: "dine-in"}))
	assert.Equal(t, "required", fields["method"])
}

func TestSignUpRequest(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(SignUpRequest{Email: "chef@ubuntu.co.za", Password: "password", Name: "Sipho", Role: "chef"}))

	fields := failedTags(t, v.Struct(SignUpRequest{Email: "nope", Password: "123", Name: "  ", Role: "owner"}))
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "min", fields["password"])
	assert.Equal(t, "notblank", fields["name"])
	assert.Equal(t, "oneof", fields["role"])
}

func TestMenuRequests(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(MenuItemRequest{Name: "Bunny Chow", Price: 75, Category: "mains"}))
	fields := failedTags(t, v.Struct(MenuItemRequest{Name: "Bunny Chow", Price: -1, Category: "mains", Image: "not a url"}))
	assert.Equal(t, "gt", fields["price"])
	assert.Equal(t, "url", fields["image"])

	blank := " "
	zero := 0.0
	fields = failedTags(t, v.Struct(MenuPatchRequest{Name: &blank, Price: &zero}))
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "price")
	assert.NoError(t, v.Struct(MenuPatchRequest{}))
}

func TestCartAddRequest(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(CartAddRequest{MenuItemID: "flame-burger", Quantity: 2}))
	fields := failedTags(t, v.Struct(CartAddRequest{MenuItemID: "flame-burger"}))
	assert.Equal(t, "required", fields["quantity"])
}

func TestBindAndValidate_WritesBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := New()

	cases := map[string]string{
		"malformed": `{"email":`,
		"invalid":   `{"email":"x","password":""}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req SignInRequest
			assert.Error(t, BindAndValidate(c, &req, v))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
