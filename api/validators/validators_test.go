package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
)

type tenderPayload struct {
	Tender string `json:"tender" validate:"required"`
	Target string `json:"target" validate:"omitempty,oneof=quantity price none"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"tender":"card","target":"price"}`))
	var payload tenderPayload
	require.NoError(t, DecodeJSONBody(req, &payload))
	assert.Equal(t, "card", payload.Tender)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"tender":"card","tip":"1.00"}`))
	var payload tenderPayload
	err := DecodeJSONBody(req, &payload)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"target":"discount"}`))
	var payload tenderPayload
	err := DecodeJSONBody(req, &payload)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["tender"])
	assert.Equal(t, "must be one of quantity price none", details["target"])
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "card", SanitizeString("  card  ", 0))
	assert.Equal(t, "gift", SanitizeString("gift card", 4))
}
