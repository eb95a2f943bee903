package provider

import (
	"testing"

	"github.com/reclamohq/reclamo/internal/billing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"evt_1","eventType":"subscription_updated","data":{}}`)
	header := SignPayload("whsec_test", payload, "1741600000")

	require.NoError(t, VerifySignature("whsec_test", payload, header))
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := SignPayload("whsec_test", payload, "1741600000")

	err := VerifySignature("whsec_test", []byte(`{"id":"evt_2"}`), header)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := SignPayload("whsec_other", payload, "1741600000")

	err := VerifySignature("whsec_test", payload, header)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignatureRejectsMissingHeader(t *testing.T) {
	err := VerifySignature("whsec_test", []byte(`{}`), "")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignatureRejectsMalformedHeader(t *testing.T) {
	err := VerifySignature("whsec_test", []byte(`{}`), "v1=abcdef")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	err = VerifySignature("whsec_test", []byte(`{}`), "t=1741600000")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignatureRequiresSecret(t *testing.T) {
	payload := []byte(`{}`)
	header := SignPayload("", payload, "1741600000")

	err := VerifySignature("", payload, header)
	assert.ErrorIs(t, err, domain.ErrMissingWebhookSecret)
}
