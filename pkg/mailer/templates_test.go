package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerifyEmail(t *testing.T) {
	subject, html, err := Render(TemplateVerifyEmail, map[string]any{
		"AppName":   "CoinAcademia",
		"Name":      "Alice",
		"VerifyURL": "http://localhost:5500/verify-email.html?token=abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "Verify your email - CoinAcademia", subject)
	assert.Contains(t, html, "Alice")
	assert.Contains(t, html, "verify-email.html?token=abc")
}

func TestRenderResetPassword(t *testing.T) {
	subject, html, err := Render(TemplateResetPassword, map[string]any{
		"AppName":  "CoinAcademia",
		"ResetURL": "http://localhost:5500/reset-password.html?token=xyz",
	})
	require.NoError(t, err)
	assert.Equal(t, "Reset your password - CoinAcademia", subject)
	assert.Contains(t, html, "reset-password.html?token=xyz")
}

func TestRenderEscapesData(t *testing.T) {
	_, html, err := Render(TemplateVerifyEmail, map[string]any{
		"Name":      "<script>alert(1)</script>",
		"VerifyURL": "http://example.com",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := Render("nope", nil)
	assert.Error(t, err)
}
