package utils

import (
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "SmartSpend"

// GenerateTOTPSecret returns the base32 secret and the otpauth:// URL for an
// authenticator app.
func GenerateTOTPSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", "", err
	}

	return key.Secret(), key.URL(), nil
}

func VerifyTOTP(secret, code string) bool {
	if secret == "" || code == "" {
		return false
	}
	return totp.Validate(code, secret)
}
