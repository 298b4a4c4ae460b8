package captcha

import (
	"github.com/mojocn/base64Captcha"
)

// Validator is the capability the HTTP layer depends on: issue a challenge
// and check a submitted answer. Implementations own the challenge storage.
type Validator interface {
	// Generate returns a challenge token and a base64-encoded PNG image.
	Generate() (token string, image string, err error)
	// Verify consumes the challenge: a token can only be verified once.
	Verify(token, answer string) bool
}

// Base64Validator implements Validator with digit challenges rendered by
// base64Captcha.
type Base64Validator struct {
	captcha *base64Captcha.Captcha
}

func NewBase64Validator(store base64Captcha.Store) *Base64Validator {
	driver := base64Captcha.NewDriverDigit(80, 240, 5, 0.7, 80)
	return &Base64Validator{
		captcha: base64Captcha.NewCaptcha(driver, store),
	}
}

func (v *Base64Validator) Generate() (string, string, error) {
	id, b64s, _, err := v.captcha.Generate()
	if err != nil {
		return "", "", err
	}
	return id, b64s, nil
}

func (v *Base64Validator) Verify(token, answer string) bool {
	if token == "" || answer == "" {
		return false
	}
	return v.captcha.Verify(token, answer, true)
}
