package dto

type CaptchaValidationRequest struct {
	Token string `json:"token" validate:"required"`
	Input string `json:"input" validate:"required"`
}

type CaptchaValidationResponse struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

type CaptchaChallengeResponse struct {
	Token string `json:"token"`
	Image string `json:"image"`
}
