package dto

// SendOTPRequest тело POST /api/auth/send-otp.
type SendOTPRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyOTPRequest тело POST /api/auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// SignupRequest тело POST /api/auth/signup.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest тело POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AIRequest тело POST /api/ai/chat и /api/ai/image.
type AIRequest struct {
	Input string `json:"input" binding:"required"`
}

// ContactRequest тело POST /api/sales/contact.
type ContactRequest struct {
	Message string `json:"message" binding:"required"`
}
