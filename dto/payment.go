package dto

type CheckoutRequest struct {
	ReportID string `json:"reportId" binding:"required"`
	Issue    string `json:"issue"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type PaymentSuccessQuery struct {
	SessionID string `form:"session_id" binding:"required"`
}

type PaymentHistoryQuery struct {
	Email string `form:"email"`
}
