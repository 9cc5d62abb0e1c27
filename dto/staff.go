package dto

type StaffApplicationRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type StaffQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	WorkStatus string `form:"workStatus" binding:"omitempty,oneof=available working"`
}

type StaffDecisionRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
	Email  string `json:"email" binding:"omitempty,email"`
}
