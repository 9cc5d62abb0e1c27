package dto

type CreateReportRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Issue       string `json:"issue" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// ReportQuery filters GET /reports. Status is accepted as an alias of
// ReportStatus.
type ReportQuery struct {
	Email        string `form:"email"`
	ReportStatus string `form:"reportStatus" binding:"omitempty,oneof=Submitted Pending In-Progress Solved"`
	Status       string `form:"status" binding:"omitempty,oneof=Submitted Pending In-Progress Solved"`
	Category     string `form:"category"`
	Priority     string `form:"priority" binding:"omitempty,oneof=Normal High-Priority"`
	Search       string `form:"search"`
}

type StaffTaskQuery struct {
	StaffEmail   string `form:"staffEmail"`
	ReportStatus string `form:"reportStatus"`
}

type AssignStaffRequest struct {
	StaffID    string `json:"staffId" binding:"required"`
	StaffName  string `json:"staffName"`
	StaffEmail string `json:"staffEmail" binding:"omitempty,email"`
}

type ReportStatusRequest struct {
	ReportStatus string `json:"reportStatus" binding:"required"`
	StaffID      string `json:"staffId"`
}
