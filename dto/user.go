package dto

type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// UpdateProfileRequest may carry an email; it is ignored since the email is
// the caller's identity.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user staff admin"`
}

type UserSearchQuery struct {
	SearchUser string `form:"searchUser"`
}
