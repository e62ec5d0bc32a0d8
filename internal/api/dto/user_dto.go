package dto

// UserResponse is the public shape of an account.
type UserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// DeleteUserRequest names the account to delete by email.
type DeleteUserRequest struct {
	Email *string `json:"email"`
}

// DeleteUserResponse summarizes the deletion cascade.
type DeleteUserResponse struct {
	DeletedTransactions int64 `json:"deletedTransactions"`
	DeletedFromGroup    bool  `json:"deletedFromGroup"`
}
