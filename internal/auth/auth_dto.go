package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse also returns the session id for clients that cannot keep cookies.
type LoginResponse struct {
	SessionID string      `json:"session_id"`
	Session   SessionView `json:"session"`
}
