package contract

// SessionResponse describes the caller. Anonymous callers only get SignedIn=false.
type SessionResponse struct {
	SignedIn        bool   `json:"signedIn"`
	UserID          string `json:"userId,omitempty"`
	Name            string `json:"name,omitempty"`
	TwitterID       string `json:"twitterId,omitempty"`
	TwitterUsername string `json:"twitterUsername,omitempty"`
}

type SignInRequest struct {
	Username string `query:"username"`
	Password string `query:"password"`
}

type FederatedSignInRequest struct {
	AccessToken string `json:"accessToken" validate:"required,max=8192"`
}

type SignInResponse struct {
	Success bool   `json:"success"`
	ItemID  string `json:"itemId,omitempty"`
}

type SignOutResponse struct {
	Success bool `json:"success"`
}
