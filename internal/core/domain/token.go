package domain

// TokenPurpose selects the signing secret and expiry policy of a token.
type TokenPurpose string

const (
	PurposeAccess       TokenPurpose = "access"
	PurposeRefresh      TokenPurpose = "refresh"
	PurposeVerification TokenPurpose = "verification"
	PurposeReset        TokenPurpose = "reset"
)

// IsSession reports whether tokens of this purpose carry a token_type claim.
func (p TokenPurpose) IsSession() bool {
	return p == PurposeAccess || p == PurposeRefresh
}

// TokenPair is returned by signin and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
