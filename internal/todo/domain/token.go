package domain

// TokenPair is what a successful login hands back.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// AccessToken is the refresh response; refresh tokens are not rotated.
type AccessToken struct {
	AccessToken string `json:"accessToken"`
}
