package discord

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
}

type GuildMember struct {
	Nick   string   `json:"nick"`
	Avatar string   `json:"avatar"`
	Roles  []string `json:"roles"`
}

// Profile is what the callback needs about a signed in member.
type Profile struct {
	User      User
	Roles     []string
	AvatarURL string
}
