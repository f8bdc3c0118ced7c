package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfpMint/errs"
)

func testConfig(apiBase string) Config {
	return Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:3000/auth/callback",
		GuildID:      "guild",
		APIBaseURL:   apiBase,
		CDNBaseURL:   "https://cdn.test",
	}
}

func fakeDiscord(t *testing.T, memberAvatar string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid \"code\" in request."}`))
			return
		}
		assert.Equal(t, "client", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":604800}`))
	})
	mux.HandleFunc("/users/@me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"42","username":"nad","discriminator":"0","avatar":"abc"}`))
	})
	mux.HandleFunc("/users/@me/guilds/guild/member", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"avatar":"` + memberAvatar + `","roles":["1037873237159321612","1"]}`))
	})
	return httptest.NewServer(mux)
}

func TestAuthorizeURL(t *testing.T) {
	s := NewService(resty.New(), testConfig(""))
	u, err := url.Parse(s.AuthorizeURL())
	require.NoError(t, err)
	assert.Equal(t, "discord.com", u.Host)
	assert.Equal(t, "/api/oauth2/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, Scope, q.Get("scope"))
	assert.Equal(t, "http://localhost:3000/auth/callback", q.Get("redirect_uri"))
}

func TestProfile(t *testing.T) {
	srv := fakeDiscord(t, "")
	defer srv.Close()

	p, err := NewService(resty.New(), testConfig(srv.URL)).Profile(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "42", p.User.ID)
	assert.Equal(t, "nad", p.User.Username)
	assert.Equal(t, []string{"1037873237159321612", "1"}, p.Roles)
	assert.Equal(t, "https://cdn.test/avatars/42/abc.png?size=1024", p.AvatarURL)
}

func TestProfile_BadCode(t *testing.T) {
	srv := fakeDiscord(t, "")
	defer srv.Close()

	_, err := NewService(resty.New(), testConfig(srv.URL)).Profile(context.Background(), "bad")
	require.Error(t, err)
	assert.Equal(t, errs.UpstreamAuth, errs.KindOf(err))
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestAvatarURL(t *testing.T) {
	const cdn = "https://cdn.discordapp.com"
	tests := []struct {
		name   string
		user   User
		member GuildMember
		want   string
	}{
		{
			name:   "guild avatar wins",
			user:   User{ID: "1", Avatar: "useravatar"},
			member: GuildMember{Avatar: "guildavatar"},
			want:   cdn + "/guilds/g/users/1/avatars/guildavatar.png?size=1024",
		},
		{
			name: "user avatar",
			user: User{ID: "1", Avatar: "useravatar"},
			want: cdn + "/avatars/1/useravatar.png?size=1024",
		},
		{
			name: "default avatar by discriminator",
			user: User{ID: "1", Discriminator: "1337"},
			want: cdn + "/embed/avatars/2.png",
		},
		{
			name: "migrated username",
			user: User{ID: "1", Discriminator: "0"},
			want: cdn + "/embed/avatars/0.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvatarURL(cdn, "g", tt.user, tt.member))
		})
	}
}
