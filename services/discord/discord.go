// Package discord signs members in through Discord OAuth and reads the
// profile and guild roles the image is built from.
package discord

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"

	"pfpMint/errs"
)

type Service interface {
	AuthService
	GetCurrentUser(ctx context.Context, token *AuthResponse) (*User, error)
	GetGuildMember(ctx context.Context, token *AuthResponse) (*GuildMember, error)
	// Profile redeems code and collects everything the callback renders.
	Profile(ctx context.Context, code string) (*Profile, error)
}

type service struct {
	*AuthServiceImpl
}

var _ Service = (*service)(nil)

func NewService(client *resty.Client, cfg Config) Service {
	return &service{AuthServiceImpl: NewAuthService(client, cfg)}
}

func (s *service) get(ctx context.Context, token *AuthResponse, path string, result any) error {
	responseError := &apiError{}
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Authorization", fmt.Sprintf("%s %s", token.TokenType, token.AccessToken)).
		SetResult(result).
		SetError(responseError).
		Get(s.cfg.apiBase() + path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("GET %s: %s: %s", path, resp.Status(), responseError.Message)
	}
	return nil
}

type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (s *service) GetCurrentUser(ctx context.Context, token *AuthResponse) (*User, error) {
	u := &User{}
	if err := s.get(ctx, token, "/users/@me", u); err != nil {
		return nil, errs.E(errs.UpstreamAuth, "discord.GetCurrentUser", err)
	}
	return u, nil
}

func (s *service) GetGuildMember(ctx context.Context, token *AuthResponse) (*GuildMember, error) {
	m := &GuildMember{}
	if err := s.get(ctx, token, "/users/@me/guilds/"+s.cfg.GuildID+"/member", m); err != nil {
		return nil, errs.E(errs.UpstreamAuth, "discord.GetGuildMember", err)
	}
	return m, nil
}

func (s *service) Profile(ctx context.Context, code string) (*Profile, error) {
	token, err := s.GetAccessToken(ctx, code)
	if err != nil {
		return nil, err
	}
	u, err := s.GetCurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	m, err := s.GetGuildMember(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:      *u,
		Roles:     m.Roles,
		AvatarURL: AvatarURL(s.cfg.cdnBase(), s.cfg.GuildID, *u, *m),
	}, nil
}

// AvatarURL prefers the guild specific avatar, then the account avatar, then
// one of Discord's default avatars.
func AvatarURL(cdnBase, guildID string, u User, m GuildMember) string {
	if m.Avatar != "" {
		return fmt.Sprintf("%s/guilds/%s/users/%s/avatars/%s.png?size=1024", cdnBase, guildID, u.ID, m.Avatar)
	}
	if u.Avatar != "" {
		return fmt.Sprintf("%s/avatars/%s/%s.png?size=1024", cdnBase, u.ID, u.Avatar)
	}
	discriminator, _ := strconv.Atoi(u.Discriminator)
	return fmt.Sprintf("%s/embed/avatars/%d.png", cdnBase, discriminator%5)
}
