package discord

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"pfpMint/errs"
)

const (
	DefaultAPIBaseURL = "https://discord.com/api"
	DefaultCDNBaseURL = "https://cdn.discordapp.com"

	authorizePath = "/oauth2/authorize"
	tokenPath     = "/oauth2/token"

	Scope = "identify guilds guilds.members.read"
)

type AuthService interface {
	AuthorizeURL() string
	GetAccessToken(ctx context.Context, code string) (*AuthResponse, error)
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	GuildID      string
	APIBaseURL   string
	CDNBaseURL   string
}

func (c Config) apiBase() string {
	if c.APIBaseURL == "" {
		return DefaultAPIBaseURL
	}
	return c.APIBaseURL
}

func (c Config) cdnBase() string {
	if c.CDNBaseURL == "" {
		return DefaultCDNBaseURL
	}
	return c.CDNBaseURL
}

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthServiceImpl struct {
	http *resty.Client
	cfg  Config
}

func NewAuthService(client *resty.Client, cfg Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		http: client,
		cfg:  cfg,
	}
}

type AuthError struct {
	ErrorType    string `json:"error"`
	ErrorMessage string `json:"error_description"`
}

func (a AuthError) Error() string {
	return fmt.Sprintf("%s: %s", a.ErrorType, a.ErrorMessage)
}

func (a *AuthServiceImpl) AuthorizeURL() string {
	values := url.Values{
		"client_id":     []string{a.cfg.ClientID},
		"redirect_uri":  []string{a.cfg.RedirectURI},
		"response_type": []string{"code"},
		"scope":         []string{Scope},
	}
	return a.cfg.apiBase() + authorizePath + "?" + values.Encode()
}

func (a *AuthServiceImpl) GetAccessToken(ctx context.Context, code string) (*AuthResponse, error) {
	response := &AuthResponse{}
	responseError := &AuthError{}

	values := url.Values{
		"client_id":     []string{a.cfg.ClientID},
		"client_secret": []string{a.cfg.ClientSecret},
		"grant_type":    []string{"authorization_code"},
		"code":          []string{code},
		"redirect_uri":  []string{a.cfg.RedirectURI},
		"scope":         []string{Scope},
	}
	resp, err := a.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetFormDataFromValues(values).
		SetResult(response).
		SetError(responseError).
		Post(a.cfg.apiBase() + tokenPath)
	if err != nil {
		log.Error().Err(err).Msg("error getting access token")
		return nil, errs.E(errs.UpstreamAuth, "discord.GetAccessToken", err)
	}
	if resp.IsError() {
		return nil, errs.E(errs.UpstreamAuth, "discord.GetAccessToken",
			fmt.Errorf("error getting access token: %w", *responseError))
	}
	if response.AccessToken == "" {
		return nil, errs.New(errs.UpstreamAuth, "discord.GetAccessToken", "token response carried no access token")
	}
	return response, nil
}
