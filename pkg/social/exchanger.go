package social

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/internal/utils"

	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"
)

type (
	// Exchanger trades an authorization code for the provider's view of
	// the user. There is no state parameter: the client ran the redirect
	// dance and only hands over the code.
	Exchanger interface {
		Exchange(ctx context.Context, backend, code, redirectURI string) (domain.ExternalUser, error)
		Backends() []string
	}

	// ProviderFactory builds a provider bound to the redirect URI the
	// client used, which has to match during the code exchange.
	ProviderFactory func(redirectURI string) goth.Provider

	gothExchanger struct {
		factories map[string]ProviderFactory
	}
)

func NewExchanger(cfg utils.Config) Exchanger {
	factories := map[string]ProviderFactory{}
	if cfg.GoogleKey != "" {
		googleFactory := func(redirectURI string) goth.Provider {
			return google.New(cfg.GoogleKey, cfg.GoogleSecret, redirectURI, "email", "profile")
		}
		factories["google-oauth2"] = googleFactory
		factories["google"] = googleFactory
	}
	if cfg.GithubKey != "" {
		factories["github"] = func(redirectURI string) goth.Provider {
			return github.New(cfg.GithubKey, cfg.GithubSecret, redirectURI, "user:email")
		}
	}
	return NewExchangerWithProviders(factories)
}

func NewExchangerWithProviders(factories map[string]ProviderFactory) Exchanger {
	return &gothExchanger{factories: factories}
}

func (e *gothExchanger) Backends() []string {
	backends := make([]string, 0, len(e.factories))
	for name := range e.factories {
		backends = append(backends, name)
	}
	sort.Strings(backends)
	return backends
}

func (e *gothExchanger) Exchange(ctx context.Context, backend, code, redirectURI string) (domain.ExternalUser, error) {
	factory, ok := e.factories[backend]
	if !ok {
		return domain.ExternalUser{}, fmt.Errorf("%w: %s", domain.ErrSocialBackendUnknown, backend)
	}
	if err := ctx.Err(); err != nil {
		return domain.ExternalUser{}, err
	}

	provider := factory(redirectURI)
	sess, err := provider.BeginAuth("")
	if err != nil {
		return domain.ExternalUser{}, fmt.Errorf("%w: begin auth: %v", domain.ErrSocialAuthFailed, err)
	}
	if _, err := sess.Authorize(provider, url.Values{"code": {code}}); err != nil {
		return domain.ExternalUser{}, fmt.Errorf("%w: authorize: %v", domain.ErrSocialAuthFailed, err)
	}
	user, err := provider.FetchUser(sess)
	if err != nil {
		return domain.ExternalUser{}, fmt.Errorf("%w: fetch user: %v", domain.ErrSocialAuthFailed, err)
	}
	if user.Email == "" {
		return domain.ExternalUser{}, fmt.Errorf("%w: provider returned no email", domain.ErrSocialAuthFailed)
	}

	return domain.ExternalUser{
		Provider:  backend,
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		NickName:  user.NickName,
		AvatarURL: user.AvatarURL,
	}, nil
}
