package social

import (
	"context"
	"errors"
	"testing"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/internal/utils"

	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	code string
}

func (s *fakeSession) GetAuthURL() (string, error) { return "https://provider.test/auth", nil }
func (s *fakeSession) Marshal() string             { return s.code }

func (s *fakeSession) Authorize(_ goth.Provider, params goth.Params) (string, error) {
	if params.Get("code") != "good-code" {
		return "", errors.New("invalid_grant")
	}
	s.code = params.Get("code")
	return "access-token", nil
}

// fakeProvider embeds goth.Provider so only the methods used by the
// exchanger need implementing.
type fakeProvider struct {
	goth.Provider
	redirectURI string
	user        goth.User
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) BeginAuth(string) (goth.Session, error) {
	return &fakeSession{}, nil
}

func (p *fakeProvider) FetchUser(sess goth.Session) (goth.User, error) {
	if sess.(*fakeSession).code == "" {
		return goth.User{}, errors.New("not authorized")
	}
	return p.user, nil
}

func newFakeExchanger(user goth.User) (Exchanger, *string) {
	var seenRedirect string
	return NewExchangerWithProviders(map[string]ProviderFactory{
		"fake": func(redirectURI string) goth.Provider {
			seenRedirect = redirectURI
			return &fakeProvider{redirectURI: redirectURI, user: user}
		},
	}), &seenRedirect
}

func TestExchange(t *testing.T) {
	exchanger, seenRedirect := newFakeExchanger(goth.User{
		UserID:    "42",
		Email:     "cook@example.com",
		Name:      "Jamie Cook",
		NickName:  "jamie",
		AvatarURL: "https://provider.test/avatar.png",
	})

	user, err := exchanger.Exchange(context.Background(), "fake", "good-code", "https://app.test/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://app.test/callback", *seenRedirect)
	assert.Equal(t, domain.ExternalUser{
		Provider:  "fake",
		UserID:    "42",
		Email:     "cook@example.com",
		Name:      "Jamie Cook",
		NickName:  "jamie",
		AvatarURL: "https://provider.test/avatar.png",
	}, user)
}

func TestExchange_Failures(t *testing.T) {
	exchanger, _ := newFakeExchanger(goth.User{Email: "cook@example.com"})

	_, err := exchanger.Exchange(context.Background(), "myspace", "good-code", "https://app.test/callback")
	assert.ErrorIs(t, err, domain.ErrSocialBackendUnknown)

	_, err = exchanger.Exchange(context.Background(), "fake", "bad-code", "https://app.test/callback")
	assert.ErrorIs(t, err, domain.ErrSocialAuthFailed)

	noEmail, _ := newFakeExchanger(goth.User{UserID: "1"})
	_, err = noEmail.Exchange(context.Background(), "fake", "good-code", "https://app.test/callback")
	assert.ErrorIs(t, err, domain.ErrSocialAuthFailed)
}

func TestNewExchanger_RegistersConfiguredBackends(t *testing.T) {
	assert.Empty(t, NewExchanger(utils.Config{}).Backends())

	exchanger := NewExchanger(utils.Config{GoogleKey: "key", GoogleSecret: "secret", GithubKey: "key", GithubSecret: "secret"})
	assert.Equal(t, []string{"github", "google", "google-oauth2"}, exchanger.Backends())
}
