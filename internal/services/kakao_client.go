package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/tumbluv/tumbluv-api/internal/config"
	"golang.org/x/oauth2"
)

var (
	ErrKakaoTokenInvalid = errors.New("kakao token rejected")
)

// KakaoProfile is the subset of /v2/user/me the signin flow reads
type KakaoProfile struct {
	ID           int64
	Email        string
	Nickname     string
	ProfileImage string
}

// KakaoProvider looks up the Kakao account behind an access token
type KakaoProvider interface {
	Profile(ctx context.Context, accessToken string) (*KakaoProfile, error)
}

// KakaoClient calls the Kakao user API
type KakaoClient struct {
	cfg config.Kakao
}

// NewKakaoClient creates a new KakaoClient
func NewKakaoClient(cfg config.Kakao) *KakaoClient {
	return &KakaoClient{cfg: cfg}
}

type kakaoUserResponse struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
}

// Profile fetches the account for the token. Any failure, including an
// unreachable API or an unreadable body, is ErrKakaoTokenInvalid.
func (k *KakaoClient) Profile(ctx context.Context, accessToken string) (*KakaoProfile, error) {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	var body kakaoUserResponse
	resp, err := resty.NewWithClient(httpClient).
		SetBaseURL(k.cfg.APIURL).
		SetTimeout(k.cfg.Timeout).
		R().
		SetContext(ctx).
		SetResult(&body).
		Get("/v2/user/me")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKakaoTokenInvalid, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrKakaoTokenInvalid, resp.StatusCode())
	}

	profile := &KakaoProfile{
		ID:           body.ID,
		Email:        body.KakaoAccount.Email,
		Nickname:     body.KakaoAccount.Profile.Nickname,
		ProfileImage: body.KakaoAccount.Profile.ProfileImageURL,
	}
	if profile.Nickname == "" {
		profile.Nickname = body.Properties.Nickname
	}
	if profile.ProfileImage == "" {
		profile.ProfileImage = body.Properties.ProfileImage
	}
	return profile, nil
}
