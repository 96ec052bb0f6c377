package mpesa

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/utils"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Config holds the Daraja credentials and endpoints.
type Config struct {
	APIKey      string
	APISecret   string
	Shortcode   string
	Passkey     string
	AuthURL     string
	STKPushURL  string
	CallbackURL string
	Timeout     time.Duration
}

// Client talks to the Daraja OAuth and STK push endpoints. Access tokens
// are short-lived bearer credentials cached until shortly before expiry.
type Client struct {
	cfg    Config
	http   *resty.Client
	tokens TokenCache
	now    func() time.Time
}

func NewClient(cfg Config, tokens TokenCache) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if tokens == nil {
		tokens = NewMemoryTokenCache()
	}
	return &Client{
		cfg:    cfg,
		http:   resty.New().SetTimeout(cfg.Timeout),
		tokens: tokens,
		now:    time.Now,
	}
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	// Daraja returns expiry seconds as a string, e.g. "3599".
	ExpiresIn string `json:"expires_in"`
}

type darajaError struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// AccessToken returns a bearer token, from cache when still valid.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if token, ok := c.tokens.Get(ctx); ok {
		return token, nil
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.APIKey + ":" + c.cfg.APISecret))

	var ok authResponse
	var apiErr darajaError
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Basic "+basic).
		SetResult(&ok).
		SetError(&apiErr).
		Get(c.cfg.AuthURL)
	if err != nil {
		return "", domain.UpstreamAuthError{Err: err}
	}
	if resp.IsError() || ok.AccessToken == "" {
		return "", domain.UpstreamAuthError{
			Err: fmt.Errorf("token endpoint status %s: %s", resp.Status(), apiErr.ErrorMessage),
		}
	}

	ttl := 55 * time.Minute
	if secs := strings.TrimSpace(ok.ExpiresIn); secs != "" {
		if d, perr := time.ParseDuration(secs + "s"); perr == nil && d > time.Minute {
			ttl = d - 30*time.Second
		}
	}
	c.tokens.Set(ctx, ok.AccessToken, ttl)

	return ok.AccessToken, nil
}

// STKPush submits a push-payment request prompting the phone to authorize
// the amount, and returns the provider's CheckoutRequestID. The password is
// the documented base64(shortcode + passkey + timestamp) derivation.
func (c *Client) STKPush(ctx context.Context, phone string, amount decimal.Decimal, accountRef, description string) (string, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	timestamp := utils.DarajaTimestamp(c.now())
	password := base64.StdEncoding.EncodeToString([]byte(c.cfg.Shortcode + c.cfg.Passkey + timestamp))

	req := stkPushRequest{
		BusinessShortCode: c.cfg.Shortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		// Daraja rejects fractional amounts; round up to whole shillings.
		Amount:           amount.Ceil().String(),
		PartyA:           phone,
		PartyB:           c.cfg.Shortcode,
		PhoneNumber:      phone,
		CallBackURL:      c.cfg.CallbackURL,
		AccountReference: accountRef,
		TransactionDesc:  description,
	}

	var ok stkPushResponse
	var apiErr darajaError
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&ok).
		SetError(&apiErr).
		Post(c.cfg.STKPushURL)
	if err != nil {
		return "", domain.UpstreamRequestError{Err: err}
	}
	if resp.IsError() {
		log.Printf("[MPESA] stk push rejected status=%s code=%s msg=%s", resp.Status(), apiErr.ErrorCode, apiErr.ErrorMessage)
		return "", domain.UpstreamRequestError{
			Msg: fmt.Sprintf("stk push rejected: %s", nonEmpty(apiErr.ErrorMessage, resp.Status())),
		}
	}
	if ok.CheckoutRequestID == "" {
		return "", domain.UpstreamRequestError{Msg: "stk push response missing CheckoutRequestID"}
	}

	return ok.CheckoutRequestID, nil
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
