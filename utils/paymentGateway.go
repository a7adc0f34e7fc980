package utils

import (
	"fmt"
	"log"
	"strings"
	"time"

	"openlearn/config"

	"github.com/go-resty/resty/v2"
)

// PaymentIntent is the provider's charge handle returned to the client.
type PaymentIntent struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"client_secret"`
	Amount       int64   `json:"amount"` // minor units
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
	Refunded     float64 `json:"refunded"`
}

// PaymentGateway is the external charge/refund collaborator. The core
// never talks to the provider directly; enrollment creation only sees
// the confirmed outcome.
type PaymentGateway interface {
	CreateIntent(amount float64, currency string, metadata map[string]string) (*PaymentIntent, error)
	RetrieveIntent(intentID string) (*PaymentIntent, error)
	RefundIntent(intentID string, reason string) error
}

// RestGateway talks to the configured payment provider over HTTP.
type RestGateway struct {
	client  *resty.Client
	baseURL string
}

// NewRestGateway builds the provider client from configuration.
func NewRestGateway() *RestGateway {
	return &RestGateway{
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetAuthToken(config.AppConfig.PaymentApiKey),
		baseURL: strings.TrimRight(config.AppConfig.PaymentApiURL, "/"),
	}
}

func (g *RestGateway) CreateIntent(amount float64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	body := map[string]interface{}{
		"amount":   int64(amount * 100), // minor units
		"currency": strings.ToLower(currency),
		"metadata": metadata,
	}

	var intent PaymentIntent
	resp, err := g.client.R().
		SetBody(body).
		SetResult(&intent).
		Post(g.baseURL + "/payment_intents")
	if err != nil {
		log.Printf("Failed to create payment intent: %v", err)
		return nil, err
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return nil, fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return &intent, nil
}

func (g *RestGateway) RetrieveIntent(intentID string) (*PaymentIntent, error) {
	var intent PaymentIntent
	resp, err := g.client.R().
		SetResult(&intent).
		Get(g.baseURL + "/payment_intents/" + intentID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return &intent, nil
}

func (g *RestGateway) RefundIntent(intentID string, reason string) error {
	resp, err := g.client.R().
		SetBody(map[string]string{
			"payment_intent": intentID,
			"reason":         reason,
		}).
		Post(g.baseURL + "/refunds")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
