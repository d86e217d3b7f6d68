package config

import (
	"errors"
	"time"

	"github.com/SynclonSec/swaproute/internal/common"
)

type ProviderConfig struct {
	// BaseURL of the quote provider service.
	BaseURL string

	// QuoteTimeout bounds every provider call. Default: 10s
	QuoteTimeout time.Duration
}

func (c *ProviderConfig) Load() error {
	c.BaseURL = common.GetEnvOrDefault("PROVIDER_URL", "http://localhost:9090")
	c.QuoteTimeout = common.GetEnvOrDefaultDuration("PROVIDER_QUOTE_TIMEOUT", 10*time.Second)
	return c.Validate()
}

func (c *ProviderConfig) Validate() error {
	if c.BaseURL == "" || c.QuoteTimeout <= 0 {
		return errors.New("invalid provider config")
	}
	return nil
}
