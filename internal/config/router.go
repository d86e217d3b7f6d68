package config

import (
	"errors"

	"github.com/SynclonSec/swaproute/internal/common"
)

type RouterConfig struct {
	// MaxHops bounds route length. Default: 3
	MaxHops int

	// MaxRoutes caps how many candidate routes a search returns. Default: 5
	MaxRoutes int

	// FeeBpsThreshold rejects any hop whose trade fee exceeds it. Default: 100
	FeeBpsThreshold float64

	// DepthPercent is the default price move for market depth. Default: 1.0
	DepthPercent float64
}

func (c *RouterConfig) Load() error {
	c.MaxHops = common.GetEnvOrDefaultInt("ROUTER_MAX_HOPS", 3)
	c.MaxRoutes = common.GetEnvOrDefaultInt("ROUTER_MAX_ROUTES", 5)
	c.FeeBpsThreshold = common.GetEnvOrDefaultFloat("ROUTER_FEE_BPS_THRESHOLD", 100)
	c.DepthPercent = common.GetEnvOrDefaultFloat("MARKET_DEPTH_PERCENT", 1.0)
	return c.Validate()
}

func (c *RouterConfig) Validate() error {
	if c.MaxHops < 1 || c.MaxRoutes < 1 {
		return errors.New("invalid router config")
	}
	return nil
}
