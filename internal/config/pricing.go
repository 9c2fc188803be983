package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PricingConfig carries the tunable business numbers: membership plan
// prices and the timeouts the background sweeps run on.
type PricingConfig struct {
	MembershipPlans []MembershipPlan `mapstructure:"membershipPlans"`
	PaymentHold     PaymentHold      `mapstructure:"paymentHold"`
}

type MembershipPlan struct {
	Type   string `mapstructure:"type"`
	Months int    `mapstructure:"months"`
	Amount int64  `mapstructure:"amount"`
}

type PaymentHold struct {
	TTLMinutes           int `mapstructure:"ttlMinutes"`
	SweepIntervalMinutes int `mapstructure:"sweepIntervalMinutes"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		MembershipPlans: []MembershipPlan{
			{Type: "one_month", Months: 1, Amount: 100_000},
			{Type: "six_month", Months: 6, Amount: 500_000},
		},
		PaymentHold: PaymentHold{
			TTLMinutes:           30,
			SweepIntervalMinutes: 5,
		},
	}
}

func (c PricingConfig) Plan(planType string) (MembershipPlan, bool) {
	for _, p := range c.MembershipPlans {
		if p.Type == planType {
			return p, true
		}
	}
	return MembershipPlan{}, false
}

func (c PricingConfig) HoldTTL() time.Duration {
	return time.Duration(c.PaymentHold.TTLMinutes) * time.Minute
}

func (c PricingConfig) SweepInterval() time.Duration {
	return time.Duration(c.PaymentHold.SweepIntervalMinutes) * time.Minute
}

type PricingConfigHolder struct {
	current atomic.Value // holds PricingConfig
}

func NewPricingConfigHolder() (*PricingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/camcrew/config") // Volume-mounted config
	v.AddConfigPath("/etc/camcrew")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("CAMCREW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		defaults := DefaultPricingConfig()
		v.SetDefault("pricing.membershipPlans", defaults.MembershipPlans)
		v.SetDefault("pricing.paymentHold", defaults.PaymentHold)
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validatePricingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		if err := validatePricingConfig(updated); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPricingHolder wraps a fixed config, bypassing viper. Used by
// tests and one-off tooling.
func NewStaticPricingHolder(cfg PricingConfig) *PricingConfigHolder {
	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PricingConfigHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

func validatePricingConfig(cfg PricingConfig) error {
	if len(cfg.MembershipPlans) == 0 {
		return errors.New("pricing.membershipPlans cannot be empty")
	}
	for _, p := range cfg.MembershipPlans {
		if p.Months <= 0 || p.Amount <= 0 {
			return errors.New("pricing.membershipPlans entries must have positive months and amount")
		}
	}
	if cfg.PaymentHold.TTLMinutes <= 0 || cfg.PaymentHold.SweepIntervalMinutes <= 0 {
		return errors.New("pricing.paymentHold values must be positive")
	}
	return nil
}
