package config

import (
	"errors"
	"os"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/service/responsecache"
	"github.com/doc-forge-buddy/docforge/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Policy is the optional TOML file tuning the scan and the response cache
type Policy struct {
	Scan  ScanPolicy  `toml:"scan"`
	Cache CachePolicy `toml:"cache"`
}

type ScanPolicy struct {
	ContractWindowDays   int    `toml:"contract_window_days"`
	ContractDedupHours   int    `toml:"contract_dedup_hours"`
	InspectionDedupHours int    `toml:"inspection_dedup_hours"`
	Workers              int    `toml:"workers"`
	UserTimeout          string `toml:"user_timeout"`
}

type CachePolicy struct {
	MaxEntries      int    `toml:"max_entries"`
	MaxAge          string `toml:"max_age"`
	CleanupInterval string `toml:"cleanup_interval"`
}

// DefaultPolicy mirrors the built-in defaults of the scan and cache
func DefaultPolicy() *Policy {
	scan := usecase.DefaultScanPolicy()
	return &Policy{
		Scan: ScanPolicy{
			ContractWindowDays:   scan.ContractWindowDays,
			ContractDedupHours:   int(scan.ContractDedupWindow / time.Hour),
			InspectionDedupHours: int(scan.InspectionDedupWindow / time.Hour),
			Workers:              scan.Workers,
			UserTimeout:          scan.UserTimeout.String(),
		},
		Cache: CachePolicy{
			MaxEntries:      responsecache.DefaultMaxEntries,
			MaxAge:          responsecache.DefaultMaxAge.String(),
			CleanupInterval: responsecache.DefaultCleanupInterval.String(),
		},
	}
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidConfig, "invalid duration", goerr.V(FieldKey, field), goerr.V("value", value))
	}
	if d < 0 {
		return 0, goerr.Wrap(ErrInvalidConfig, "duration must not be negative", goerr.V(FieldKey, field), goerr.V("value", value))
	}
	return d, nil
}

// Validate checks ranges and duration syntax
func (p *Policy) Validate() error {
	if p.Scan.ContractWindowDays < 1 {
		return goerr.Wrap(ErrInvalidConfig, "contract_window_days must be at least 1", goerr.V(FieldKey, "scan.contract_window_days"))
	}
	if p.Scan.ContractDedupHours < 0 || p.Scan.InspectionDedupHours < 0 {
		return goerr.Wrap(ErrInvalidConfig, "dedup hours must not be negative", goerr.V(FieldKey, "scan"))
	}
	if p.Scan.Workers < 1 {
		return goerr.Wrap(ErrInvalidConfig, "workers must be at least 1", goerr.V(FieldKey, "scan.workers"))
	}
	if d, err := parseDuration("scan.user_timeout", p.Scan.UserTimeout); err != nil {
		return err
	} else if d == 0 {
		return goerr.Wrap(ErrInvalidConfig, "user_timeout must be positive", goerr.V(FieldKey, "scan.user_timeout"))
	}

	if p.Cache.MaxEntries < 1 {
		return goerr.Wrap(ErrInvalidConfig, "max_entries must be at least 1", goerr.V(FieldKey, "cache.max_entries"))
	}
	if d, err := parseDuration("cache.max_age", p.Cache.MaxAge); err != nil {
		return err
	} else if d == 0 {
		return goerr.Wrap(ErrInvalidConfig, "max_age must be positive", goerr.V(FieldKey, "cache.max_age"))
	}
	if _, err := parseDuration("cache.cleanup_interval", p.Cache.CleanupInterval); err != nil {
		return err
	}

	return nil
}

// ScanPolicy converts the file section into the scan use case policy.
// Validate must have succeeded.
func (p *Policy) ScanPolicy() usecase.ScanPolicy {
	timeout, _ := time.ParseDuration(p.Scan.UserTimeout)
	return usecase.ScanPolicy{
		ContractWindowDays:    p.Scan.ContractWindowDays,
		ContractDedupWindow:   time.Duration(p.Scan.ContractDedupHours) * time.Hour,
		InspectionDedupWindow: time.Duration(p.Scan.InspectionDedupHours) * time.Hour,
		Workers:               p.Scan.Workers,
		UserTimeout:           timeout,
	}
}

// CacheOptions converts the file section into response cache options.
// Validate must have succeeded.
func (p *Policy) CacheOptions() []responsecache.Option {
	maxAge, _ := time.ParseDuration(p.Cache.MaxAge)
	interval, _ := time.ParseDuration(p.Cache.CleanupInterval)
	return []responsecache.Option{
		responsecache.WithMaxEntries(p.Cache.MaxEntries),
		responsecache.WithMaxAge(maxAge),
		responsecache.WithCleanupInterval(interval),
	}
}

// LoadPolicy reads a TOML policy file. Keys absent from the file keep their defaults.
func LoadPolicy(path string) (*Policy, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "policy file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V(ConfigPathKey, path))
	}

	policy := DefaultPolicy()
	if err := toml.Unmarshal(data, policy); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML policy", goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	if err := policy.Validate(); err != nil {
		return nil, goerr.Wrap(err, "policy validation failed", goerr.V(ConfigPathKey, path))
	}

	return policy, nil
}

// PolicyFile holds the --config flag
type PolicyFile struct {
	path string
}

func (x *PolicyFile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML policy file",
			Sources:     cli.EnvVars("DOCFORGE_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the policy file, or returns the defaults when none is set
func (x *PolicyFile) Configure() (*Policy, error) {
	if x.path == "" {
		return DefaultPolicy(), nil
	}
	return LoadPolicy(x.path)
}
