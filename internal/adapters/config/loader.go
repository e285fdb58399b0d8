// Package config provides the configuration loader for keep.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	// Path is the file to read. Empty means domain.ConfigFileName in the
	// working directory.
	Path   string
	logger ports.Logger
}

// NewLoader creates a loader reading the file named by domain.ConfigEnvVar,
// or domain.ConfigFileName when the variable is unset.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{
		Path:   os.Getenv(domain.ConfigEnvVar),
		logger: logger,
	}
}

// Load reads the configuration. A missing default file yields the defaults;
// a missing file that was named explicitly is an error.
func (l *FileConfigLoader) Load() (domain.Config, error) {
	path := l.Path
	explicit := path != ""
	if !explicit {
		path = domain.ConfigFileName
	}

	cfg, err := Load(path)
	if err == nil {
		if l.logger != nil {
			l.logger.Info("loaded cache configuration from " + path)
		}
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return domain.DefaultConfig(), nil
	}
	return domain.Config{}, err
}

// Load reads a configuration file from the given path and merges it over the
// defaults.
func Load(path string) (domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}

	if cfg.FixturePath != "" && !filepath.IsAbs(cfg.FixturePath) {
		cfg.FixturePath = filepath.Join(filepath.Dir(path), cfg.FixturePath)
	}
	return cfg, nil
}

// Parse decodes YAML data and merges it over the defaults.
func Parse(data []byte) (domain.Config, error) {
	var keepfile Keepfile
	if err := yaml.Unmarshal(data, &keepfile); err != nil {
		return domain.Config{}, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	cfg := domain.DefaultConfig()
	var errs error

	errs = errors.Join(errs, applyCache(&cfg.Blob, keepfile.Caches.Blob, "caches.blob"))
	errs = errors.Join(errs, applyCache(&cfg.Identity, keepfile.Caches.Identity, "caches.identity"))
	errs = errors.Join(errs, applyCache(&cfg.ClosedItems, keepfile.Caches.ClosedItems, "caches.closedItems"))
	errs = errors.Join(errs, applyDuration(&cfg.QueryStaleTime, keepfile.Query.StaleTime, "query.staleTime"))
	errs = errors.Join(errs, applyInt(&cfg.QueryMaxEntries, keepfile.Query.MaxEntries, "query.maxEntries", 0))
	errs = errors.Join(errs, applyInt(&cfg.ChunkSize, keepfile.Upstream.ChunkSize, "upstream.chunkSize", 1))
	errs = errors.Join(errs, applyInt(&cfg.FetchConcurrency, keepfile.Upstream.FetchConcurrency, "upstream.fetchConcurrency", 0))
	errs = errors.Join(errs, applyDuration(&cfg.SweepInterval, keepfile.SweepInterval, "sweepInterval"))
	cfg.FixturePath = keepfile.Upstream.Fixture

	if cfg.QueryStaleTime < 0 {
		errs = errors.Join(errs, invalid("query.staleTime", keepfile.Query.StaleTime))
	}
	if cfg.SweepInterval < 0 {
		errs = errors.Join(errs, invalid("sweepInterval", keepfile.SweepInterval))
	}

	if errs != nil {
		return domain.Config{}, errs
	}
	return cfg, nil
}

// applyCache overlays one cache section. A zero or negative ttl is accepted
// and turns the cache into a no-op.
func applyCache(dst *domain.CacheConfig, dto *CacheDTO, field string) error {
	if dto == nil {
		return nil
	}
	return errors.Join(
		applyDuration(&dst.TTL, dto.TTL, field+".ttl"),
		applyInt(&dst.MaxSize, dto.MaxSize, field+".maxSize", 0),
	)
}

func applyDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "field", field)
	}
	*dst = d
	return nil
}

func applyInt(dst *int, raw *int, field string, minimum int) error {
	if raw == nil {
		return nil
	}
	if *raw < minimum {
		return invalid(field, *raw)
	}
	*dst = *raw
	return nil
}

func invalid(field string, value any) error {
	err := zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "value out of range"), "field", field)
	return zerr.With(err, "value", value)
}
