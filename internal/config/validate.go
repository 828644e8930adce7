package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// CheckConfigValidity reports every invalid setting at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if _, err := zapcore.ParseLevel(v.GetString("log.level")); err != nil {
		add("log.level %q is not one of debug, info, warn, error", v.GetString("log.level"))
	}

	if v.GetBool("cache.enabled") {
		dsn := strings.TrimSpace(v.GetString("cache.dsn"))
		if dsn != "" && !strings.HasPrefix(dsn, "sqlite://") && dsn != "mem://" {
			add("cache.dsn must start with sqlite:// or be mem://")
		}
		if v.GetInt("cache.max_entries") <= 0 {
			add("cache.max_entries must be greater than 0")
		}
	}

	if strings.TrimSpace(v.GetString("server.addr")) == "" {
		add("server.addr is required")
	}
	if v.GetInt64("server.max_body_bytes") <= 0 {
		add("server.max_body_bytes must be greater than 0")
	}

	style := v.GetString("preview.style")
	if _, ok := styles.DefaultStyles[style]; !ok && style != "auto" {
		add("preview.style %q is not a glamour style", style)
	}
	if v.GetInt("preview.width") <= 0 {
		add("preview.width must be greater than 0")
	}

	return errors.Join(errs...)
}
