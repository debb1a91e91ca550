package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/shopkeep/internal/telemetry"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags first, then the rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return err
	}

	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	switch cfg.Uploads.Type {
	case UploadsTypeLocal:
		if cfg.Uploads.Local.Root == "" {
			return fmt.Errorf("uploads: local root path is required")
		}
	case UploadsTypeS3:
		if cfg.Uploads.S3.Bucket == "" {
			return fmt.Errorf("uploads: s3 bucket is required")
		}
		if (cfg.Uploads.S3.AccessKeyID == "") != (cfg.Uploads.S3.SecretAccessKey == "") {
			return fmt.Errorf("uploads: s3 access_key_id and secret_access_key must be set together")
		}
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry: endpoint is required when tracing is enabled")
	}
	if cfg.Telemetry.Profiling.Enabled {
		if cfg.Telemetry.Profiling.Endpoint == "" {
			return fmt.Errorf("telemetry.profiling: endpoint is required when profiling is enabled")
		}
		if _, err := telemetry.ParseProfileTypes(cfg.Telemetry.Profiling.ProfileTypes); err != nil {
			return fmt.Errorf("telemetry.profiling: %w", err)
		}
	}

	return nil
}

// formatValidationErrors renders validator errors as "Field: failed 'tag'"
// lines keyed by the config path.
func formatValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed '%s=%s' (value: %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed '%s'", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
