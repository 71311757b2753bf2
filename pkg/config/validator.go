// Package config provides reusable validators for configuration values and a
// fallback helper that swaps an invalid value for its default with a warning.
package config

import (
	"fmt"
	"net"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the standard five-field format used by the refresh job.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule validates a cron expression using the robfig/cron/v3 parser.
//
// The cron expression must follow the standard cron format:
//   - "minute hour day month weekday"
//   - Example: "0 */6 * * *" (every 6 hours)
//   - Example: "30 5 * * *" (every day at 5:30)
//
// Parameters:
//   - schedule: Cron expression to validate
//
// Returns:
//   - error: nil if valid, descriptive error otherwise
//
// Validation tool: https://crontab.guru/
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	return nil
}

// ValidatePositiveDuration validates that a duration is positive (greater than zero).
//
// Example:
//
//	if err := ValidatePositiveDuration(timeout); err != nil {
//	    return fmt.Errorf("invalid timeout: %w", err)
//	}
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateDurationRange validates that a duration is within [min, max].
func ValidateDurationRange(d, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}

	if d < min {
		return fmt.Errorf("duration %v is below minimum %v", d, min)
	}

	if d > max {
		return fmt.Errorf("duration %v exceeds maximum %v", d, max)
	}

	return nil
}

// ValidateIntRange validates that an integer value is within [min, max].
//
// Example:
//
//	// Validate the quiz length is between 1 and 50
//	err := ValidateIntRange(questions, 1, 50)
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}

	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}

	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}

	return nil
}

// ValidateListenAddr validates a host:port pair for net.Listen.
// The host may be empty to listen on all interfaces.
func ValidateListenAddr(addr string) error {
	if addr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid listen address '%s': %w", addr, err)
	}
	return nil
}

// WithFallback returns value when validate accepts it. Otherwise it returns
// fallback together with a warning naming the setting, the rejected value
// and the reason. A nil validate accepts every value.
//
// Warning format:
//
//	"Invalid {name}='{value}': {error}, falling back to default '{fallback}'"
//
// Example:
//
//	schedule, warning := WithFallback("REFRESH_SCHEDULE", cfg.RefreshSchedule, "0 */6 * * *", ValidateCronSchedule)
//	if warning != "" {
//	    logger.Warn("configuration fallback", slog.String("warning", warning))
//	}
func WithFallback[T any](name string, value, fallback T, validate func(T) error) (T, string) {
	if validate == nil {
		return value, ""
	}
	if err := validate(value); err != nil {
		return fallback, fmt.Sprintf("Invalid %s='%v': %v, falling back to default '%v'", name, value, err, fallback)
	}
	return value, ""
}
