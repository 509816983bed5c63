package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ducklens-lab/trendlens/pkg/errors"
)

// CheckMinimumVersion checks that the running engine satisfies a
// configuration's min_engine_version requirement. Returns nil when the
// engine is new enough, an error with details if not.
//
// Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Otherwise both versions must parse as semver and engine >= required
//
// Examples:
//   - Engine 1.4.0, required 1.4.0 -> OK (exact match)
//   - Engine 1.4.2, required 1.4.0 -> OK (engine newer)
//   - Engine 2.0.0, required 1.4.0 -> OK (engine newer)
//   - Engine 1.4.0, required 1.5.0 -> ERROR (engine too old)
//   - Engine main, required 1.4.0 -> OK (dev build, skip check)
func CheckMinimumVersion(engineVersion, required string) error {
	// Strip 'v' prefix if present for consistency
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	required = strings.TrimPrefix(required, "v")

	// Skip version check for "main" (development builds)
	if engineVersion == "main" || required == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version '%s'", engineVersion)
	}

	requiredSemver, err := semver.NewVersion(required)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid minimum version '%s'", required)
	}

	if engineSemver.LessThan(requiredSemver) {
		return errors.Newf(errors.ErrCodeInvalidVersion,
			"engine version %s is older than the required minimum %s",
			engineSemver, requiredSemver)
	}

	return nil
}
