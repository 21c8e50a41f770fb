package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Formats lists the accepted default_format values.
var Formats = []string{"table", "json", "yaml"}

// checkFormat accepts an empty format, which later falls back to DefaultFormat.
func checkFormat(format string) error {
	if format == "" || slices.Contains(Formats, format) {
		return nil
	}
	return fmt.Errorf("default_format %q is not supported, use one of: %s", format, strings.Join(Formats, ", "))
}

// checkRange rejects a default range no installed version could ever satisfy
// because it does not parse.
func checkRange(rng string) error {
	if rng == "" {
		return nil
	}
	if _, err := semver.NewConstraint(rng); err != nil {
		return fmt.Errorf("engine.default_range %q is not a version range: %w", rng, err)
	}
	return nil
}
