package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/raphi011/devtools/internal/cmd"
	"github.com/raphi011/devtools/internal/log"
)

// ErrIncompatible is wrapped by Check when the detected version is out of range.
var ErrIncompatible = errors.New("Incompatible NodeJS version")

// DetectNode returns the version of the node binary found on PATH, without
// the leading "v".
func DetectNode(ctx context.Context) (string, error) {
	out, err := cmd.OutputContext(ctx, "", "node", "--version")
	if err != nil {
		return "", fmt.Errorf("detect node version: %w", err)
	}
	return strings.TrimPrefix(strings.TrimSpace(string(out)), "v"), nil
}

// Check fails when detected is not within required. An empty required
// range falls back to DefaultRange. note is prefixed to the message.
func Check(ctx context.Context, detected, required, note string) error {
	if required == "" {
		required = DefaultRange
	}

	msg := fmt.Sprintf("detected version %s but required %s", detected, required)
	if note != "" {
		msg = fmt.Sprintf("( %s ) %s", note, msg)
	}

	c, err := semver.NewConstraint(required)
	if err != nil {
		return fmt.Errorf("invalid range %q: %w", required, err)
	}
	v, err := semver.NewVersion(detected)
	if err != nil || !c.Check(v) {
		log.FromContext(ctx).Println(msg)
		return fmt.Errorf("%w: %s", ErrIncompatible, msg)
	}
	return nil
}
