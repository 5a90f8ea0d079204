package utils

import (
	"context"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

func ValidateStruct(ctx context.Context, s interface{}) error {
	return validate.StructCtx(ctx, s)
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ValidateVideoID checks the fixed-length external identifier before it
// ever reaches upstream.
func ValidateVideoID(videoID string) error {
	if !videoIDPattern.MatchString(videoID) {
		return errors.Errorf("invalid video id: %q", videoID)
	}
	return nil
}
