package video

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/funtube/funtube-server/internal/utils/idgen"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

const (
	maxTitleLength       = 120
	maxDescriptionLength = 2000
	maxTags              = 10
	maxTagLength         = 30
)

type assetKind string

const (
	assetKindVideo assetKind = "video"
	assetKindImage assetKind = "image"
)

func validateVideoID(ctx context.Context, id string) error {
	if !idgen.IsValid(id, idgen.VideoPrefix) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid video id", nil)
	}
	return nil
}

func (s *Service) validateUpload(ctx context.Context, input UploadInput) error {
	if err := validateTitle(ctx, input.Title); err != nil {
		return err
	}
	if err := validateDescription(ctx, input.Description); err != nil {
		return err
	}
	if err := validateTags(ctx, input.Tags); err != nil {
		return err
	}
	if input.Video == nil || input.Thumbnail == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "video and thumbnail files are required", nil)
	}
	if err := validateAsset(ctx, input.Video, assetKindVideo, s.cfg.MaxVideoBytes); err != nil {
		return err
	}
	return validateAsset(ctx, input.Thumbnail, assetKindImage, s.cfg.MaxThumbnailBytes)
}

func validateTitle(ctx context.Context, title string) error {
	if title == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "title is required", nil)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("title must be at most %d characters", maxTitleLength), nil)
	}
	return nil
}

func validateDescription(ctx context.Context, description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("description must be at most %d characters", maxDescriptionLength), nil)
	}
	return nil
}

func validateTags(ctx context.Context, tags []string) error {
	if len(tags) > maxTags {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("at most %d tags are allowed", maxTags), nil)
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(strings.TrimSpace(tag)) > maxTagLength {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("tags must be at most %d characters", maxTagLength), nil)
		}
	}
	return nil
}

// validateAsset sniffs the actual content type from the bytes rather than
// trusting the multipart header.
func validateAsset(ctx context.Context, asset *Asset, kind assetKind, maxBytes int64) error {
	if len(asset.Data) == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("%s file is empty", kind), nil)
	}
	if int64(len(asset.Data)) > maxBytes {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("%s file exceeds the %d byte limit", kind, maxBytes), nil)
	}
	detected := mimetype.Detect(asset.Data)
	if !strings.HasPrefix(detected.String(), string(kind)+"/") {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("file does not look like a %s (detected %s)", kind, detected.String()), nil)
	}
	asset.ContentType = detected.String()
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
