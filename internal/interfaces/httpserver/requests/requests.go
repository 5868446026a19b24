package requests

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/funtube/funtube-server/internal/domain/video"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload. LoginID matches username or email.
type LoginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}

// ParseListQuery reads catalog paging and search parameters. Unparseable
// numbers fall back to defaults; bounds are clamped by the domain layer.
func ParseListQuery(c *gin.Context) video.ListParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(video.DefaultPageSize)))
	if err != nil {
		limit = video.DefaultPageSize
	}
	search := strings.TrimSpace(c.Query("q"))
	if search == "" {
		search = strings.TrimSpace(c.Query("search"))
	}
	return video.ListParams{Page: page, Limit: limit, Search: search}.Normalize()
}

// ParseTags reads tags from a multipart form, accepting both repeated
// fields and a single comma-separated value.
func ParseTags(c *gin.Context) []string {
	values := c.PostFormArray("tags")
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}
	tags := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			tags = append(tags, v)
		}
	}
	return tags
}

// FormFileAsset reads an uploaded file into memory. Returns (nil, nil) when
// the field is absent so callers can decide whether it is required.
func FormFileAsset(c *gin.Context, field string, maxBytes int64) (*video.Asset, error) {
	ctx := c.Request.Context()

	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
			"invalid multipart form", err)
	}

	if header.Size > maxBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
			field+" file is too large", nil)
	}

	data, err := readAll(header)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRoute, platformerrors.ErrorTypeInternal,
			"failed to read uploaded file", err)
	}

	return &video.Asset{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
