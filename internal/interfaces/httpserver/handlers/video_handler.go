package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/funtube/funtube-server/internal/config"
	"github.com/funtube/funtube-server/internal/domain/video"
	"github.com/funtube/funtube-server/internal/infrastructure/metrics"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/middlewares"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/requests"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/responses"
)

// VideoHandler exposes the catalog, like and history endpoints.
type VideoHandler struct {
	videos *video.Service
	cfg    *config.Config
	logger zerolog.Logger
}

func NewVideoHandler(videos *video.Service, cfg *config.Config, logger zerolog.Logger) *VideoHandler {
	return &VideoHandler{videos: videos, cfg: cfg, logger: logger}
}

// List returns one page of the catalog, optionally filtered by a search
// query. Works anonymously; a bearer token adds the likedByMe flags.
func (h *VideoHandler) List(c *gin.Context) {
	caller := middlewares.UserFromContext(c)
	params := requests.ParseListQuery(c)

	page, err := h.videos.List(c.Request.Context(), caller, params)
	if err != nil {
		responses.HandleError(c, err, "failed to list videos")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns the watch-page payload and records a view.
func (h *VideoHandler) Get(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	detail, err := h.videos.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to load video")
		return
	}
	metrics.ViewsTotal.Inc()
	c.JSON(http.StatusOK, detail)
}

// Recommendations returns up to eight related videos.
func (h *VideoHandler) Recommendations(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	items, err := h.videos.Recommend(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to load recommendations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Share returns the public watch link for a video.
func (h *VideoHandler) Share(c *gin.Context) {
	url, err := h.videos.ShareURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to build share link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"shareUrl": url})
}

// Upload accepts a multipart submission with both media files and creates
// the catalog record.
func (h *VideoHandler) Upload(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	videoFile, err := requests.FormFileAsset(c, "video", h.cfg.MaxVideoBytes)
	if err != nil {
		responses.HandleError(c, err, "failed to read video file")
		return
	}
	thumbnail, err := requests.FormFileAsset(c, "thumbnail", h.cfg.MaxThumbnailBytes)
	if err != nil {
		responses.HandleError(c, err, "failed to read thumbnail file")
		return
	}

	input := video.UploadInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Tags:        requests.ParseTags(c),
		Video:       videoFile,
		Thumbnail:   thumbnail,
	}

	created, err := h.videos.Upload(c.Request.Context(), caller, input)
	if err != nil {
		if videoFile != nil {
			metrics.RecordUpload(videoFile.ContentType, "error", 0)
		}
		responses.HandleError(c, err, "failed to upload video")
		return
	}

	metrics.RecordUpload(videoFile.ContentType, "success", int64(len(videoFile.Data)))
	c.JSON(http.StatusCreated, created)
}

// Edit applies a partial update from a multipart form. Absent fields are
// left untouched.
func (h *VideoHandler) Edit(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	var input video.EditInput
	if title, ok := c.GetPostForm("title"); ok {
		input.Title = &title
	}
	if description, ok := c.GetPostForm("description"); ok {
		input.Description = &description
	}
	if _, ok := c.GetPostForm("tags"); ok {
		input.Tags = requests.ParseTags(c)
		input.TagsSet = true
	}

	videoFile, err := requests.FormFileAsset(c, "video", h.cfg.MaxVideoBytes)
	if err != nil {
		responses.HandleError(c, err, "failed to read video file")
		return
	}
	thumbnail, err := requests.FormFileAsset(c, "thumbnail", h.cfg.MaxThumbnailBytes)
	if err != nil {
		responses.HandleError(c, err, "failed to read thumbnail file")
		return
	}
	input.Video = videoFile
	input.Thumbnail = thumbnail

	updated, err := h.videos.Edit(c.Request.Context(), caller, c.Param("id"), input)
	if err != nil {
		responses.HandleError(c, err, "failed to edit video")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a video, its edges and its media assets.
func (h *VideoHandler) Delete(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	if err := h.videos.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		responses.HandleError(c, err, "failed to delete video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}

// Like adds the caller's like and returns the fresh aggregate.
func (h *VideoHandler) Like(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	status, err := h.videos.Like(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to like video")
		return
	}
	c.JSON(http.StatusOK, status)
}

// Unlike removes the caller's like and returns the fresh aggregate.
func (h *VideoHandler) Unlike(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	status, err := h.videos.Unlike(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to unlike video")
		return
	}
	c.JSON(http.StatusOK, status)
}

// Watch upserts the caller's history entry for a video.
func (h *VideoHandler) Watch(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	if err := h.videos.RecordWatch(c.Request.Context(), caller, c.Param("id")); err != nil {
		responses.HandleError(c, err, "failed to record watch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "History updated"})
}

// History lists the caller's watch history, most recent first.
func (h *VideoHandler) History(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	entries, err := h.videos.MyHistory(c.Request.Context(), caller)
	if err != nil {
		responses.HandleError(c, err, "failed to load history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}
