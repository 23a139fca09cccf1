package rest

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"media-gallery-api/internal/application/collection"
	"media-gallery-api/internal/application/ports"
	"media-gallery-api/internal/application/services"
	"media-gallery-api/internal/domain/activity"
	"media-gallery-api/internal/domain/media"
	"media-gallery-api/internal/interface/api/rest/dto/gallery"
	"media-gallery-api/internal/interface/api/rest/middleware"
	"media-gallery-api/internal/interface/api/rest/validator"
)

type GalleryService interface {
	View(kind media.Kind) (collection.View, error)
	Reload(ctx context.Context, kind media.Kind, actor string) (collection.View, error)
	SetDateFilter(kind media.Kind, start, end string) (collection.View, error)
	ClearDateFilter(kind media.Kind) (collection.View, error)
	SetPage(kind media.Kind, page int) (collection.View, error)
	SetItemsPerPage(kind media.Kind, n int) (collection.View, error)
	UploadFiles(ctx context.Context, kind media.Kind, files []*multipart.FileHeader, actor string) (services.UploadResult, error)
	RemoveFile(ctx context.Context, kind media.Kind, key, actor string) error
	RemoveAt(ctx context.Context, kind media.Kind, index int, actor string) (media.StoredFile, error)
	Resolve(kind media.Kind, key string) (media.FileRef, error)
	RecentActivity(ctx context.Context, limit int) (activity.Events, error)
}

type GalleryController struct {
	gallery GalleryService
	logger  *zap.Logger
}

func NewGalleryController(
	r *gin.Engine,
	gallery GalleryService,
	logger *zap.Logger,
	gate ports.AuthGate,
) *GalleryController {
	gc := &GalleryController{
		gallery: gallery,
		logger:  logger,
	}
	auth := middleware.AuthMiddleware(gate)

	r.GET(RouteGallery, gc.GetViewHandler)
	r.GET(RouteGalleryContent, gc.ContentHandler)
	r.POST(RouteGalleryReload, auth, gc.ReloadHandler)
	r.PUT(RouteGalleryFilter, auth, gc.SetFilterHandler)
	r.DELETE(RouteGalleryFilter, auth, gc.ClearFilterHandler)
	r.PUT(RouteGalleryPage, auth, gc.SetPageHandler)
	r.PUT(RouteGalleryItemsPerPage, auth, gc.SetItemsPerPageHandler)
	r.POST(RouteGalleryFiles, auth, gc.UploadHandler)
	r.DELETE(RouteGalleryFiles, auth, gc.DeleteFileHandler)
	r.DELETE(RouteGalleryPosition, auth, gc.DeletePositionHandler)
	r.GET(RouteActivity, auth, gc.ActivityHandler)

	return gc
}

func (gc *GalleryController) kind(c *gin.Context) (media.Kind, bool) {
	kind, err := validator.ValidateKind(c.Param("kind"))
	if err != nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "unknown collection, want images or sounds"},
		)
		return "", false
	}
	return kind, true
}

// respondView writes the view or maps a service error to a status code.
func (gc *GalleryController) respondView(c *gin.Context, v collection.View, err error) {
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, media.ErrUnsupportedKind) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gallery.ToResponseView(v))
}

func (gc *GalleryController) GetViewHandler(c *gin.Context) {
	kind, ok := gc.kind(c)
	if !ok {
		return
	}

	v, err := gc.gallery.View(kind)
	gc.respondView(c, v, err)
}

// ReloadHandler always answers with the current view; a failed fetch is
// reported in reload_error while the previous collection stays in place.
func (gc *GalleryController) ReloadHandler(c *gin.Context) {
	kind, ok := gc.kind(c)
	if !ok {
		return
	}

	v, err := gc.gallery.Reload(c.Request.Context(), kind, c.GetString(middleware.CtxUsername))
	if err != nil && errors.Is(err, media.ErrUnsupportedKind) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	resp := gallery.ToResponseView(v)
	if err != nil {
		gc.logger.Warn("Reload() error", zap.String("kind", kind.String()), zap.Error(err))
		resp.ReloadError = "failed to load files"
	}

	c.JSON(http.StatusOK, resp)
}

func (gc *GalleryController) SetFilterHandler(c *gin.Context) {
	kind, ok := gc.kind(c)
	if !ok {
		return
	}

	var req gallery.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}
	if errs := validator.ValidateFilter(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	v, err := gc.gallery.SetDateFilter(kind, req.StartDate, req.EndDate)
	gc.respondView(c, v, err)
}

func (gc *GalleryController) ClearFilterHandler(c *gin.Context) {
	kind, ok := gc.kind(c)
	if !ok {
		return
	}

	v, err := gc.gallery.ClearDateFilter(kind)
	gc.respondView(c, v, err)
}

func (gc *GalleryController) SetPageHandler(c *gin.Context) {
	kind, ok := gc.kind(c)
	if !ok {
		return
	}

	var req gallery.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	v, err := gc.gallery.SetPage(kind, req.Page)
	gc.respondView(c, v, err)
}

func (gc *GalleryController) SetItemsPerPageHandler(c *gin.Context) {
	kind, ok := gc.kind(c)
	if !ok {
		return
	}

	var req gallery.ItemsPerPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	v, err := gc.gallery.SetItemsPerPage(kind, req.ItemsPerPage)
	gc.respondView(c, v, err)
}

// UploadHandler answers 201 when at least one file was stored and 422 when
// every file was rejected; per-file failures are listed either way.
func (gc *GalleryController) UploadHandler(c *gin.Context) {
	kind, ok := gc.kind(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "files are required"})
		return
	}

	res, err := gc.gallery.UploadFiles(c.Request.Context(), kind, form.File["files"], c.GetString(middleware.CtxUsername))
	if err != nil {
		if errors.Is(err, services.ErrNoFiles) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "files are required"})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to upload files"},
		)
		gc.logger.Error("UploadFiles() error", zap.Error(err))
		return
	}

	status := http.StatusCreated
	if len(res.Stored) == 0 {
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gallery.ToUploadResponse(res.Stored, res.Failures))
}

func (gc *GalleryController) DeleteFileHandler(c *gin.Context) {
	kind, ok := gc.kind(c)
	if !ok {
		return
	}

	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	if err := gc.gallery.RemoveFile(c.Request.Context(), kind, key, c.GetString(middleware.CtxUsername)); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to delete file"},
		)
		gc.logger.Error("RemoveFile() error", zap.Error(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func (gc *GalleryController) DeletePositionHandler(c *gin.Context) {
	kind, ok := gc.kind(c)
	if !ok {
		return
	}

	idx, err := validator.ValidateIndex(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	removed, err := gc.gallery.RemoveAt(c.Request.Context(), kind, idx, c.GetString(middleware.CtxUsername))
	if err != nil {
		if errors.Is(err, collection.ErrPositionOutOfRange) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to delete file"},
		)
		gc.logger.Error("RemoveAt() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gallery.ToResponseFile(removed))
}

// ContentHandler serves cached bytes of fresh uploads and redirects to the
// storage URL for everything else.
func (gc *GalleryController) ContentHandler(c *gin.Context) {
	kind, ok := gc.kind(c)
	if !ok {
		return
	}

	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	ref, err := gc.gallery.Resolve(kind, key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	switch f := ref.(type) {
	case media.LocalFile:
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, f.ContentType, f.Content)
	case media.RemoteFile:
		c.Redirect(http.StatusFound, f.URL)
	}
}

func (gc *GalleryController) ActivityHandler(c *gin.Context) {
	limit, err := validator.ValidateLimit(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := gc.gallery.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get activity"},
		)
		gc.logger.Error("RecentActivity() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gallery.ActivityResponse{Data: gallery.ToResponseEvents(events)})
}
