package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rylimitless/electrolytes/internal/usecase"
)

// ImageHandler exposes image upload and retrieval endpoints.
type ImageHandler struct {
	media *usecase.MediaService
}

// NewImageHandler constructs ImageHandler.
func NewImageHandler(media *usecase.MediaService) *ImageHandler {
	return &ImageHandler{media: media}
}

// RegisterRoutes binds the image routes at the engine root.
func (h *ImageHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/upload", h.upload)
	r.GET("/images-list", h.list)
	r.GET("/image/:filename", h.get)
	r.DELETE("/image/:filename", h.delete)
}

func (h *ImageHandler) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "missing file field"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unreadable upload"))
		return
	}
	defer src.Close()

	name := c.PostForm("name")
	contentType := file.Header.Get("Content-Type")

	info, err := h.media.Upload(file.Filename, contentType, name, src)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrNotImage, Status: http.StatusBadRequest, Message: "uploaded file is not an image"},
		}, http.StatusInternalServerError, "image upload failed")
		return
	}

	c.JSON(http.StatusCreated, newImageView(info))
}

func (h *ImageHandler) list(c *gin.Context) {
	images, err := h.media.List()
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "image listing failed")
		return
	}

	views := make([]ImageView, 0, len(images))
	for _, img := range images {
		views = append(views, newImageView(img))
	}

	c.JSON(http.StatusOK, ImageListResponse{Images: views, Count: len(views)})
}

func (h *ImageHandler) get(c *gin.Context) {
	path, err := h.media.ImagePath(c.Param("filename"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrImageNotFound, Status: http.StatusNotFound, Message: "image not found"},
		}, http.StatusInternalServerError, "image lookup failed")
		return
	}

	c.File(path)
}

func (h *ImageHandler) delete(c *gin.Context) {
	if err := h.media.Delete(c.Param("filename")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrImageNotFound, Status: http.StatusNotFound, Message: "image not found"},
		}, http.StatusInternalServerError, "image delete failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "image deleted"})
}
