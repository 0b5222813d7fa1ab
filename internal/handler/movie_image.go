package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/storage"
)

// multipartSlack covers multipart boundaries and headers around the file.
const multipartSlack = 64 << 10

func imageFieldError(c echo.Context, msg, rule string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error":  msg,
		"fields": map[string]string{"image": rule},
	})
}

// UploadImage handles POST /api/cinema/movies/:id/upload-image.  The
// multipart part "image" must be a JPEG, PNG or GIF file.  The new file
// replaces the previous one, which is removed from storage.  Invalid
// uploads leave the movie untouched.
func (h *MovieHandler) UploadImage(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "not found")
	}
	ctx := c.Request().Context()

	movie, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "not found")
		}
		h.Log.Error("get movie", zap.Uint64("movie_id", id), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}

	limit := h.Media.MaxUploadBytes()
	req := c.Request()
	if req.ContentLength > limit+multipartSlack {
		return imageFieldError(c, "file too large", "max")
	}
	req.Body = http.MaxBytesReader(c.Response(), req.Body, limit+multipartSlack)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return imageFieldError(c, "file too large", "max")
		}
		return imageFieldError(c, "no file was submitted", "required")
	}
	if fh.Size > limit {
		return imageFieldError(c, "file too large", "max")
	}
	f, err := fh.Open()
	if err != nil {
		return imageFieldError(c, "no file was submitted", "required")
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	_ = f.Close()
	if err != nil {
		return imageFieldError(c, "no file was submitted", "required")
	}
	if int64(len(data)) > limit {
		return imageFieldError(c, "file too large", "max")
	}

	info, err := storage.InspectImage(data)
	if err != nil {
		return imageFieldError(c, storage.ErrInvalidImage.Error(), "image")
	}

	name := storage.MovieImageName(movie.Title, info.Ext)
	if err := h.Files.Save(ctx, name, data); err != nil {
		h.Log.Error("save movie image", zap.String("path", name), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "store failed")
	}
	if err := h.Movies.SetImage(ctx, id, name); err != nil {
		_ = h.Files.Delete(ctx, name)
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "not found")
		}
		h.Log.Error("set movie image", zap.Uint64("movie_id", id), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "update failed")
	}
	if movie.Image.Valid && movie.Image.String != "" && movie.Image.String != name {
		if err := h.Files.Delete(ctx, movie.Image.String); err != nil {
			h.Log.Warn("remove previous movie image", zap.String("path", movie.Image.String), zap.Error(err))
		}
	}

	movie.Image.String, movie.Image.Valid = name, true
	h.Log.Info("movie image uploaded",
		zap.Uint64("movie_id", id), zap.String("path", name),
		zap.String("mime", info.MIME), zap.Int("bytes", len(data)))
	return c.JSON(http.StatusOK, movieDetailFrom(c, h.Media, *movie))
}
