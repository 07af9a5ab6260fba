package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"todoshare/middleware"
	"todoshare/utils"
)

const maxAvatarSize = 2 * 1024 * 1024

// avatarExtensions maps a sniffed content type to the extension the file is
// stored under. The client's filename is never used.
var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	userID := middleware.GetUserID(c)

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		utils.BadRequest(c, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		utils.BadRequest(c, "avatar too large (max 2MB)")
		return
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		utils.BadRequest(c, "failed to read upload")
		return
	}
	sniff = sniff[:n]
	ext, ok := avatarExtensions[http.DetectContentType(sniff)]
	if !ok {
		utils.BadRequest(c, "avatar must be an image (jpeg, png, gif, webp)")
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		c.Error(err)
		utils.InternalError(c, "failed to save file")
		return
	}

	filename := utils.GenerateUUID() + ext
	path := filepath.Join(h.uploadDir, filename)
	if err := writeAvatar(path, io.MultiReader(bytes.NewReader(sniff), file)); err != nil {
		os.Remove(path)
		if errors.Is(err, errAvatarTooLarge) {
			utils.BadRequest(c, "avatar too large (max 2MB)")
			return
		}
		c.Error(err)
		utils.InternalError(c, "failed to save file")
		return
	}

	profile, err := h.profiles.SetAvatar(c.Request.Context(), userID, "/files/"+filename)
	if err != nil {
		os.Remove(path)
		respondError(c, err)
		return
	}
	utils.Success(c, profile)
}

var errAvatarTooLarge = errors.New("avatar too large")

func writeAvatar(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	written, err := io.Copy(out, io.LimitReader(r, maxAvatarSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if written > maxAvatarSize {
		return errAvatarTooLarge
	}
	return nil
}

func (h *Handler) ServeFile(c *gin.Context) {
	filename := c.Param("filename")

	cleanFilename := filepath.Clean(filename)
	if cleanFilename != filepath.Base(cleanFilename) || cleanFilename == "." || cleanFilename == ".." {
		utils.BadRequest(c, "invalid filename")
		return
	}

	filePath := filepath.Join(h.uploadDir, cleanFilename)

	absUploadDir, err := filepath.Abs(h.uploadDir)
	if err != nil {
		utils.InternalError(c, "server configuration error")
		return
	}
	absFilePath, err := filepath.Abs(filePath)
	if err != nil || !strings.HasPrefix(absFilePath, absUploadDir+string(filepath.Separator)) {
		utils.BadRequest(c, "invalid file path")
		return
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		utils.NotFound(c, "file not found")
		return
	}

	c.Header("X-Content-Type-Options", "nosniff")
	c.File(filePath)
}
