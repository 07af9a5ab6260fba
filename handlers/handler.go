package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"todoshare/services"
	"todoshare/utils"
)

// Handler serves the HTTP API. Every handler takes the acting user from
// the request context and passes it to the services explicitly.
type Handler struct {
	auth      *services.AuthService
	profiles  *services.ProfileService
	friends   *services.FriendshipService
	todos     *services.TodoService
	uploadDir string
}

func New(auth *services.AuthService, profiles *services.ProfileService, friends *services.FriendshipService, todos *services.TodoService, uploadDir string) *Handler {
	return &Handler{
		auth:      auth,
		profiles:  profiles,
		friends:   friends,
		todos:     todos,
		uploadDir: uploadDir,
	}
}

// respondError writes the response for a service error. Internal errors
// are attached to the context for the request logger and reported
// generically.
func respondError(c *gin.Context, err error) {
	msg := services.PublicMessage(err)
	switch services.KindOf(err) {
	case services.KindValidation:
		utils.BadRequest(c, msg)
	case services.KindUnauthorized:
		utils.Unauthorized(c, msg)
	case services.KindForbidden:
		utils.Forbidden(c, msg)
	case services.KindNotFound:
		utils.NotFound(c, msg)
	case services.KindConflict:
		var existing *services.ExistingFriendshipError
		if errors.As(err, &existing) {
			utils.Conflict(c, msg, gin.H{"status": existing.Status})
			return
		}
		utils.Conflict(c, msg, nil)
	default:
		c.Error(err)
		utils.InternalError(c, msg)
	}
}
