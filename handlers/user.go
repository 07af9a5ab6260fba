package handlers

import (
	"github.com/gin-gonic/gin"
	"todoshare/middleware"
	"todoshare/models"
	"todoshare/utils"
)

type LookupRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, profile)
}

func (h *Handler) SearchUsers(c *gin.Context) {
	users, err := h.friends.Search(c.Request.Context(), c.Query("q"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, users)
}

// LookupUser maps an email to a user id; an unknown email is a 404.
func (h *Handler) LookupUser(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "email is required")
		return
	}

	userID, err := h.auth.LookupByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"user_id": userID})
}
