package handlers

import (
	"github.com/gin-gonic/gin"
	"todoshare/middleware"
	"todoshare/models"
	"todoshare/utils"
)

// FriendRequest targets a user by id or by email.
type FriendRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (h *Handler) GetFriends(c *gin.Context) {
	friends, err := h.friends.ListAccepted(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, friends)
}

func (h *Handler) GetFriendRequests(c *gin.Context) {
	requests, err := h.friends.ListIncoming(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, requests)
}

func (h *Handler) GetSentRequests(c *gin.Context) {
	requests, err := h.friends.ListOutgoing(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, requests)
}

func (h *Handler) SendFriendRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if req.UserID == "" && req.Email == "" {
		utils.BadRequest(c, "user_id or email is required")
		return
	}

	var (
		friendship *models.Friendship
		err        error
	)
	if req.UserID != "" {
		friendship, err = h.friends.SendRequest(c.Request.Context(), userID, req.UserID)
	} else {
		friendship, err = h.friends.SendRequestByEmail(c.Request.Context(), userID, req.Email)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, friendship)
}

// RespondFriendRequest accepts, declines or blocks a pending request and
// returns the refreshed requests and friends.
func (h *Handler) RespondFriendRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)
	action := models.FriendAction(c.Param("action"))

	if err := h.friends.Respond(c.Request.Context(), userID, c.Param("id"), action); err != nil {
		respondError(c, err)
		return
	}
	h.friendsSnapshot(c, userID)
}

func (h *Handler) DeleteFriend(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.friends.Remove(c.Request.Context(), userID, c.Param("user_id")); err != nil {
		respondError(c, err)
		return
	}
	h.friendsSnapshot(c, userID)
}

func (h *Handler) friendsSnapshot(c *gin.Context, userID string) {
	ctx := c.Request.Context()
	requests, err := h.friends.ListIncoming(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	friends, err := h.friends.ListAccepted(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"requests": requests, "friends": friends})
}
