package class

import (
	"errors"
	"net/http"
	"strconv"

	"fitcenter/internal/api"
	"fitcenter/internal/auth"
	"fitcenter/internal/flash"
	"fitcenter/internal/pagination"
	"fitcenter/internal/policy"
	"fitcenter/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	svc  Service
	pol  *policy.Policy
	msgs *flash.Store
}

func NewHandler(db *sqlx.DB, pol *policy.Policy, msgs *flash.Store) *Handler {
	return &Handler{
		svc:  NewService(NewRepository(db)),
		pol:  pol,
		msgs: msgs,
	}
}

// List godoc
// @Summary      List classes
// @Description  One page of the schedule with live open-spot counts.
// @Tags         classes
// @Produce      json
// @Param        page  query     int     false  "Page"            default(1)
// @Param        ipp   query     int     false  "Items per page"  default(5)
// @Param        sort  query     string  false  "asc or desc"     default(asc)
// @Success      200   {object}  gin.H
// @Failure      400   {object}  api.ErrorResponse
// @Router       /classes [get]
func (h *Handler) List(c *gin.Context) {
	req, err := pagination.ParseQuery(c.Query("page"), c.Query("ipp"), c.Query("sort"), 5)
	if err != nil {
		h.respondPaginationError(c, err)
		return
	}

	classes, w, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		h.respondPaginationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classes": Views(classes),
		"pagination": api.Pagination{
			Page:         w.Page,
			ItemsPerPage: w.ItemsPerPage,
			TotalPages:   w.TotalPages,
			Sort:         string(w.Sort),
		},
	})
}

// Get godoc
// @Summary      View a class
// @Tags         classes
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {object}  View
// @Failure      404      {object}  api.ErrorResponse
// @Router       /classes/{classID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Invalid class ID"))
		return
	}

	cls, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, api.Error(policy.MsgClassNotFound))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Error("Database error"))
		return
	}

	c.JSON(http.StatusOK, cls.View())
}

// Create godoc
// @Summary      Create a class
// @Description  Instructor only; the class is owned by the acting username.
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Class data"
// @Success      201      {object}  gin.H
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Router       /classes [post]
func (h *Handler) Create(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error(auth.MsgLoginRequired))
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.BindingErrors(err))
		return
	}

	cls, err := h.svc.Create(c.Request.Context(), ident.Username, req)
	if err != nil {
		var vErr *validate.Error
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Errors: vErr.Messages})
			return
		}
		c.JSON(http.StatusInternalServerError, api.Error("Failed to create class"))
		return
	}

	h.msgs.Success(c.Request.Context(), ident.MemberID, MsgCreated)
	c.JSON(http.StatusCreated, gin.H{"class": cls, "message": MsgCreated})
}

// Update godoc
// @Summary      Edit a class
// @Description  Only the owning instructor may edit.
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        classID  path      int            true  "Class ID"
// @Param        request  body      UpdateRequest  true  "Updated class data"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /classes/{classID} [put]
func (h *Handler) Update(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error(auth.MsgLoginRequired))
		return
	}

	id, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Invalid class ID"))
		return
	}

	if !h.allowOwner(c, id, ident.Username) {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.BindingErrors(err))
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, req); err != nil {
		var vErr *validate.Error
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Errors: vErr.Messages})
			return
		}
		c.JSON(http.StatusInternalServerError, api.Error("Failed to update class"))
		return
	}

	h.msgs.Success(c.Request.Context(), ident.MemberID, MsgUpdated)
	c.JSON(http.StatusOK, api.MessageResponse{Message: MsgUpdated})
}

// Delete godoc
// @Summary      Delete a class
// @Description  Only the owning instructor may delete.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {object}  api.MessageResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /classes/{classID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error(auth.MsgLoginRequired))
		return
	}

	id, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Invalid class ID"))
		return
	}

	if !h.allowOwner(c, id, ident.Username) {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, api.Error("Failed to delete class"))
		return
	}

	h.msgs.Success(c.Request.Context(), ident.MemberID, MsgDeleted)
	c.JSON(http.StatusOK, api.MessageResponse{Message: MsgDeleted})
}

// allowOwner runs the existence-then-ownership policy chain and writes the
// error response itself. Returns true when the caller may proceed.
func (h *Handler) allowOwner(c *gin.Context, classID int, username string) bool {
	err := h.pol.ClassOwner(c.Request.Context(), classID, username)
	switch {
	case err == nil:
		return true
	case errors.Is(err, policy.ErrClassNotFound):
		c.JSON(http.StatusNotFound, api.Error(policy.MsgClassNotFound))
	case errors.Is(err, policy.ErrNotOwner):
		c.JSON(http.StatusForbidden, api.Error(policy.MsgNotOwner))
	default:
		c.JSON(http.StatusInternalServerError, api.Error("Database error"))
	}
	return false
}

func (h *Handler) respondPaginationError(c *gin.Context, err error) {
	var pErr *pagination.Error
	if errors.As(err, &pErr) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Errors: pErr.Messages})
		return
	}
	c.JSON(http.StatusInternalServerError, api.Error("Database error"))
}
