package enrollment

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fitcenter/internal/api"
	"fitcenter/internal/auth"
	"fitcenter/internal/class"
	"fitcenter/internal/flash"
	"fitcenter/internal/pagination"
	"fitcenter/internal/policy"

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
		svc:  NewService(NewRepository(db), class.NewRepository(db)),
		pol:  pol,
		msgs: msgs,
	}
}

// Enroll godoc
// @Summary      Enroll in a class
// @Description  Takes one open spot. Instructors cannot enroll in their own class.
// @Tags         enrollments
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {object}  gin.H
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /classes/{classID}/enroll [post]
func (h *Handler) Enroll(c *gin.Context) {
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

	cls, err := h.svc.Enroll(c.Request.Context(), id, ident.MemberID, ident.Username)
	if err != nil {
		switch {
		case errors.Is(err, class.ErrNotFound):
			c.JSON(http.StatusNotFound, api.Error(policy.MsgClassNotFound))
		case errors.Is(err, ErrInstructorEnroll):
			h.msgs.Error(c.Request.Context(), ident.MemberID, MsgInstructorEnroll)
			c.JSON(http.StatusForbidden, api.Error(MsgInstructorEnroll))
		case errors.Is(err, ErrAlreadyEnrolled):
			h.msgs.Error(c.Request.Context(), ident.MemberID, MsgAlreadyEnrolled)
			c.JSON(http.StatusConflict, api.Error(MsgAlreadyEnrolled))
		case errors.Is(err, ErrClassFull):
			h.msgs.Error(c.Request.Context(), ident.MemberID, MsgClassFull)
			c.JSON(http.StatusConflict, api.Error(MsgClassFull))
		default:
			c.JSON(http.StatusInternalServerError, api.Error("Database error"))
		}
		return
	}

	msg := fmt.Sprintf("You have enrolled in %s!", cls.Name)
	h.msgs.Success(c.Request.Context(), ident.MemberID, msg)
	c.JSON(http.StatusOK, gin.H{"class": cls.View(), "message": msg})
}

// Drop godoc
// @Summary      Drop a class
// @Description  Releases the member's spot in the class.
// @Tags         enrollments
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {object}  gin.H
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /classes/{classID}/drop [post]
func (h *Handler) Drop(c *gin.Context) {
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

	cls, err := h.svc.Drop(c.Request.Context(), id, ident.MemberID)
	if err != nil {
		switch {
		case errors.Is(err, class.ErrNotFound):
			c.JSON(http.StatusNotFound, api.Error(policy.MsgClassNotFound))
		case errors.Is(err, ErrNotEnrolled):
			h.msgs.Error(c.Request.Context(), ident.MemberID, MsgNotEnrolled)
			c.JSON(http.StatusConflict, api.Error(MsgNotEnrolled))
		default:
			c.JSON(http.StatusInternalServerError, api.Error("Database error"))
		}
		return
	}

	msg := fmt.Sprintf("You are no longer enrolled in %s.", cls.Name)
	h.msgs.Success(c.Request.Context(), ident.MemberID, msg)
	c.JSON(http.StatusOK, gin.H{"class": cls.View(), "message": msg})
}

// Roster godoc
// @Summary      Class roster
// @Description  One page of members enrolled in the class, ordered by last name.
// @Tags         enrollments
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int     true   "Class ID"
// @Param        page     query     int     false  "Page"            default(1)
// @Param        ipp      query     int     false  "Items per page"  default(5)
// @Param        sort     query     string  false  "asc or desc"     default(asc)
// @Success      200      {object}  gin.H
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /classes/{classID}/roster [get]
func (h *Handler) Roster(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Invalid class ID"))
		return
	}

	if err := h.pol.ClassExists(c.Request.Context(), id); err != nil {
		if errors.Is(err, policy.ErrClassNotFound) {
			c.JSON(http.StatusNotFound, api.Error(policy.MsgClassNotFound))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Error("Database error"))
		return
	}

	req, err := pagination.ParseQuery(c.Query("page"), c.Query("ipp"), c.Query("sort"), 5)
	if err != nil {
		h.respondPaginationError(c, err)
		return
	}

	roster, w, err := h.svc.Roster(c.Request.Context(), id, req)
	if err != nil {
		h.respondPaginationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": roster,
		"pagination": api.Pagination{
			Page:         w.Page,
			ItemsPerPage: w.ItemsPerPage,
			TotalPages:   w.TotalPages,
			Sort:         string(w.Sort),
		},
	})
}

// MemberClasses godoc
// @Summary      A member's enrolled classes
// @Description  Only the member themselves may view their schedule.
// @Tags         enrollments
// @Security     BearerAuth
// @Produce      json
// @Param        memberID  path      int     true   "Member ID"
// @Param        page      query     int     false  "Page"            default(1)
// @Param        ipp       query     int     false  "Items per page"  default(1)
// @Param        sort      query     string  false  "asc or desc"     default(asc)
// @Success      200       {object}  gin.H
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /members/{memberID}/classes [get]
func (h *Handler) MemberClasses(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error(auth.MsgLoginRequired))
		return
	}

	id, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Invalid member ID"))
		return
	}

	if err := h.pol.Self(c.Request.Context(), id, ident.MemberID); err != nil {
		switch {
		case errors.Is(err, policy.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, api.Error(policy.MsgMemberNotFound))
		case errors.Is(err, policy.ErrNotSelf):
			c.JSON(http.StatusForbidden, api.Error(policy.MsgNotSelf))
		default:
			c.JSON(http.StatusInternalServerError, api.Error("Database error"))
		}
		return
	}

	req, err := pagination.ParseQuery(c.Query("page"), c.Query("ipp"), c.Query("sort"), 1)
	if err != nil {
		h.respondPaginationError(c, err)
		return
	}

	classes, w, err := h.svc.ClassesFor(c.Request.Context(), id, req)
	if err != nil {
		h.respondPaginationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classes": class.Views(classes),
		"pagination": api.Pagination{
			Page:         w.Page,
			ItemsPerPage: w.ItemsPerPage,
			TotalPages:   w.TotalPages,
			Sort:         string(w.Sort),
		},
	})
}

func (h *Handler) respondPaginationError(c *gin.Context, err error) {
	var pErr *pagination.Error
	if errors.As(err, &pErr) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Errors: pErr.Messages})
		return
	}
	c.JSON(http.StatusInternalServerError, api.Error("Database error"))
}
