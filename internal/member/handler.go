package member

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
	"fitcenter/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const (
	msgWelcome     = "Welcome to the Fitness Center, %s!"
	msgWelcomeBack = "Welcome back to the Fitness Center, %s!"
	msgUpdated     = "Your information was updated."
	msgDeleted     = "Your account has been deleted."
	msgLoggedOut   = "You have been logged out."
)

type Handler struct {
	svc      Service
	classSvc class.Service
	pol      *policy.Policy
	msgs     *flash.Store
}

func NewHandler(db *sqlx.DB, jwtSecret string, pol *policy.Policy, msgs *flash.Store) *Handler {
	return &Handler{
		svc:      NewService(NewRepository(db), jwtSecret),
		classSvc: class.NewService(class.NewRepository(db)),
		pol:      pol,
		msgs:     msgs,
	}
}

// Signup godoc
// @Summary      Sign up a new member
// @Description  Creates a non-instructor account after validating every field.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      SignupRequest  true  "Signup data"
// @Success      201      {object}  gin.H
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.BindingErrors(err))
		return
	}

	m, err := h.svc.Signup(c.Request.Context(), req)
	if err != nil {
		var vErr *validate.Error
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Errors: vErr.Messages})
			return
		}
		c.JSON(http.StatusInternalServerError, api.Error("Failed to create member"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"member":  m,
		"message": fmt.Sprintf(msgWelcome, m.FirstName),
	})
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and returns a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.BindingErrors(err))
		return
	}

	m, token, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, api.Error(MsgInvalidCredentials))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Error("Failed to log in"))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		Member:  *m,
		Message: fmt.Sprintf(msgWelcomeBack, m.FirstName),
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Clears any pending messages; the client discards its token.
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if ok {
		_ = h.msgs.Clear(c.Request.Context(), ident.MemberID)
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: msgLoggedOut})
}

// GetMe godoc
// @Summary      Current member
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Member
// @Failure      401  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error(auth.MsgLoginRequired))
		return
	}

	m, err := h.svc.Get(c.Request.Context(), ident.MemberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error("Database error"))
		return
	}

	c.JSON(http.StatusOK, m)
}

// Messages godoc
// @Summary      Pending flash messages
// @Description  Returns and clears the member's stashed messages.
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  flash.Message
// @Router       /me/messages [get]
func (h *Handler) Messages(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error(auth.MsgLoginRequired))
		return
	}

	msgs, err := h.msgs.Pop(c.Request.Context(), ident.MemberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error("Failed to read messages"))
		return
	}

	c.JSON(http.StatusOK, msgs)
}

// GetMember godoc
// @Summary      View a member account
// @Description  Self only. Instructors also get the classes they teach.
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        memberID  path      int  true  "Member ID"
// @Success      200       {object}  gin.H
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /members/{memberID} [get]
func (h *Handler) GetMember(c *gin.Context) {
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

	if !h.allowSelf(c, id, ident.MemberID) {
		return
	}

	m, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error("Database error"))
		return
	}

	resp := gin.H{"member": m}
	if m.Instructor {
		taught, err := h.classSvc.TaughtBy(c.Request.Context(), m.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.Error("Database error"))
			return
		}
		resp["taught_classes"] = class.Views(taught)
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateMember godoc
// @Summary      Edit a member account
// @Description  Self only. Name, phone and username; never the password.
// @Tags         members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        memberID  path      int            true  "Member ID"
// @Param        request   body      UpdateRequest  true  "Updated fields"
// @Success      200       {object}  gin.H
// @Failure      400       {object}  api.ErrorResponse
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /members/{memberID} [put]
func (h *Handler) UpdateMember(c *gin.Context) {
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

	if !h.allowSelf(c, id, ident.MemberID) {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.BindingErrors(err))
		return
	}

	m, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		var vErr *validate.Error
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Errors: vErr.Messages})
			return
		}
		c.JSON(http.StatusInternalServerError, api.Error("Failed to update member"))
		return
	}

	h.msgs.Success(c.Request.Context(), id, msgUpdated)
	c.JSON(http.StatusOK, gin.H{"member": m, "message": msgUpdated})
}

// DeleteMember godoc
// @Summary      Delete a member account
// @Description  Self only; instructor accounts are removed administratively.
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        memberID  path      int  true  "Member ID"
// @Success      200       {object}  api.MessageResponse
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /members/{memberID} [delete]
func (h *Handler) DeleteMember(c *gin.Context) {
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

	if !h.allowSelf(c, id, ident.MemberID) {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrInstructorDelete) {
			c.JSON(http.StatusForbidden, api.Error(MsgInstructorDelete))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Error("Failed to delete member"))
		return
	}

	_ = h.msgs.Clear(c.Request.Context(), id)
	c.JSON(http.StatusOK, api.MessageResponse{Message: msgDeleted})
}

// Directory godoc
// @Summary      Member directory
// @Description  Instructor only. Paginated, sorted by last name, searchable.
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        page  query     int     false  "Page"               default(1)
// @Param        ipp   query     int     false  "Items per page"     default(5)
// @Param        sort  query     string  false  "asc or desc"        default(asc)
// @Param        q     query     string  false  "Name/username search"
// @Success      200   {object}  gin.H
// @Failure      400   {object}  api.ErrorResponse
// @Router       /members [get]
func (h *Handler) Directory(c *gin.Context) {
	req, err := pagination.ParseQuery(c.Query("page"), c.Query("ipp"), c.Query("sort"), 5)
	if err != nil {
		h.respondPaginationError(c, err)
		return
	}

	entries, w, err := h.svc.Directory(c.Request.Context(), c.Query("q"), req)
	if err != nil {
		h.respondPaginationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": entries,
		"pagination": api.Pagination{
			Page:         w.Page,
			ItemsPerPage: w.ItemsPerPage,
			TotalPages:   w.TotalPages,
			Sort:         string(w.Sort),
		},
	})
}

// allowSelf runs the existence-then-self policy chain and writes the error
// response itself. Returns true when the caller may proceed.
func (h *Handler) allowSelf(c *gin.Context, targetID, actorID int) bool {
	err := h.pol.Self(c.Request.Context(), targetID, actorID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, policy.ErrMemberNotFound):
		c.JSON(http.StatusNotFound, api.Error(policy.MsgMemberNotFound))
	case errors.Is(err, policy.ErrNotSelf):
		c.JSON(http.StatusForbidden, api.Error(policy.MsgNotSelf))
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
