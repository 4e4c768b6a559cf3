// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"qbank/internal/delivery/api/response"
	deliverycontext "qbank/internal/delivery/context"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/errors"
	"qbank/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	msgPasswordUpdated = "Password updated successful"
	msgUserDeleted     = "user deleted"
)

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// deleteUserRequest binds the path of DELETE /user/delete/:id. The json tag
// only names the field in validation errors; the body is never read.
type deleteUserRequest struct {
	ID string `param:"id" json:"id" validate:"required,uuid" message:"Please provide a valid user id"`
}

// Signup handles account creation.
func (h *UserHandler) Signup(c echo.Context) error {
	input := new(usecase.SignupInput)
	if err := c.Bind(input); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	output, err := h.uc.Signup(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// Login handles the user login request.
func (h *UserHandler) Login(c echo.Context) error {
	input := new(usecase.LoginInput)
	if err := c.Bind(input); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// Me returns the caller's profile.
func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrNoToken)
	}

	view, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view)
}

// UpdatePassword changes the caller's password.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrNoToken)
	}

	input := new(usecase.UpdatePasswordInput)
	if err := c.Bind(input); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	if err := h.uc.UpdatePassword(c.Request().Context(), userID, input); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, msgPasswordUpdated)
}

// GetAllUsers lists active accounts for admins.
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	users, err := h.uc.GetAllUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users)
}

// DeleteUser soft-deletes the account named in the path.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	actorID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrNoToken)
	}

	var req deleteUserRequest
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &req); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	userID, err := uuid.Parse(req.ID)
	if err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	if err := h.uc.DeleteUser(c.Request().Context(), actorID, userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, msgUserDeleted)
}
