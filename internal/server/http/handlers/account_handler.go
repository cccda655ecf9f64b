package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/celestial/internal/domain/errors"
	"github.com/polkiloo/celestial/internal/server/http/dto"
)

// Client messages for account endpoints.
const (
	MsgAccountCreated    = "Account created successfully"
	MsgLoginSuccessful   = "Login successful"
	MsgEmailRegistered   = "Email already registered"
	MsgAccountNotFound   = "No account found with this email. Please sign up first."
	MsgIncorrectPassword = "Incorrect password. Please try again."
	MsgSignupFailed      = "Error creating account. Please try again."
	MsgSigninFailed      = "Error signing in. Please try again."
	MsgProfileFailed     = "Error fetching user data"
	MsgInvalidUserID     = "Invalid user id"
	MsgUserNotFound      = "User not found"
)

// AccountHandler processes signup, signin and profile lookups.
type AccountHandler struct {
	facade   AccountFacade
	logger   *slog.Logger
	recorder AuthRecorder
}

// NewAccountHandler creates AccountHandler instance. recorder may be nil.
func NewAccountHandler(facade AccountFacade, logger *slog.Logger, recorder AuthRecorder) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &AccountHandler{facade: facade, logger: logger, recorder: recorder}
}

// Signup handles POST /api/auth/signup.
func (h *AccountHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.facade.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var vErr *domainErrors.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.recorder.RecordAuth("signup", "invalid")
			c.JSON(http.StatusBadRequest, dto.Failure(vErr.Message))
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			h.recorder.RecordAuth("signup", "duplicate")
			c.JSON(http.StatusBadRequest, dto.Failure(MsgEmailRegistered))
		default:
			h.recorder.RecordAuth("signup", "error")
			h.logger.Error("signup failed", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, dto.Failure(MsgSignupFailed))
		}
		return
	}

	h.recorder.RecordAuth("signup", "success")
	c.JSON(http.StatusCreated, dto.Envelope{Success: true, Message: MsgAccountCreated, User: dto.NewUser(user)})
}

// Signin handles POST /api/auth/signin.
func (h *AccountHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.facade.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var vErr *domainErrors.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.recorder.RecordAuth("signin", "invalid")
			c.JSON(http.StatusBadRequest, dto.Failure(vErr.Message))
		case errors.Is(err, domainErrors.ErrAccountNotFound):
			h.recorder.RecordAuth("signin", "account_not_found")
			c.JSON(http.StatusUnauthorized, dto.Failure(MsgAccountNotFound))
		case errors.Is(err, domainErrors.ErrIncorrectPassword):
			h.recorder.RecordAuth("signin", "incorrect_password")
			c.JSON(http.StatusUnauthorized, dto.Failure(MsgIncorrectPassword))
		default:
			h.recorder.RecordAuth("signin", "error")
			h.logger.Error("signin failed", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, dto.Failure(MsgSigninFailed))
		}
		return
	}

	h.recorder.RecordAuth("signin", "success")
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: MsgLoginSuccessful, User: dto.NewUser(user)})
}

// Profile handles GET /api/auth/user/:id.
func (h *AccountHandler) Profile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.Failure(MsgInvalidUserID))
		return
	}

	user, err := h.facade.Profile(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidIdentifier):
			c.JSON(http.StatusBadRequest, dto.Failure(MsgInvalidUserID))
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Failure(MsgUserNotFound))
		default:
			h.logger.Error("profile lookup failed", slog.String("user_id", id), slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, dto.Failure(MsgProfileFailed))
		}
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, User: dto.NewProfile(user)})
}
