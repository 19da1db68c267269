package handlers

import (
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository   repositories.UserRepository
	inviteRepository repositories.InviteRepository
	firebaseAuth     *auth.Client
	jwtSecret        string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, inviteRepo repositories.InviteRepository, firebaseAuthClient *auth.Client, jwtSecret string) *AuthHandler {
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &AuthHandler{
		userRepository:   userRepo,
		inviteRepository: inviteRepo,
		firebaseAuth:     firebaseAuthClient,
		jwtSecret:        jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup registers a user through an invite token. The invite determines
// the facility and role; used or expired invites are rejected.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	invite, err := h.inviteRepository.GetByToken(req.InviteToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid invite token")
	}
	if !invite.Usable(time.Now()) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invite token has expired or was already used")
	}

	// Check if user with this email already exists
	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:       req.Name,
		Email:      req.Email,
		Role:       invite.Role,
		FacilityID: invite.FacilityID,
		Password:   string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.inviteRepository.MarkUsed(invite.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	return c.JSON(http.StatusCreated, echo.Map{"user": user, "token": token})
}

// SignIn authenticates a local account and issues a JWT
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT for the
// mapped user
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
	}

	user, err := h.userRepository.GetUserByFirebaseUID(token.UID)
	if err != nil {
		// First Firebase login for an existing local account: link by the
		// verified email claim.
		email, _ := token.Claims["email"].(string)
		if email == "" {
			return echo.NewHTTPError(http.StatusNotFound, "No account linked to this Firebase user")
		}
		user, err = h.userRepository.GetUserByEmail(email)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "No account linked to this Firebase user")
		}
		user.FirebaseUID = token.UID
		if err := h.userRepository.UpdateUser(user); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	jwtToken, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": jwtToken})
}

// generateJWT creates a signed token carrying the user's identity and
// facility scope
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:     user.ID,
		FacilityID: user.FacilityID,
		Role:       user.Role,
		Email:      user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
