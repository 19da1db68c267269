package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

// AuthContextKey is where the middleware stores the derived AuthContext on
// the echo context.
const AuthContextKey = "authContext"

// AuthMiddleware derives a typed AuthContext from the request's bearer
// token. Credentials are tried in a fallback chain: a locally issued HS256
// JWT first, then a Firebase ID token when a Firebase client is configured.
// Handlers read the result via AuthFromContext and never parse credentials
// themselves.
func AuthMiddleware(jwtSecret string, firebaseAuth *auth.Client, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}
			tokenString := parts[1]

			if ac, ok := verifyLocalJWT(tokenString, jwtSecret); ok {
				c.Set(AuthContextKey, ac)
				return next(c)
			}

			if firebaseAuth != nil {
				if ac, ok := verifyFirebaseToken(c, tokenString, firebaseAuth, userRepo); ok {
					c.Set(AuthContextKey, ac)
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}
	}
}

// verifyLocalJWT checks a locally issued HS256 token.
func verifyLocalJWT(tokenString, jwtSecret string) (*models.AuthContext, bool) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	return &models.AuthContext{
		UserID:     claims.UserID,
		FacilityID: claims.FacilityID,
		Role:       claims.Role,
	}, true
}

// verifyFirebaseToken checks a Firebase ID token and resolves the local
// user row it maps to.
func verifyFirebaseToken(c echo.Context, tokenString string, firebaseAuth *auth.Client, userRepo repositories.UserRepository) (*models.AuthContext, bool) {
	token, err := firebaseAuth.VerifyIDToken(c.Request().Context(), tokenString)
	if err != nil {
		return nil, false
	}
	user, err := userRepo.GetUserByFirebaseUID(token.UID)
	if err != nil {
		return nil, false
	}
	return &models.AuthContext{
		UserID:     user.ID,
		FacilityID: user.FacilityID,
		Role:       user.Role,
	}, true
}

// AuthFromContext returns the AuthContext the middleware derived, or nil on
// routes outside the protected group.
func AuthFromContext(c echo.Context) *models.AuthContext {
	ac, _ := c.Get(AuthContextKey).(*models.AuthContext)
	return ac
}
