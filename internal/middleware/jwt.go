// internal/middleware/jwt.go
package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"devlog-engagement/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token expiration time - 24 hours
const tokenExpiration = 24 * time.Hour

type viewerContextKey struct{}

// Claims represents the JWT claims handed over by the identity collaborator.
type Claims struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Email       string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Identity validates tokens from the identity collaborator and derives the
// viewer for each request.
type Identity struct {
	secret []byte
}

func NewIdentity(secret string) *Identity {
	return &Identity{secret: []byte(secret)}
}

// GenerateToken creates a signed token for the given viewer identity. The
// real identity provider mints these; this exists for tooling and tests.
func (i *Identity) GenerateToken(userID uuid.UUID, displayName, avatarURL, email string) (string, error) {
	expirationTime := time.Now().Add(tokenExpiration)

	claims := &Claims{
		UserID:      userID,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Email:       email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "devlog-engagement-api",
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken validates the provided JWT token
func (i *Identity) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.secret, nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ViewerMiddleware resolves the request's viewer from the Authorization
// header. A missing or invalid token yields the anonymous viewer rather
// than a rejection: engagement reads are public, and the operations that do
// require an identity check it themselves.
func (i *Identity) ViewerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer := models.Anonymous()

		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := i.ValidateToken(tokenString)
			if err != nil {
				log.Printf("Ignoring invalid token: %v", err)
			} else {
				userID := claims.UserID
				viewer = &models.Viewer{
					ID:          &userID,
					DisplayName: claims.DisplayName,
					AvatarURL:   claims.AvatarURL,
					Email:       claims.Email,
				}
			}
		}

		ctx := context.WithValue(r.Context(), viewerContextKey{}, viewer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ViewerFromContext returns the viewer resolved by ViewerMiddleware, or the
// anonymous viewer if the middleware never ran.
func ViewerFromContext(ctx context.Context) *models.Viewer {
	if viewer, ok := ctx.Value(viewerContextKey{}).(*models.Viewer); ok {
		return viewer
	}
	return models.Anonymous()
}
