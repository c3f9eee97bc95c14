package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"climatework_backend/internal/auth"
	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const (
	userIDKey   = "userID"
	userTypeKey = "userType"

	profileCacheTTL   = 30 * time.Second
	profileCacheSweep = 5 * time.Minute
)

// RouteGuard is the authentication and role gate for protected routes. Every
// denial carries a redirect route in the payload so clients know where to
// send the user.
type RouteGuard struct {
	profileRepo repositories.ProfileRepository

	// profiles caches guard lookups briefly; the guard runs on every
	// request and the role of a profile effectively never changes.
	profiles *gocache.Cache
}

func NewRouteGuard(profileRepo repositories.ProfileRepository) *RouteGuard {
	return &RouteGuard{
		profileRepo: profileRepo,
		profiles:    gocache.New(profileCacheTTL, profileCacheSweep),
	}
}

// RequireAuth validates the bearer token and stores the caller's identity on
// the gin context. Missing or invalid credentials answer 401 with a login
// redirect.
func (g *RouteGuard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Authentication required",
				"redirect": models.RouteLogin,
			})
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Invalid or expired token",
				"redirect": models.RouteLogin,
			})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// RequireRole gates a route on the profile row's user_type. The decision
// table:
//
//	profile absent or unreadable, allowWithoutProfile  -> pass
//	profile absent, !allowWithoutProfile               -> 403 /unauthorized
//	role mismatch                                      -> 403 /unauthorized
//	role match                                         -> pass
//
// allowWithoutProfile exists for onboarding routes, which authenticated users
// must reach before their profile row exists.
func (g *RouteGuard) RequireRole(requiredRole models.UserType, allowWithoutProfile bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Authentication required",
				"redirect": models.RouteLogin,
			})
			return
		}

		profile, found, err := g.lookupProfile(c, userID)
		if err != nil || !found {
			// Absent and fetch-failed collapse to the same branch: the
			// guard cannot prove a role either way.
			if allowWithoutProfile {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Profile required",
				"redirect": models.RouteUnauthorized,
			})
			return
		}

		if profile.UserType != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Access denied",
				"redirect": models.RouteUnauthorized,
			})
			return
		}

		c.Set(userTypeKey, string(profile.UserType))
		c.Next()
	}
}

// lookupProfile serves guard reads through the short-TTL cache. Negative
// results are cached too so a profileless user hammering a guarded route
// does not hammer the database.
func (g *RouteGuard) lookupProfile(c *gin.Context, userID string) (*models.UserProfile, bool, error) {
	if cached, ok := g.profiles.Get(userID); ok {
		if cached == nil {
			return nil, false, nil
		}
		return cached.(*models.UserProfile), true, nil
	}

	db := GetDB(c)
	if db == nil {
		return nil, false, errors.New("db handle missing from request context")
	}

	profile, err := g.profileRepo.FindUserProfileByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			g.profiles.Set(userID, nil, gocache.DefaultExpiration)
			return nil, false, nil
		}
		return nil, false, err
	}

	g.profiles.Set(userID, profile, gocache.DefaultExpiration)
	return profile, true, nil
}

// InvalidateProfile drops a cached guard entry, used after profile creation
// so a fresh row is visible immediately.
func (g *RouteGuard) InvalidateProfile(userID string) {
	g.profiles.Delete(userID)
}

// GetUserID extracts the authenticated user id set by RequireAuth.
func GetUserID(c *gin.Context) string {
	value, exists := c.Get(userIDKey)
	if !exists {
		return ""
	}
	id, ok := value.(string)
	if !ok {
		return ""
	}
	return id
}

// GetDB extracts the gorm handle injected by DBMiddleware.
func GetDB(c *gin.Context) *gorm.DB {
	value, exists := c.Get(string(contextkeys.DBContextKey))
	if !exists {
		return nil
	}
	db, ok := value.(*gorm.DB)
	if !ok {
		return nil
	}
	return db
}
