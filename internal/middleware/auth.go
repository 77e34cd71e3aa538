package middleware

import (
	"net/http"
	"strings"

	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/pkg"
	"Neighborhood_Hub/internal/policy"
	"Neighborhood_Hub/internal/repository/mysql"
	"Neighborhood_Hub/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextActorKey  = "actor"
)

// Auth validates the bearer token against the redis single-session store,
// then loads the caller's fresh role and memberships into a policy.Actor.
// Role changes take effect on the next request, not at token expiry.
func Auth(users *mysql.UserRepository, members *mysql.MembershipRepository, tokens *redis.TokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			return
		}
		tokenStr := parts[1]

		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			return
		}

		originToken, err := tokens.GetUserToken(claims.UserID)
		if err != nil || originToken != tokenStr {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "account has been logged in elsewhere"})
			return
		}
		if err := tokens.ExtendUserToken(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		user, err := users.FindByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "account no longer exists"})
			return
		}
		if user.Status == model.StatusSuspended {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "account suspended"})
			return
		}

		memberships, err := members.ListByUser(user.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "membership lookup failed"})
			return
		}

		actor := policy.Actor{ID: user.ID, Role: user.Role}
		for _, m := range memberships {
			actor.Memberships = append(actor.Memberships, policy.Membership{
				CommunityID: m.CommunityID,
				Role:        m.Role,
			})
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the actor injected by Auth; the zero actor means the
// route was reached without the middleware.
func ActorFrom(c *gin.Context) policy.Actor {
	if v, ok := c.Get(ContextActorKey); ok {
		if actor, ok := v.(policy.Actor); ok {
			return actor
		}
	}
	return policy.Actor{}
}
