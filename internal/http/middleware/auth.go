package middleware

import (
	"errors"
	"strings"

	"github.com/RamizjonSheraliyev/Auths-Advances/internal/token"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/utils"
	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key the guard stores the verified
// user id under.
const ContextUserID = "user_id"

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "token"

// Auth extracts the session token from the Authorization header or,
// failing that, the token cookie, verifies it and injects the user id.
// It never touches the credential store; handlers re-check existence
// where they need it.
func Auth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			raw, _ = c.Cookie(SessionCookie)
		}
		if raw == "" {
			utils.RespondError(c, utils.UnauthorizedError("Unauthorized - no token provided"))
			c.Abort()
			return
		}

		userID, err := codec.Verify(raw)
		if err != nil {
			if errors.Is(err, token.ErrExpiredToken) {
				utils.RespondError(c, utils.UnauthorizedError("Unauthorized - token expired"))
			} else {
				utils.RespondError(c, utils.UnauthorizedError("Unauthorized - invalid token"))
			}
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
