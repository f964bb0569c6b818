package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/rentfolio/internal/orgcontext"
)

const HeaderOrg = "X-Org-ID"

// OrgContext resolves the acting organization from the request header,
// falling back to the configured default. Handlers down the chain read it
// from the request context; services reject a missing org themselves.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := int64(0)
		if raw := strings.TrimSpace(c.GetHeader(HeaderOrg)); raw != "" {
			id, err := snowflake.ParseString(raw)
			if err != nil {
				AbortWithError(c, newValidationError("org_id", "invalid_org_id", "invalid organization id"))
				return
			}
			orgID = int64(id)
		} else {
			orgID = s.cfg.DefaultOrgID
		}
		if orgID != 0 {
			ctx := orgcontext.WithOrgID(c.Request.Context(), orgID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
