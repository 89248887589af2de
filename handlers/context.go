package handlers

import (
	"orderdesk-backend/backoffice"
	"orderdesk-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// credentials builds what is forwarded to the back office for this request.
func credentials(c *gin.Context) backoffice.Credentials {
	return backoffice.Credentials{
		Token:  c.GetString(middleware.ContextToken),
		ShopID: c.GetInt(middleware.ContextShopID),
	}
}
