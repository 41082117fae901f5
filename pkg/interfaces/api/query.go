package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/schema"

	"github.com/vsinha/blendtrack/pkg/application/dto"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// bindList decodes list query parameters such as
// ?sort=lot_code,-quantity&status=BLENDING&active=true
func bindList(c *gin.Context) (dto.ListInput, bool) {
	var in dto.ListInput
	if err := decoder.Decode(&in, c.Request.URL.Query()); err != nil {
		respondBadRequest(c, "invalid query", err)
		return in, false
	}
	return in, true
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondBadRequest(c, "invalid request body", err)
		return false
	}
	return true
}

func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid id", err)
		return uuid.Nil, false
	}
	return id, true
}
