package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/blendtrack/pkg/application/dto"
	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

func (h *handler) listBlends(c *gin.Context) {
	in, ok := bindList(c)
	if !ok {
		return
	}
	blends, err := h.blends.List(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	applied, err := h.blends.AppliedSorts(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blends": blends, "sort": sorting.FormatCriteria(applied)})
}

func (h *handler) createBlend(c *gin.Context) {
	var in dto.CreateBlendInput
	if !bindJSON(c, &in) {
		return
	}
	blend, err := h.blends.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blend)
}

func (h *handler) getBlend(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	blend, err := h.blends.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blend)
}

func (h *handler) deleteBlend(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.blends.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) updateBlendStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in dto.UpdateStatusInput
	if !bindJSON(c, &in) {
		return
	}
	blend, err := h.blends.UpdateStatus(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blend)
}

func (h *handler) blendHistory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	history, err := h.blends.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *handler) blendComponents(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	components, err := h.blends.Components(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"components": components})
}

type statusInfo struct {
	Status      entities.BlendStatus   `json:"status"`
	Active      bool                   `json:"active"`
	Terminal    bool                   `json:"terminal"`
	Transitions []entities.BlendStatus `json:"transitions"`
}

func (h *handler) blendStatuses(c *gin.Context) {
	lifecycle := h.blends.Lifecycle()
	all := entities.AllBlendStatuses()
	out := make([]statusInfo, len(all))
	for i, status := range all {
		out[i] = statusInfo{
			Status:      status,
			Active:      status.IsActive(),
			Terminal:    lifecycle.IsTerminal(status),
			Transitions: lifecycle.AllowedTransitions(status),
		}
	}
	c.JSON(http.StatusOK, gin.H{"statuses": out, "enforced": lifecycle.Enforced()})
}

func (h *handler) sortFields(c *gin.Context) {
	var infos []sorting.FieldInfo
	switch c.Param("resource") {
	case "customers":
		infos = sortfields.Customers.Infos()
	case "products":
		infos = sortfields.Products.Infos()
	case "tanks":
		infos = sortfields.Tanks.Infos()
	case "blends":
		infos = sortfields.Blends.Infos()
	default:
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorInfo{
			Code:    ErrNotFoundCode,
			Message: "unknown resource",
			Details: c.Param("resource"),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": infos})
}
