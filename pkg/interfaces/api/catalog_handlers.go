package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/blendtrack/pkg/application/dto"
	"github.com/vsinha/blendtrack/pkg/domain/entities"
)

func (h *handler) listCustomers(c *gin.Context) {
	in, ok := bindList(c)
	if !ok {
		return
	}
	customers, err := h.catalog.ListCustomers(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *handler) createCustomer(c *gin.Context) {
	var in dto.CreateCustomerInput
	if !bindJSON(c, &in) {
		return
	}
	customer, err := h.catalog.CreateCustomer(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *handler) getCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	customer, err := h.catalog.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *handler) deleteCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listProducts(c *gin.Context) {
	in, ok := bindList(c)
	if !ok {
		return
	}
	products, err := h.catalog.ListProducts(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handler) createProduct(c *gin.Context) {
	var in dto.CreateProductInput
	if !bindJSON(c, &in) {
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *handler) getProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), entities.ProductCode(c.Param("code")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handler) deleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), entities.ProductCode(c.Param("code"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) getRecipe(c *gin.Context) {
	lines, err := h.recipes.GetRecipe(c.Request.Context(), entities.ProductCode(c.Param("code")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

func (h *handler) setRecipe(c *gin.Context) {
	var in dto.SetRecipeInput
	if !bindJSON(c, &in) {
		return
	}
	lines, err := h.recipes.SetRecipe(c.Request.Context(), entities.ProductCode(c.Param("code")), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

func (h *handler) listTanks(c *gin.Context) {
	in, ok := bindList(c)
	if !ok {
		return
	}
	tanks, err := h.catalog.ListTanks(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tanks": tanks})
}

func (h *handler) createTank(c *gin.Context) {
	var in dto.CreateTankInput
	if !bindJSON(c, &in) {
		return
	}
	tank, err := h.catalog.CreateTank(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tank)
}

func (h *handler) getTank(c *gin.Context) {
	tank, err := h.catalog.GetTank(c.Request.Context(), entities.TankCode(c.Param("code")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tank)
}

func (h *handler) deleteTank(c *gin.Context) {
	if err := h.catalog.DeleteTank(c.Request.Context(), entities.TankCode(c.Param("code"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
