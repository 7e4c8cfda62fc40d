package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/campusworks/assets_backend/models"
	"github.com/campusworks/assets_backend/utils"
	"github.com/shopspring/decimal"
)

// filterFromQuery maps list/export query params onto the shared filter.
func filterFromQuery(c *gin.Context) (models.ResourceFilter, error) {
	filter := models.ResourceFilter{
		Department:           strings.TrimSpace(c.Query("department")),
		Location:             strings.TrimSpace(c.Query("location")),
		ServiceTag:           strings.TrimSpace(c.Query("service_tag")),
		IdentificationNumber: strings.TrimSpace(c.Query("identification_number")),
		DescriptionLike:      strings.TrimSpace(c.Query("q")),
	}

	if v := strings.TrimSpace(c.Query("cost_value")); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return filter, err
		}
		filter.CostValue = &amount
		filter.CostOp = models.CostOp(strings.TrimSpace(c.Query("cost_op")))
	}
	if v := strings.TrimSpace(c.Query("procured_after")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.ProcuredAfter = &t
	}
	if v := strings.TrimSpace(c.Query("procured_before")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.ProcuredBefore = &t
	}
	return filter, nil
}

func listResourcesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		filter, err := filterFromQuery(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		resources, err := models.GetResources(c.Request.Context(), filter, limit, offset)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		total, err := models.CountResources(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"resources": resources,
			"total":     total,
			"limit":     limit,
			"offset":    offset,
		})
	}
}

func getResourceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
			return
		}
		resource, err := models.GetResource(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resource)
	}
}

// requireWriter gates the mutating CRUD handlers the same way the assistant
// gates mutating instructions.
func requireWriter(c *gin.Context) bool {
	role, err := sessionRole(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	if !role.CanWrite() {
		c.JSON(http.StatusForbidden, gin.H{"error": "your role does not allow inventory changes"})
		return false
	}
	return true
}

func createResourceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireWriter(c) {
			return
		}
		var input models.NewResource
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		resource, err := models.CreateResource(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, resource)
	}
}

func updateResourceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireWriter(c) {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
			return
		}
		var input models.NewResource
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		resource, err := models.UpdateResource(c.Request.Context(), id, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resource)
	}
}

func deleteResourceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireWriter(c) {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
			return
		}
		resource, err := models.DeleteResource(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": resource.ID})
	}
}

func dashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		summary, err := models.GetDashboardSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
