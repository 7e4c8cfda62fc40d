package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/campusworks/assets_backend/config"
	"github.com/campusworks/assets_backend/models/reports"
	"github.com/campusworks/assets_backend/utils"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func streamWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Writer.Header().Set("Content-Type", xlsxContentType)
	c.Writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "reportHandlers", "streamWorkbook", filename, nil, err)
	}
}

func exportResourcesHandler() gin.HandlerFunc {
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
		f, err := reports.ExportResourcesWorkbook(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		streamWorkbook(c, f, fmt.Sprintf("assets-export-%s.xlsx", time.Now().Format("20060102")))
	}
}

func importResourcesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireWriter(c) {
			return
		}
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}
		defer file.Close()

		report, err := reports.ImportResourcesWorkbook(c.Request.Context(), file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status := http.StatusOK
		if report.Created == 0 && report.Failed > 0 {
			status = http.StatusBadRequest
		}
		c.JSON(status, report)
	}
}

func inventoryReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		f, err := reports.BuildInventoryWorkbook(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		streamWorkbook(c, f, fmt.Sprintf("inventory-report-%s.xlsx", time.Now().Format("20060102")))
	}
}
