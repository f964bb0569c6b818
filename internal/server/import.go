package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	importerdomain "github.com/smallbiznis/rentfolio/internal/importer/domain"
)

func (s *Server) UploadImportFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "missing_file", "multipart field \"file\" is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer file.Close()

	resp, err := s.importSvc.Upload(c.Request.Context(), importerdomain.UploadRequest{
		FileName: fileHeader.Filename,
		DataType: strings.TrimSpace(c.PostForm("data_type")),
		Source:   strings.TrimSpace(c.PostForm("source")),
		File:     file,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListImportJobs(c *gin.Context) {
	var query struct {
		PageToken string `form:"page_token"`
		PageSize  int32  `form:"page_size"`
		Status    string `form:"status"`
		DataType  string `form:"data_type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.importSvc.List(c.Request.Context(), importerdomain.ListImportJobsRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Status:    query.Status,
		DataType:  query.DataType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetImportJob(c *gin.Context) {
	resp, err := s.importSvc.GetByID(c.Request.Context(), importerdomain.GetImportJobRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateImportMapping(c *gin.Context) {
	var req struct {
		Mapping map[string]string `json:"mapping"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.importSvc.UpdateMapping(c.Request.Context(), importerdomain.UpdateMappingRequest{
		ID:      strings.TrimSpace(c.Param("id")),
		Mapping: req.Mapping,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExecuteImportJob(c *gin.Context) {
	var req struct {
		DryRun bool `json:"dry_run"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.importSvc.Execute(c.Request.Context(), importerdomain.ExecuteRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		DryRun: req.DryRun,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RollbackImportJob(c *gin.Context) {
	resp, err := s.importSvc.Rollback(c.Request.Context(), importerdomain.RollbackRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
