package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/services"
	"github.com/yigit/eventsphere/internal/middleware"
)

// maxImportBytes caps the size of an uploaded CSV
const maxImportBytes = 5 << 20

// StudentController handles student search, statistics and CSV exchange
type StudentController struct {
	studentService *services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// SearchStudents lists students matching the filters
// @Summary Search students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param q query string false "Matches name, roll number, course or email"
// @Param department query string false "Department"
// @Param year query string false "Year"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /students [get]
func (c *StudentController) SearchStudents(ctx *gin.Context) {
	var query dto.StudentSearchQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	students, err := c.studentService.SearchStudents(ctx.Request.Context(), query, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.StudentListResponse{Students: students}))
}

// ParticipationStats returns a student's participation summary
// @Summary Student participation statistics
// @Description An unknown roll number returns empty statistics with a null student.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param rollNumber path string true "Roll number"
// @Success 200 {object} dto.APIResponse{data=models.ParticipationStats} "Statistics"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /students/{rollNumber}/stats [get]
func (c *StudentController) ParticipationStats(ctx *gin.Context) {
	stats, err := c.studentService.ParticipationStats(ctx.Request.Context(), ctx.Param("rollNumber"), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

// ExportStudents downloads every student as CSV
// @Summary Export students
// @Tags students
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /students/export [get]
func (c *StudentController) ExportStudents(ctx *gin.Context) {
	csv, err := c.studentService.ExportStudents(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="students.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// ImportStudents creates students from CSV
// @Summary Import students
// @Description Accepts a raw CSV body or a multipart form with a "file" field. Only counts are reported.
// @Tags students
// @Accept text/csv,multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file false "CSV file"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Invalid CSV"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /students/import [post]
func (c *StudentController) ImportStudents(ctx *gin.Context) {
	body, err := readImportBody(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Unreadable import upload")
		ctx.JSON(http.StatusBadRequest, badRequest("Invalid CSV upload", err.Error()))
		return
	}

	res, err := c.studentService.ImportStudents(ctx.Request.Context(), body, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(res))
}

func readImportBody(ctx *gin.Context) (string, error) {
	var r io.Reader = ctx.Request.Body
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return "", fmt.Errorf("missing file field: %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxImportBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxImportBytes {
		return "", fmt.Errorf("file exceeds %d bytes", maxImportBytes)
	}
	return string(data), nil
}
