package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/services"
)

type TestHandler struct {
	testService     services.TestService
	scheduleService services.ScheduleExportService
}

func NewTestHandler(testService services.TestService, scheduleService services.ScheduleExportService) *TestHandler {
	return &TestHandler{testService: testService, scheduleService: scheduleService}
}

func (th *TestHandler) Create(c *gin.Context) {
	var in services.CreateTestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	test, err := th.testService.Create(c.Request.Context(), in)
	if err != nil {
		RespondFault(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"test": test})
}

func (th *TestHandler) Get(c *gin.Context) {
	id, err := pathID(c, "test_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	test, err := th.testService.Get(c.Request.Context(), id)
	if err != nil {
		RespondFault(c, err)
		return
	}
	RespondOK(c, gin.H{"test": test})
}

func (th *TestHandler) List(c *gin.Context) {
	tests, err := th.testService.List(c.Request.Context())
	if err != nil {
		RespondFault(c, err)
		return
	}
	RespondOK(c, gin.H{"tests": tests})
}

func (th *TestHandler) Schedule(c *gin.Context) {
	th.transition(c, th.testService.Schedule)
}

func (th *TestHandler) Start(c *gin.Context) {
	th.transition(c, th.testService.Start)
}

func (th *TestHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*domain.Test, error)) {
	id, err := pathID(c, "test_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	test, err := fn(c.Request.Context(), id)
	if err != nil {
		RespondFault(c, err)
		return
	}
	RespondOK(c, gin.H{"test": test})
}

func (th *TestHandler) Complete(c *gin.Context) {
	id, err := pathID(c, "test_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	var in services.CompleteTestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	test, err := th.testService.Complete(c.Request.Context(), id, in)
	if err != nil {
		RespondFault(c, err)
		return
	}
	RespondOK(c, gin.H{"test": test})
}

func (th *TestHandler) AddObservation(c *gin.Context) {
	id, err := pathID(c, "test_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	var in services.AddObservationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	obs, err := th.testService.AddObservation(c.Request.Context(), id, in)
	if err != nil {
		RespondFault(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"observation": obs})
}

func (th *TestHandler) ExportSchedule(c *gin.Context) {
	id, err := pathID(c, "test_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	buf, filename, err := th.scheduleService.Export(c.Request.Context(), id)
	if err != nil {
		RespondFault(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}
