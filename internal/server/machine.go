package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	machinedomain "github.com/lunelaser/lunebill/internal/machine/domain"
)

func (s *Server) ListMachines(c *gin.Context) {
	var req machinedomain.ListMachineRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, newValidationError("query", "invalid_query", err.Error()))
		return
	}

	resp, err := s.machineSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Machines})
}

func (s *Server) CreateMachine(c *gin.Context) {
	var req machinedomain.CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_body", "malformed request body"))
		return
	}

	machine, err := s.machineSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": machine})
}

func (s *Server) GetMachineByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	machine, err := s.machineSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": machine})
}

func (s *Server) GetMachineBySerial(c *gin.Context) {
	serial := strings.TrimSpace(c.Param("serial"))
	if serial == "" {
		AbortWithError(c, newValidationError("serial", "invalid_serial_number", "serial number is required"))
		return
	}

	machine, err := s.machineSvc.GetBySerial(c.Request.Context(), serial)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": machine})
}

func (s *Server) UpdateMachine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req machinedomain.UpdateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_body", "malformed request body"))
		return
	}

	machine, err := s.machineSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": machine})
}

func (s *Server) DeleteMachine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.machineSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) AvailableUsageMonths(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	months, err := s.usageSvc.AvailableMonths(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": months})
}

func (s *Server) MonthlyUsageStats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	year, ok := parseIntParam(c, "year")
	if !ok {
		return
	}
	month, ok := parseIntParam(c, "month")
	if !ok {
		return
	}

	stats, err := s.usageSvc.MonthlyStats(c.Request.Context(), id, year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
