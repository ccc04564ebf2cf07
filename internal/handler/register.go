package handler

import (
	"net/http"
	"strconv"

	"github.com/GestharPDV/gesthar-pdv/internal/apierror"
	"github.com/GestharPDV/gesthar-pdv/internal/dto"
	"github.com/GestharPDV/gesthar-pdv/internal/middleware"
	"github.com/GestharPDV/gesthar-pdv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegisterHandler struct{ svc service.RegisterService }

func NewRegisterHandler(svc service.RegisterService) *RegisterHandler {
	return &RegisterHandler{svc: svc}
}

// Open godoc
// @Summary      Open a cash register session
// @Description  Starts the operator's working period. One open session per operator.
// @Tags         register
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.OpenRegisterRequest true "Opening balance"
// @Success      201  {object} dto.RegisterReportResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/register/open [post]
func (h *RegisterHandler) Open(c *gin.Context) {
	var req dto.OpenRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Open(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary      Close a cash register session
// @Description  Reconciles the counted drawer value against the expected balance.
// @Tags         register
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Session id"
// @Param        body body dto.CloseRegisterRequest true "Counted drawer value"
// @Success      200  {object} dto.RegisterReportResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/register/{id}/close [post]
func (h *RegisterHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.CloseRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Close(c.Request.Context(), id, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Current returns the authenticated operator's open session, if any.
func (h *RegisterHandler) Current(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Current(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report returns the live report of one session.
func (h *RegisterHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns a paginated list of closed sessions.
func (h *RegisterHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reports, total, err := h.svc.History(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reports, "total": total, "page": page, "limit": limit})
}
