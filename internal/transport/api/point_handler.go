package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/groph-points/internal/domain"
)

type PointHandler struct {
	svs PointServicer
}

func NewPointHandler(svs PointServicer) *PointHandler {
	return &PointHandler{
		svs: svs,
	}
}

type UserParams struct {
	UserID int64 `uri:"id" binding:"min=0"`
}

type AmountParams struct {
	// указатель, чтобы отличить отсутствующее поле от нуля.
	Amount *int64 `json:"amount" binding:"required"`
}

type UserPointResponse struct {
	UserID    int64  `json:"id"`
	Point     int64  `json:"point"`
	UpdatedAt string `json:"updated_at"`
}

type HistoryResponseItem struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Amount    int64  `json:"amount"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

func (p *PointHandler) Get(c *gin.Context) {
	var params UserParams
	if bindErr := c.ShouldBindUri(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := p.svs.Get(reqCtx, params.UserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserPointResponse(balance))
}

func (p *PointHandler) Histories(c *gin.Context) {
	var params UserParams
	if bindErr := c.ShouldBindUri(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	records, err := p.svs.History(reqCtx, params.UserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := make([]HistoryResponseItem, len(records))
	for i, record := range records {
		response[i] = HistoryResponseItem{
			ID:        record.ID,
			UserID:    record.UserID,
			Amount:    record.Amount,
			Type:      string(record.Type),
			CreatedAt: record.CreatedAt.Format(time.RFC3339Nano),
		}
	}

	c.JSON(http.StatusOK, response)
}

func (p *PointHandler) Charge(c *gin.Context) {
	p.mutate(c, p.svs.Charge)
}

func (p *PointHandler) Use(c *gin.Context) {
	p.mutate(c, p.svs.Use)
}

func (p *PointHandler) mutate(
	c *gin.Context,
	operation func(ctx context.Context, userID int64, amount int64) (*domain.UserBalance, error),
) {
	var params UserParams
	if bindErr := c.ShouldBindUri(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	var body AmountParams
	if bindErr := c.ShouldBindJSON(&body); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := operation(reqCtx, params.UserID, *body.Amount)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserPointResponse(balance))
}

// abortWithServiceError ошибки валидации операции отдаются клиенту как есть, остальные скрываются.
func abortWithServiceError(c *gin.Context, err error) {
	var pointErr *domain.PointError
	switch {
	case errors.As(err, &pointErr):
		_ = c.AbortWithError(pointErrorStatus(pointErr), pointErr.Kind).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrLockTimeout):
		_ = c.AbortWithError(http.StatusServiceUnavailable, domain.ErrLockTimeout).SetType(gin.ErrorTypePublic)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}

func pointErrorStatus(err *domain.PointError) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrChargeLimitExceeded), errors.Is(err, domain.ErrBalanceCapExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func newUserPointResponse(balance *domain.UserBalance) *UserPointResponse {
	return &UserPointResponse{
		UserID:    balance.UserID,
		Point:     balance.Balance,
		UpdatedAt: balance.UpdatedAt.Format(time.RFC3339Nano),
	}
}
