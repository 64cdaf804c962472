package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyfare/backend/internal/domain"
	"github.com/skyfare/backend/internal/service/wallet"
)

type WalletHandler struct {
	service wallet.WalletUseCase
}

type walletResponse struct {
	UserID       string               `json:"user_id"`
	Balance      int64                `json:"balance"`
	Transactions []domain.Transaction `json:"transactions"`
}

func NewWalletHandler(service wallet.WalletUseCase) *WalletHandler {
	return &WalletHandler{service: service}
}

func (h *WalletHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.get)
}

func (h *WalletHandler) get(c *gin.Context) {
	account, transactions, err := h.service.GetWallet(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, walletResponse{
		UserID:       account.UserID,
		Balance:      account.Balance,
		Transactions: transactions,
	})
}
