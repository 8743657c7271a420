package handler

import (
	"net/http"

	"textile-backend/internal/service"
	"textile-backend/pkg/pagination"
	"textile-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	ledger := router.Group("/api/ledger")
	{
		ledger.GET("/khata", h.ListKhatas)
		ledger.POST("/khata", h.CreateKhata)
		ledger.GET("/bill", h.ListBills)
		ledger.POST("/bill", h.CreateBill)
		ledger.GET("/bill/:id", h.GetBill)
		ledger.POST("/bill/:id/pay", h.PayBill)
		ledger.GET("/party", h.ListParties)
		ledger.POST("/party", h.CreateParty)
		ledger.GET("/bank-account", h.ListBankAccounts)
		ledger.POST("/bank-account", h.CreateBankAccount)
	}
}

// ListKhatas lists all khatas
// @Summary      List khatas
// @Description  Retrieves all khatas, lazily creating the default khata on first access
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.KhataResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/ledger/khata [get]
func (h *LedgerHandler) ListKhatas(c *gin.Context) {
	khatas, err := h.ledgerService.ListKhatas(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(khatas))
}

// CreateKhata creates a khata
// @Summary      Create khata
// @Description  Creates a new khata (ledger book)
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateKhataRequest  true  "Create Khata Payload"
// @Success      201      {object}  response.Response{data=service.KhataResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/ledger/khata [post]
func (h *LedgerHandler) CreateKhata(c *gin.Context) {
	var req service.CreateKhataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	khata, err := h.ledgerService.CreateKhata(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(khata, "Khata created successfully"))
}

// ListBills lists ledger bills
// @Summary      List bills
// @Description  Retrieves paginated ledger bills with optional filters
// @Tags         ledger
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 20)"
// @Param        khata_id  query     string  false  "Filter by khata ID"
// @Param        bill_type query     string  false  "Filter by bill type (PURCHASE, SALE, EXPENSE)"
// @Param        status    query     string  false  "Filter by bill status"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/ledger/bill [get]
func (h *LedgerHandler) ListBills(c *gin.Context) {
	params := pagination.Parse(c)
	bills, total, err := h.ledgerService.ListBills(
		c.Request.Context(),
		c.Query("khata_id"),
		c.Query("bill_type"),
		c.Query("status"),
		params.Page,
		params.Limit,
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"bills": bills,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// CreateBill creates a ledger bill
// @Summary      Create bill
// @Description  Creates a ledger bill with a generated bill number scoped to its khata and bill type
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBillRequest  true  "Create Bill Payload"
// @Success      201      {object}  response.Response{data=service.BillResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/ledger/bill [post]
func (h *LedgerHandler) CreateBill(c *gin.Context) {
	var req service.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	bill, err := h.ledgerService.CreateBill(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(bill, "Bill created successfully"))
}

// GetBill retrieves a ledger bill
// @Summary      Get bill
// @Description  Retrieves a ledger bill by ID
// @Tags         ledger
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  response.Response{data=service.BillResponse}
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/ledger/bill/{id} [get]
func (h *LedgerHandler) GetBill(c *gin.Context) {
	bill, err := h.ledgerService.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(bill))
}

// PayBill records a payment against a bill
// @Summary      Pay bill
// @Description  Records a payment against a bill, moving its status through PARTIAL to PAID and adjusting the linked bank account balance
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Bill ID"
// @Param        payload  body      service.BillPaymentRequest  true  "Payment Payload"
// @Success      200      {object}  response.Response{data=service.BillResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/ledger/bill/{id}/pay [post]
func (h *LedgerHandler) PayBill(c *gin.Context) {
	var req service.BillPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	bill, err := h.ledgerService.PayBill(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(bill, "Payment recorded successfully"))
}

// ListParties lists ledger parties
// @Summary      List parties
// @Description  Retrieves paginated ledger parties with optional filters
// @Tags         ledger
// @Produce      json
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Param        khata_id   query     string  false  "Filter by khata ID"
// @Param        party_type query     string  false  "Filter by party type (VENDOR, CUSTOMER)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/ledger/party [get]
func (h *LedgerHandler) ListParties(c *gin.Context) {
	params := pagination.Parse(c)
	parties, total, err := h.ledgerService.ListParties(
		c.Request.Context(),
		c.Query("khata_id"),
		c.Query("party_type"),
		params.Page,
		params.Limit,
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"parties": parties,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// CreateParty creates a ledger party
// @Summary      Create party
// @Description  Creates a vendor or customer party within a khata
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePartyRequest  true  "Create Party Payload"
// @Success      201      {object}  response.Response{data=service.PartyResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/ledger/party [post]
func (h *LedgerHandler) CreateParty(c *gin.Context) {
	var req service.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	party, err := h.ledgerService.CreateParty(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(party, "Party created successfully"))
}

// ListBankAccounts lists bank accounts
// @Summary      List bank accounts
// @Description  Retrieves bank accounts, optionally scoped to a khata
// @Tags         ledger
// @Produce      json
// @Param        khata_id  query     string  false  "Filter by khata ID"
// @Success      200  {object}  response.Response{data=[]service.BankAccountResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/ledger/bank-account [get]
func (h *LedgerHandler) ListBankAccounts(c *gin.Context) {
	accounts, err := h.ledgerService.ListBankAccounts(c.Request.Context(), c.Query("khata_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(accounts))
}

// CreateBankAccount creates a bank account
// @Summary      Create bank account
// @Description  Creates a bank account within a khata
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBankAccountRequest  true  "Create Bank Account Payload"
// @Success      201      {object}  response.Response{data=service.BankAccountResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/ledger/bank-account [post]
func (h *LedgerHandler) CreateBankAccount(c *gin.Context) {
	var req service.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.ledgerService.CreateBankAccount(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(account, "Bank account created successfully"))
}
