package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"orderdesk-backend/backoffice"
	"orderdesk-backend/cart"
	"orderdesk-backend/desk"
	"orderdesk-backend/dtos"
	"orderdesk-backend/models"
	"orderdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DeskHandler serves the order-creation sessions. DB is optional; without it
// submissions are not audited.
type DeskHandler struct {
	Sessions   *desk.Store
	Backoffice Backoffice
	DB         *gorm.DB
	Log        *zap.Logger
}

// session loads the :id session owned by the caller, writing the error
// response itself when it cannot.
func (h *DeskHandler) session(c *gin.Context) (*desk.Session, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return nil, false
	}

	s, err := h.Sessions.Get(id, userID)
	if err != nil {
		respondError(c, h.Log, err)
		return nil, false
	}
	return s, true
}

func (h *DeskHandler) respondState(c *gin.Context, status int, s *desk.Session) {
	state, err := s.State()
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(status, dtos.SessionResponse{
		ID:        s.ID,
		ShopID:    s.ShopID,
		CreatedAt: s.CreatedAt,
		State:     state,
	})
}

func (h *DeskHandler) CreateSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	s := h.Sessions.Create(userID, credentials(c).ShopID)
	h.Log.Debug("desk session opened", zap.String("session_id", s.ID.String()))
	h.respondState(c, http.StatusCreated, s)
}

func (h *DeskHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respondState(c, http.StatusOK, s)
}

// CloseSession discards the cart.
func (h *DeskHandler) CloseSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.Sessions.Close(s.ID, s.UserID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchProducts fetches a catalog page and makes it the session's catalog.
func (h *DeskHandler) SearchProducts(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var q dtos.ProductSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	page, err := h.Backoffice.SearchProducts(c.Request.Context(), credentials(c), backoffice.ProductQuery{
		Search:    q.Search,
		OrderBy:   q.OrderBy,
		Direction: q.Direction,
		PerPage:   q.PerPage,
		Page:      q.Page,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	products := make([]cart.Product, 0, len(page.Data))
	for _, p := range page.Data {
		products = append(products, p.CartProduct())
	}
	err = s.Do(func(_ *cart.Draft, catalog *desk.Catalog) error {
		catalog.Replace(products)
		return nil
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *DeskHandler) AddItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dtos.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if _, err := s.AddFromCatalog(req.ProductID, req.AttributeID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.respondState(c, http.StatusOK, s)
}

func lineKey(c *gin.Context) (cart.Key, bool) {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return cart.Key{}, false
	}
	attributeID, err := strconv.Atoi(c.Param("attribute_id"))
	if err != nil || attributeID < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attribute ID"})
		return cart.Key{}, false
	}
	return cart.Key{ProductID: productID, AttributeID: attributeID}, true
}

// ChangeQuantity steps a line up or down. Hitting the stock ceiling or the
// floor of 1 is not an error; the response reports changed=false.
func (h *DeskHandler) ChangeQuantity(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	key, ok := lineKey(c)
	if !ok {
		return
	}

	var req dtos.ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	dir, err := cart.ParseDirection(req.Direction)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	var resp dtos.QuantityResponse
	err = s.Edit(func(d *cart.Draft, _ *desk.Catalog) error {
		changed, err := d.ChangeQuantity(key.ProductID, key.AttributeID, dir)
		if err != nil {
			return err
		}
		resp = dtos.QuantityResponse{Changed: changed, State: d.State()}
		return nil
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveItem deletes a line. Removing a line that is not there is a no-op.
func (h *DeskHandler) RemoveItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	key, ok := lineKey(c)
	if !ok {
		return
	}

	err := s.Edit(func(d *cart.Draft, _ *desk.Catalog) error {
		d.Remove(key.ProductID, key.AttributeID)
		return nil
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.respondState(c, http.StatusOK, s)
}

func (h *DeskHandler) OpenPicker(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dtos.OpenPickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if _, err := s.OpenPicker(req.ProductID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.respondState(c, http.StatusOK, s)
}

func (h *DeskHandler) ChooseAttribute(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dtos.ChooseAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	err := s.Do(func(d *cart.Draft, _ *desk.Catalog) error {
		_, err := d.ChooseAttribute(req.AttributeID)
		return err
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.respondState(c, http.StatusOK, s)
}

func (h *DeskHandler) ConfirmPicker(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	err := s.Edit(func(d *cart.Draft, _ *desk.Catalog) error {
		_, err := d.ConfirmPicker()
		return err
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.respondState(c, http.StatusOK, s)
}

func (h *DeskHandler) CancelPicker(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	err := s.Do(func(d *cart.Draft, _ *desk.Catalog) error {
		d.CancelPicker()
		return nil
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.respondState(c, http.StatusOK, s)
}

func (h *DeskHandler) SetCustomer(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dtos.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	err := s.Edit(func(d *cart.Draft, _ *desk.Catalog) error {
		d.SetCustomer(req.CustomerID, req.CustomerLabel)
		return nil
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.respondState(c, http.StatusOK, s)
}

// SetPayment updates the payment fields present in the body. A rejected field
// rejects the whole request and the previous payment stays.
func (h *DeskHandler) SetPayment(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dtos.SetPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	err := s.Edit(func(d *cart.Draft, _ *desk.Catalog) error {
		return d.UpdatePayment(cart.PaymentUpdate{
			MethodID:      req.PaymentMethodID,
			TransactionID: req.TransactionID,
			PaidAmount:    req.PaidAmount,
		})
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.respondState(c, http.StatusOK, s)
}

// Submit sends the draft to the back office. The session is not locked while
// the order is in flight, but a second submit or any cart change meanwhile gets
// 409. The order call outlives the operator's request: once sent it runs to the
// client timeout even if the browser goes away, so a created order is never
// reported as failed. On success the session is closed, on failure the cart is
// left as it was.
func (h *DeskHandler) Submit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var sub cart.Submission
	err := s.Do(func(d *cart.Draft, _ *desk.Catalog) error {
		var err error
		sub, err = d.BeginSubmit(s.ShopID)
		return err
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	record := models.NewOrderSubmission(s.ID, s.UserID, sub)
	result, err := h.Backoffice.CreateOrder(context.WithoutCancel(c.Request.Context()), credentials(c), sub)
	if err != nil {
		// the session may have been closed meanwhile; nothing to release then
		_ = s.Do(func(d *cart.Draft, _ *desk.Catalog) error {
			d.EndSubmit()
			return nil
		})
		record.MarkFailed(err)
		h.audit(record)
		respondError(c, h.Log, err)
		return
	}

	record.MarkSucceeded(result.OrderID)
	h.audit(record)
	if err := h.Sessions.Close(s.ID, s.UserID); err != nil {
		h.Log.Debug("session already gone after submit", zap.String("session_id", s.ID.String()))
	}

	h.Log.Info("order submitted",
		zap.String("session_id", s.ID.String()),
		zap.Int("shop_id", s.ShopID),
		zap.Int("order_id", result.OrderID))
	c.JSON(http.StatusCreated, dtos.SubmitResponse{
		OrderID:  result.OrderID,
		Redirect: fmt.Sprintf("/orders/%d", result.OrderID),
		Message:  result.Message,
	})
}

func (h *DeskHandler) audit(record *models.OrderSubmission) {
	if h.DB == nil {
		return
	}
	if err := h.DB.Create(record).Error; err != nil {
		h.Log.Error("failed to record order submission",
			zap.String("session_id", record.SessionID.String()),
			zap.Error(err))
	}
}
