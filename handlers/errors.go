package handlers

import (
	"errors"
	"net/http"

	"orderdesk-backend/backoffice"
	"orderdesk-backend/cart"
	"orderdesk-backend/desk"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type domainError struct {
	err    error
	status int
	code   string
}

// domainErrors maps rule violations to a status and a machine-readable code
// the UI switches on.
var domainErrors = []domainError{
	{desk.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	{desk.ErrSessionClosed, http.StatusGone, "session_closed"},
	{desk.ErrProductNotInCatalog, http.StatusNotFound, "product_not_in_catalog"},
	{cart.ErrLineNotFound, http.StatusNotFound, "line_not_found"},
	{cart.ErrInvalidDirection, http.StatusUnprocessableEntity, "invalid_direction"},
	{cart.ErrAttributeRequired, http.StatusUnprocessableEntity, "attribute_required"},
	{cart.ErrUnknownAttribute, http.StatusUnprocessableEntity, "unknown_attribute"},
	{cart.ErrNoAttributes, http.StatusUnprocessableEntity, "no_attributes"},
	{cart.ErrPickerClosed, http.StatusConflict, "picker_closed"},
	{cart.ErrUnknownOperator, http.StatusUnprocessableEntity, "unknown_operator"},
	{cart.ErrNegativePrice, http.StatusUnprocessableEntity, "negative_price"},
	{cart.ErrPaidOutOfRange, http.StatusUnprocessableEntity, "paid_out_of_range"},
	{cart.ErrInvalidPaymentMethod, http.StatusUnprocessableEntity, "invalid_payment_method"},
	{cart.ErrTransactionRequired, http.StatusUnprocessableEntity, "transaction_required"},
	{cart.ErrTransactionNotEditable, http.StatusConflict, "transaction_not_editable"},
	{cart.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
	{cart.ErrNoCustomer, http.StatusUnprocessableEntity, "no_customer"},
	{cart.ErrSubmissionInFlight, http.StatusConflict, "submission_in_flight"},
}

// respondError writes the response for err. Only failures the operator cannot
// fix are logged.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			c.JSON(de.status, gin.H{"error": de.err.Error(), "code": de.code})
			return
		}
	}

	if errors.Is(err, backoffice.ErrUnauthorized) {
		// no body: the admin UI's interceptor sends the operator to login
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var validationErr *backoffice.ValidationError
	if errors.As(err, &validationErr) {
		msg := validationErr.Message
		if msg == "" {
			msg = "The back office rejected the request"
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg, "fields": validationErr.Fields})
		return
	}

	var rejectedErr *backoffice.RejectedError
	if errors.As(err, &rejectedErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": rejectedErr.Error(), "code": "order_rejected", "message": rejectedErr.Message})
		return
	}

	var transportErr *backoffice.TransportError
	if errors.As(err, &transportErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Back office unavailable. Please try again."})
		return
	}

	var statusErr *backoffice.StatusError
	var decodeErr *backoffice.DecodeError
	if errors.As(err, &statusErr) || errors.As(err, &decodeErr) {
		log.Error("back office request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Back office request failed"})
		return
	}

	log.Error("unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
