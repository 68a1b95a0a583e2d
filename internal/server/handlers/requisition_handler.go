package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	"github.com/mamadbah2/dyecalc/internal/service/dyeing"
	"github.com/mamadbah2/dyecalc/internal/service/printing"
)

const pdfContentType = "application/pdf"

// RequisitionHandler serves the stateless requisition editor. Clients send
// the whole requisition with every change and receive the updated one back.
type RequisitionHandler struct {
	printer *printing.Service
	logger  *zap.Logger
	now     func() time.Time
}

// NewRequisitionHandler constructs the HTTP handler adapter.
func NewRequisitionHandler(printer *printing.Service, logger *zap.Logger) *RequisitionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequisitionHandler{printer: printer, logger: logger, now: time.Now}
}

type requisitionResponse struct {
	Requisition models.Requisition `json:"requisition"`
	Changed     bool               `json:"changed"`
	TotalCost   float64            `json:"totalCost"`
}

func respondRequisition(c *gin.Context, req models.Requisition, changed bool) {
	c.JSON(http.StatusOK, requisitionResponse{Requisition: req, Changed: changed, TotalCost: dyeing.TotalCost(req.Items)})
}

// New starts a blank requisition. It also serves as "clear".
func (h *RequisitionHandler) New(c *gin.Context) {
	respondRequisition(c, dyeing.Clear(h.now()), true)
}

type formChangeRequest struct {
	Requisition models.Requisition `json:"requisition"`
	Field       string             `json:"field" binding:"required"`
	Value       string             `json:"value"`
}

// Form applies one header field change.
func (h *RequisitionHandler) Form(c *gin.Context) {
	var body formChangeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	req, changed, err := dyeing.ApplyFormChange(body.Requisition, models.ParseFormCommand(body.Field, body.Value))
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	respondRequisition(c, req, changed)
}

// Item list actions.
const (
	actionUpdate = "update"
	actionAdd    = "add"
	actionRemove = "remove"
	actionMove   = "move"
)

type itemChangeRequest struct {
	Requisition models.Requisition `json:"requisition"`
	Action      string             `json:"action"`
	Index       int                `json:"index"`
	To          int                `json:"to"`
	Op          string             `json:"op"`
	Value       string             `json:"value"`
}

// Items edits the item list: update one field, add, remove or move a row.
func (h *RequisitionHandler) Items(c *gin.Context) {
	var body itemChangeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	var (
		req     models.Requisition
		changed bool
		err     error
	)
	switch body.Action {
	case actionUpdate, "":
		cmd, perr := models.ParseItemCommand(body.Op, body.Value)
		if perr != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
			return
		}
		req, changed, err = dyeing.ApplyItemChange(body.Requisition, body.Index, cmd)
	case actionAdd:
		req, changed = dyeing.AddItem(body.Requisition), true
	case actionRemove:
		req, err = dyeing.RemoveItem(body.Requisition, body.Index)
		changed = err == nil
	case actionMove:
		req, err = dyeing.MoveItem(body.Requisition, body.Index, body.To)
		changed = err == nil && body.Index != body.To
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown action %q", body.Action)})
		return
	}
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	respondRequisition(c, req, changed)
}

// PDF renders the posted requisition for printing.
func (h *RequisitionHandler) PDF(c *gin.Context) {
	var req models.Requisition
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	req, _ = dyeing.Refresh(req)
	writeRequisitionPDF(c, h.printer, h.logger, req)
}

func writeRequisitionPDF(c *gin.Context, printer *printing.Service, logger *zap.Logger, req models.Requisition) {
	var buf bytes.Buffer
	if err := printer.Requisition(&buf, req); err != nil {
		abortWithError(c, logger, err)
		return
	}
	name := req.Form.ReqID
	if name == "" {
		name = "requisition"
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", name+".pdf"))
	c.Data(http.StatusOK, pdfContentType, buf.Bytes())
}

type quantityRequest struct {
	Dosing       *float64 `json:"dosing"`
	Shade        *float64 `json:"shade"`
	TotalWater   *float64 `json:"totalWater"`
	FabricWeight *float64 `json:"fabricWeight"`
	LiquorRatio  *float64 `json:"liquorRatio"`
	UnitPrice    *float64 `json:"unitPrice"`
}

type quantityResponse struct {
	TotalWater *float64        `json:"totalWater"`
	TotalKg    *float64        `json:"totalKg"`
	Qty        models.Quantity `json:"qty"`
	Costing    float64         `json:"costing"`
}

// Quantity computes an ad-hoc item quantity. Dosing wins over shade, and
// total water is derived from fabric weight and liquor ratio when not given.
func (h *RequisitionHandler) Quantity(c *gin.Context) {
	var body quantityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	water := body.TotalWater
	if water == nil {
		water = dyeing.TotalWater(body.FabricWeight, body.LiquorRatio)
	}

	var total *float64
	switch {
	case body.Dosing != nil:
		total = dyeing.QuantityFromDosing(body.Dosing, water)
	case body.Shade != nil:
		total = dyeing.QuantityFromShade(body.Shade, body.FabricWeight)
	}

	qty := dyeing.ConvertToSubUnits(total)
	c.JSON(http.StatusOK, quantityResponse{
		TotalWater: water,
		TotalKg:    total,
		Qty:        qty,
		Costing:    dyeing.Costing(qty, body.UnitPrice),
	})
}
