package trek

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/middleware"
	"trekmarket/internal/pkg/request"
	"trekmarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/treks", h.ListPublic)
	rg.GET("/treks/:id", h.GetPublic)
	rg.GET("/treks/:id/batches", h.ListOpenBatches)
	rg.GET("/treks/:id/pickup-points", h.ListPickupPoints)
}

func (h *Handler) RegisterVendorRoutes(rg *gin.RouterGroup) {
	rg.GET("/treks", h.ListOwn)
	rg.POST("/treks", h.Create)
	rg.GET("/treks/:id", h.GetOwn)
	rg.PUT("/treks/:id", h.Update)
	rg.PATCH("/treks/:id/status", h.SetStatus)
	rg.DELETE("/treks/:id", h.Delete)

	rg.POST("/treks/:id/images", h.AddImage)
	rg.DELETE("/treks/:id/images/:imageId", h.DeleteImage)
	rg.PUT("/treks/:id/itinerary", h.ReplaceItinerary)
	rg.PUT("/treks/:id/stages", h.ReplaceStages)
	rg.PUT("/treks/:id/accommodations", h.ReplaceAccommodations)

	rg.GET("/treks/:id/batches", h.ListBatches)
	rg.POST("/treks/:id/batches", h.CreateBatches)
	rg.PUT("/treks/:id/batches/:batchId", h.UpdateBatch)
	rg.DELETE("/treks/:id/batches/:batchId", h.DeleteBatch)

	rg.GET("/treks/:id/pickup-points", h.ListVendorPickupPoints)
	rg.POST("/treks/:id/pickup-points", h.CreatePickupPoint)
	rg.DELETE("/treks/:id/pickup-points/:pointId", h.DeletePickupPoint)
}

func (h *Handler) ListPublic(c *gin.Context) {
	page, limit := request.Pagination(c)
	f := PublicFilter{
		Difficulty: c.Query("difficulty"),
		Search:     c.Query("q"),
		Limit:      limit,
		Offset:     request.Offset(page, limit),
	}
	if v, err := strconv.ParseInt(c.Query("destination_id"), 10, 64); err == nil {
		f.DestinationID = v
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		f.MaxPrice = &v
	}

	items, total, err := h.service.ListPublic(c.Request.Context(), f)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: items, Total: total, Page: page, Limit: limit})
}

func (h *Handler) GetPublic(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	t, err := h.service.GetPublic(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) ListOpenBatches(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListOpenBatches(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListPickupPoints(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListPickupPoints(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListOwn(c *gin.Context) {
	page, limit := request.Pagination(c)
	items, total, err := h.service.ListForVendor(c.Request.Context(), middleware.VendorID(c), c.Query("status"), limit, request.Offset(page, limit))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: items, Total: total, Page: page, Limit: limit})
}

func (h *Handler) Create(c *gin.Context) {
	var req TrekRequest
	if !request.BindJSON(c, &req) {
		return
	}
	t, err := h.service.Create(c.Request.Context(), middleware.VendorID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) GetOwn(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	t, err := h.service.GetForVendor(c.Request.Context(), middleware.VendorID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req TrekRequest
	if !request.BindJSON(c, &req) {
		return
	}
	t, err := h.service.Update(c.Request.Context(), middleware.VendorID(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !request.BindJSON(c, &req) {
		return
	}
	t, err := h.service.SetStatus(c.Request.Context(), middleware.VendorID(c), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.VendorID(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

func (h *Handler) AddImage(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req ImageRequest
	if !request.BindJSON(c, &req) {
		return
	}
	img, err := h.service.AddImage(c.Request.Context(), middleware.VendorID(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, img)
}

func (h *Handler) DeleteImage(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	imageID, ok := request.ParamID(c, "imageId")
	if !ok {
		return
	}
	if err := h.service.DeleteImage(c.Request.Context(), middleware.VendorID(c), id, imageID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": imageID, "deleted": true})
}

func (h *Handler) ReplaceItinerary(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req ItineraryRequest
	if !request.BindJSON(c, &req) {
		return
	}
	items, err := h.service.ReplaceItinerary(c.Request.Context(), middleware.VendorID(c), id, req.Items)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ReplaceStages(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req StagesRequest
	if !request.BindJSON(c, &req) {
		return
	}
	items, err := h.service.ReplaceStages(c.Request.Context(), middleware.VendorID(c), id, req.Stages)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ReplaceAccommodations(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req AccommodationsRequest
	if !request.BindJSON(c, &req) {
		return
	}
	items, err := h.service.ReplaceAccommodations(c.Request.Context(), middleware.VendorID(c), id, req.Accommodations)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListBatches(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListVendorBatches(c.Request.Context(), middleware.VendorID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) CreateBatches(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req BatchesRequest
	if !request.BindJSON(c, &req) {
		return
	}
	items, err := h.service.CreateBatches(c.Request.Context(), middleware.VendorID(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, items)
}

func (h *Handler) UpdateBatch(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	batchID, ok := request.ParamID(c, "batchId")
	if !ok {
		return
	}
	var req BatchUpdateRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.UpdateBatch(c.Request.Context(), middleware.VendorID(c), id, batchID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) DeleteBatch(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	batchID, ok := request.ParamID(c, "batchId")
	if !ok {
		return
	}
	if err := h.service.DeleteBatch(c.Request.Context(), middleware.VendorID(c), id, batchID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": batchID, "deleted": true})
}

func (h *Handler) ListVendorPickupPoints(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListVendorPickupPoints(c.Request.Context(), middleware.VendorID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) CreatePickupPoint(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req PickupPointRequest
	if !request.BindJSON(c, &req) {
		return
	}
	p, err := h.service.CreatePickupPoint(c.Request.Context(), middleware.VendorID(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) DeletePickupPoint(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	pointID, ok := request.ParamID(c, "pointId")
	if !ok {
		return
	}
	if err := h.service.DeletePickupPoint(c.Request.Context(), middleware.VendorID(c), id, pointID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": pointID, "deleted": true})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTrekNotFound):
		response.Error(c, http.StatusNotFound, "TREK_NOT_FOUND", err.Error())
	case errors.Is(err, ErrImageNotFound):
		response.Error(c, http.StatusNotFound, "IMAGE_NOT_FOUND", err.Error())
	case errors.Is(err, ErrBatchNotFound):
		response.Error(c, http.StatusNotFound, "BATCH_NOT_FOUND", err.Error())
	case errors.Is(err, ErrPickupPointNotFound):
		response.Error(c, http.StatusNotFound, "PICKUP_POINT_NOT_FOUND", err.Error())
	case errors.Is(err, ErrTrekHasImages):
		response.Error(c, http.StatusConflict, "TREK_HAS_IMAGES", err.Error())
	case errors.Is(err, ErrTrekHasBookings), errors.Is(err, ErrBatchHasBookings):
		response.Error(c, http.StatusConflict, "HAS_BOOKINGS", err.Error())
	case errors.Is(err, ErrBatchExists):
		response.Error(c, http.StatusConflict, "BATCH_EXISTS", err.Error())
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrUnknownReference), errors.Is(err, ErrCapacityBelowBooked):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Internal(c, err)
	}
}
