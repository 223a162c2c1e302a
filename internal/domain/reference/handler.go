package reference

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/pkg/request"
	"trekmarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes active reference data for browsing.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/destinations", listHandler(h.service.Destinations, true))
	rg.GET("/destinations/:id", getHandler(h.service.Destinations))
	rg.GET("/cities", listHandler(h.service.Cities, true))
	rg.GET("/activities", listHandler(h.service.Activities, true))
	rg.GET("/badges", listHandler(h.service.Badges, true))
	rg.GET("/cancellation-policies", listHandler(h.service.Policies, true))
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	registerCRUD[Destination, DestinationRequest](rg, "/destinations", h.service.Destinations)
	registerCRUD[City, CityRequest](rg, "/cities", h.service.Cities)
	registerCRUD[Activity, ActivityRequest](rg, "/activities", h.service.Activities)
	registerCRUD[Badge, BadgeRequest](rg, "/badges", h.service.Badges)
	registerCRUD[CancellationPolicy, CancellationPolicyRequest](rg, "/cancellation-policies", h.service.Policies)
}

func registerCRUD[T any, R input[T]](rg *gin.RouterGroup, path string, store *Store[T]) {
	rg.GET(path, listHandler(store, false))
	rg.GET(path+"/:id", getHandler(store))
	rg.POST(path, createHandler[T, R](store))
	rg.PUT(path+"/:id", updateHandler[T, R](store))
	rg.DELETE(path+"/:id", deleteHandler(store))
}

func listHandler[T any](store *Store[T], activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := ListFilter{ActiveOnly: activeOnly, Search: c.Query("q")}
		if v := c.Query("destination_id"); v != "" {
			f.DestinationID, _ = strconv.ParseInt(v, 10, 64)
		}
		items, err := store.List(c.Request.Context(), f)
		if err != nil {
			response.Internal(c, err)
			return
		}
		response.Success(c, http.StatusOK, items)
	}
}

func getHandler[T any](store *Store[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := request.ParamID(c, "id")
		if !ok {
			return
		}
		item, err := store.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, item)
	}
}

func createHandler[T any, R input[T]](store *Store[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req R
		if !request.BindJSON(c, &req) {
			return
		}
		item := req.toModel()
		if err := store.Create(c.Request.Context(), &item, req.nameValue()); err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusCreated, item)
	}
}

func updateHandler[T any, R input[T]](store *Store[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := request.ParamID(c, "id")
		if !ok {
			return
		}
		var req R
		if !request.BindJSON(c, &req) {
			return
		}
		item, err := store.Update(c.Request.Context(), id, req.fields())
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, item)
	}
}

func deleteHandler[T any](store *Store[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := request.ParamID(c, "id")
		if !ok {
			return
		}
		if err := store.Delete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrDuplicateName):
		response.Error(c, http.StatusConflict, "DUPLICATE_NAME", err.Error())
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Internal(c, err)
	}
}
