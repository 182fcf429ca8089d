package product

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"snackapp/internal/commons"
	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

type Controller struct {
	useCase CatalogUseCase
	logger  *zap.Logger
}

func NewController(useCase CatalogUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

// Routes mounts the catalog endpoints under /api/products.
func (c *Controller) Routes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", c.HandleCreateProduct)
		r.Get("/", c.HandleListProducts)
		r.Post("/customize", c.HandleCustomize)

		r.Route("/add-ons", func(r chi.Router) {
			r.Post("/", c.HandleCreateAddOn)
			r.Get("/", c.HandleListAddOns)
			r.Get("/{addOnId}", c.HandleGetAddOn)
			r.Patch("/{addOnId}", c.HandleUpdateAddOn)
			r.Delete("/{addOnId}", c.HandleDeleteAddOn)
		})

		r.Get("/{productId}", c.HandleGetProduct)
		r.Patch("/{productId}", c.HandleUpdateProduct)
		r.Delete("/{productId}", c.HandleDeleteProduct)
	})
}

func (c *Controller) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	var req ProductCreateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	p, err := c.useCase.CreateProduct(r.Context(), req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, NewProductDTO(p), logger)
}

func (c *Controller) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	id, err := commons.ParseID("productId", chi.URLParam(r, "productId"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	p, err := c.useCase.GetProduct(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, NewProductDTO(p), logger)
}

func (c *Controller) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	filter, err := parseCatalogFilter(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	products, err := c.useCase.ListProducts(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		resp = append(resp, NewProductDTO(p))
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *Controller) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	id, err := commons.ParseID("productId", chi.URLParam(r, "productId"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	var req ProductUpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	p, err := c.useCase.UpdateProduct(r.Context(), id, req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, NewProductDTO(p), logger)
}

func (c *Controller) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	id, err := commons.ParseID("productId", chi.URLParam(r, "productId"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	if err := c.useCase.DeleteProduct(r.Context(), id); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) HandleCreateAddOn(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	var req AddOnCreateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	a, err := c.useCase.CreateAddOn(r.Context(), req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, NewAddOnDTO(a), logger)
}

func (c *Controller) HandleGetAddOn(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	id, err := commons.ParseID("addOnId", chi.URLParam(r, "addOnId"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	a, err := c.useCase.GetAddOn(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, NewAddOnDTO(a), logger)
}

func (c *Controller) HandleListAddOns(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	filter, err := parseCatalogFilter(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	addOns, err := c.useCase.ListAddOns(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]AddOnDTO, 0, len(addOns))
	for _, a := range addOns {
		resp = append(resp, NewAddOnDTO(a))
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *Controller) HandleUpdateAddOn(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	id, err := commons.ParseID("addOnId", chi.URLParam(r, "addOnId"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	var req AddOnUpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	a, err := c.useCase.UpdateAddOn(r.Context(), id, req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, NewAddOnDTO(a), logger)
}

func (c *Controller) HandleDeleteAddOn(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	id, err := commons.ParseID("addOnId", chi.URLParam(r, "addOnId"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	if err := c.useCase.DeleteAddOn(r.Context(), id); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) HandleCustomize(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	var req CustomizeRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	if req.ProductID <= 0 {
		commons.WriteValidationError(w, traceID, "validation failed", []apperrors.ValidationDetail{{
			Field:   "productId",
			Message: "productId must be a positive integer",
		}}, logger)
		return
	}

	portions := make([]domain.AddOnPortion, 0, len(req.AddOnPortions))
	for _, p := range req.AddOnPortions {
		portions = append(portions, domain.AddOnPortion{AddOnID: p.AddOnID, Quantity: p.Quantity})
	}

	product, err := c.useCase.CustomizeProduct(r.Context(), req.ProductID, portions)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, NewDecoratedProductDTO(product), logger)
}

func (c *Controller) trace() (string, *zap.Logger) {
	traceID := uuid.New().String()
	return traceID, c.logger.With(zap.String("traceId", traceID))
}

func parseCatalogFilter(r *http.Request) (domain.CatalogFilter, error) {
	var filter domain.CatalogFilter

	if raw := r.URL.Query().Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid active filter", apperrors.ValidationDetail{
				Field:   "active",
				Message: "active must be true or false",
			})
		}
		filter.Active = &active
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	}

	return filter, nil
}
