package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hobbyforge/storefront/internal/application"
	"github.com/hobbyforge/storefront/internal/domain"
	"github.com/hobbyforge/storefront/internal/ports"
)

// SessionController flips the browsing session's identity. The in-memory
// identity provider satisfies it.
type SessionController interface {
	SignIn(identity domain.Identity)
	SignOut()
}

type Handler struct {
	engine   *application.Engine
	bridge   *application.PendingBridge
	products ports.ProductRepository
	session  SessionController
}

func NewHandler(engine *application.Engine, bridge *application.PendingBridge, products ports.ProductRepository, session SessionController) *Handler {
	return &Handler{engine: engine, bridge: bridge, products: products, session: session}
}

type productView struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Grade       *string `json:"grade,omitempty"`
	Scale       *string `json:"scale,omitempty"`
	Price       string  `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	InStock     bool    `json:"in_stock"`
}

type lineView struct {
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Product   productView `json:"product"`
}

type cartView struct {
	Lines    []lineView     `json:"lines"`
	Subtotal string         `json:"subtotal"`
	Tax      string         `json:"tax"`
	Total    string         `json:"total"`
	State    string         `json:"state"`
	Loading  bool           `json:"loading"`
	Notices  []noticeView   `json:"notices,omitempty"`
	Redirect string         `json:"redirect_to,omitempty"`
}

type noticeView struct {
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func toProductView(p domain.Product) productView {
	view := productView{
		ProductID:   p.ProductID.String(),
		Name:        p.Name,
		Scale:       p.Scale,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
		Category:    string(p.Category),
		Description: p.Description,
		InStock:     p.InStock,
	}
	if p.Grade != nil {
		grade := string(*p.Grade)
		view.Grade = &grade
	}
	return view
}

func toCartView(snap application.Snapshot, fb *Feedback) cartView {
	view := cartView{
		Lines:    make([]lineView, 0, len(snap.Lines)),
		Subtotal: snap.Totals.Subtotal.StringFixed(2),
		Tax:      snap.Totals.Tax.StringFixed(2),
		Total:    snap.Totals.Total.StringFixed(2),
		State:    string(snap.State),
		Loading:  snap.Loading,
	}
	for _, line := range snap.Lines {
		view.Lines = append(view.Lines, lineView{
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
			Product:   toProductView(line.Product),
		})
	}
	if fb != nil {
		for _, notice := range fb.Notices() {
			view.Notices = append(view.Notices, noticeView{
				Severity:    string(notice.Severity),
				Title:       notice.Title,
				Description: notice.Description,
			})
		}
		view.Redirect = fb.RedirectTo()
	}
	return view
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, toCartView(h.engine.Snapshot(), nil))
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product_id")
		return
	}
	product, err := h.products.Get(r.Context(), productID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}

	ctx, fb := WithFeedback(r.Context())
	if err := h.engine.AddItem(ctx, product, req.Quantity); err != nil {
		status, code, _ := mapDomainError(err)
		writeJSON(w, status, map[string]any{
			"error": errorBody{Code: code, Message: firstDescription(fb, "failed to add item")},
			"cart":  toCartView(h.engine.Snapshot(), fb),
		})
		return
	}
	if fb.RedirectTo() != "" {
		// Guest handoff: nothing was persisted, the intent is parked on the
		// bridge and the client is told where to authenticate.
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"cart": toCartView(h.engine.Snapshot(), fb),
		})
		return
	}
	writeSuccess(w, http.StatusOK, toCartView(h.engine.Snapshot(), fb))
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product_id")
		return
	}
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	ctx, fb := WithFeedback(r.Context())
	if err := h.engine.UpdateQuantity(ctx, productID, req.Quantity); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toCartView(h.engine.Snapshot(), fb))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product_id")
		return
	}
	ctx, fb := WithFeedback(r.Context())
	if err := h.engine.RemoveItem(ctx, productID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toCartView(h.engine.Snapshot(), fb))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, fb := WithFeedback(r.Context())
	if err := h.engine.ClearCart(ctx); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toCartView(h.engine.Snapshot(), fb))
}

type signInRequest struct {
	UserID string `json:"user_id"`
}

type signInResponse struct {
	Cart     cartView `json:"cart"`
	Replayed bool     `json:"replayed_pending_action"`
}

// signIn establishes the identity, which makes the engine load the persisted
// cart, then consumes any pending cart action and replays it through
// AddItem. Replay lives here, not in the engine: authentication flow and
// cart flow stay decoupled, coordinated only through the bridge.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user_id")
		return
	}

	h.session.SignIn(domain.Identity{UserID: userID})

	ctx, fb := WithFeedback(r.Context())
	replayed := false
	if action, found, consumeErr := h.bridge.Consume(ctx); consumeErr == nil && found && action.Kind == domain.PendingActionAdd {
		if product, getErr := h.products.Get(ctx, action.ProductID); getErr == nil {
			if addErr := h.engine.AddItem(ctx, product, action.Quantity); addErr == nil {
				replayed = true
			}
		}
	}
	writeSuccess(w, http.StatusOK, signInResponse{
		Cart:     toCartView(h.engine.Snapshot(), fb),
		Replayed: replayed,
	})
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	h.session.SignOut()
	writeSuccess(w, http.StatusOK, toCartView(h.engine.Snapshot(), nil))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var filter ports.ProductFilter
	if v := r.URL.Query().Get("grade"); v != "" {
		grade, err := domain.ParseGrade(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		filter.Grade = &grade
	}
	if v := r.URL.Query().Get("category"); v != "" {
		category, err := domain.ParseCategory(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		filter.Category = &category
	}
	if v := r.URL.Query().Get("in_stock"); v != "" {
		inStock := v == "true" || v == "1"
		filter.InStock = &inStock
	}
	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product id")
		return
	}
	product, err := h.products.Get(r.Context(), productID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toProductView(product))
}

func firstDescription(fb *Feedback, fallback string) string {
	for _, notice := range fb.Notices() {
		if notice.Severity == ports.SeverityDestructive {
			return notice.Description
		}
	}
	return fallback
}
