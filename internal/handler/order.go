package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/queue"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	// maxPage keeps (page-1)*page_size inside a MySQL-safe OFFSET.
	maxPage = math.MaxInt32 / maxPageSize
)

// OrderStore is the persistence used by OrderHandler.
type OrderStore interface {
	Create(ctx context.Context, userID uint64, tickets []model.Ticket) (*model.Order, error)
	GetForUser(ctx context.Context, id, userID uint64) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]model.Order, int64, error)
}

// EventPublisher delivers domain events after a successful write.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error
}

// OrderHandler serves /api/cinema/orders.  Callers only ever see their own
// orders.
type OrderHandler struct {
	Orders    OrderStore
	Publisher EventPublisher // nil disables events
	Log       *zap.Logger
}

func NewOrderHandler(orders OrderStore, pub EventPublisher, log *zap.Logger) *OrderHandler {
	return &OrderHandler{Orders: orders, Publisher: pub, Log: log}
}

type ticketReq struct {
	Row          uint32 `json:"row" validate:"required,gt=0"`
	Seat         uint32 `json:"seat" validate:"required,gt=0"`
	MovieSession uint64 `json:"movie_session" validate:"required,gt=0"`
}

type createOrderReq struct {
	Tickets []ticketReq `json:"tickets" validate:"required,min=1,dive"`
}

type ticketSessionOut struct {
	ID             uint64    `json:"id"`
	ShowTime       time.Time `json:"show_time"`
	MovieTitle     string    `json:"movie_title"`
	CinemaHallName string    `json:"cinema_hall_name"`
}

type ticketOut struct {
	ID           uint64           `json:"id"`
	Row          uint32           `json:"row"`
	Seat         uint32           `json:"seat"`
	MovieSession ticketSessionOut `json:"movie_session"`
}

type orderOut struct {
	ID        uint64      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Tickets   []ticketOut `json:"tickets"`
}

type orderPage struct {
	Count    int64      `json:"count"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Results  []orderOut `json:"results"`
}

func orderFrom(o model.Order) orderOut {
	out := orderOut{ID: o.ID, CreatedAt: o.CreatedAt.UTC(), Tickets: make([]ticketOut, 0, len(o.Tickets))}
	for _, t := range o.Tickets {
		out.Tickets = append(out.Tickets, ticketOut{
			ID:   t.ID,
			Row:  t.Row,
			Seat: t.Seat,
			MovieSession: ticketSessionOut{
				ID:             t.MovieSessionID,
				ShowTime:       t.ShowTime.UTC(),
				MovieTitle:     t.MovieTitle,
				CinemaHallName: t.HallName,
			},
		})
	}
	return out
}

func orderEventFrom(o model.Order) queue.OrderCreatedEvent {
	ev := queue.OrderCreatedEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
		Tickets:   make([]queue.EventTicket, 0, len(o.Tickets)),
	}
	for _, t := range o.Tickets {
		ev.Tickets = append(ev.Tickets, queue.EventTicket{
			MovieSessionID: t.MovieSessionID,
			MovieTitle:     t.MovieTitle,
			HallName:       t.HallName,
			ShowTime:       t.ShowTime.UTC().Format(time.RFC3339),
			Row:            t.Row,
			Seat:           t.Seat,
		})
	}
	return ev
}

// pageParams reads page and page_size, falling back to defaults for
// missing or malformed values.  Both are capped.
func pageParams(c echo.Context) (page, size int) {
	page, size = 1, defaultPageSize
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = min(p, maxPage)
	}
	if s, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && s > 0 {
		size = min(s, maxPageSize)
	}
	return page, size
}

// List handles GET /api/cinema/orders.  Newest orders come first.
func (h *OrderHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	page, size := pageParams(c)
	orders, total, err := h.Orders.ListByUser(c.Request().Context(), uid, page, size)
	if err != nil {
		h.Log.Error("list orders", zap.Uint64("user_id", uid), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	out := orderPage{Count: total, Page: page, PageSize: size, Results: make([]orderOut, 0, len(orders))}
	for _, o := range orders {
		out.Results = append(out.Results, orderFrom(o))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/cinema/orders.  All tickets are issued in one
// transaction; any invalid or already sold place rejects the order.
func (h *OrderHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	var req createOrderReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	type placeKey struct {
		session   uint64
		row, seat uint32
	}
	seen := make(map[placeKey]bool, len(req.Tickets))
	tickets := make([]model.Ticket, 0, len(req.Tickets))
	for i, t := range req.Tickets {
		k := placeKey{t.MovieSession, t.Row, t.Seat}
		if seen[k] {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "duplicate place in order",
				"fields": map[string]string{fmt.Sprintf("tickets[%d]", i): "unique"},
			})
		}
		seen[k] = true
		tickets = append(tickets, model.Ticket{MovieSessionID: t.MovieSession, Row: t.Row, Seat: t.Seat})
	}

	ctx := c.Request().Context()
	order, err := h.Orders.Create(ctx, uid, tickets)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPlaceTaken):
			return errorJSON(c, http.StatusBadRequest, "place already taken")
		case errors.Is(err, repository.ErrPlaceOutOfRange):
			return errorJSON(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrInvalidReference):
			return errorJSON(c, http.StatusBadRequest, "unknown movie session")
		}
		h.Log.Error("create order", zap.Uint64("user_id", uid), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "create failed")
	}

	full, err := h.Orders.GetForUser(ctx, order.ID, uid)
	if err != nil {
		h.Log.Error("reload order", zap.Uint64("order_id", order.ID), zap.Error(err))
		full = order
	}
	h.Log.Info("order created", zap.Uint64("order_id", full.ID), zap.Uint64("user_id", uid), zap.Int("tickets", len(full.Tickets)))
	h.publishCreated(ctx, *full)
	return c.JSON(http.StatusCreated, orderFrom(*full))
}

// publishCreated never fails the request; the order is already committed.
func (h *OrderHandler) publishCreated(ctx context.Context, o model.Order) {
	if h.Publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := h.Publisher.PublishOrderCreated(pctx, orderEventFrom(o)); err != nil {
		h.Log.Warn("order.created not published", zap.Uint64("order_id", o.ID), zap.Error(err))
	}
}
