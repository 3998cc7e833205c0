// Package orders places, lists and cancels orders on behalf of admins and
// managers.
package orders

import (
	"context"
	"fmt"
	"time"

	"food-ordering-api/apperr"
	"food-ordering-api/events"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/statemachine"
	"food-ordering-api/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Engine struct {
	store     *store.Store
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewEngine(st *store.Store, publisher events.Publisher, log *zap.Logger) *Engine {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Engine{store: st, publisher: publisher, log: log, now: time.Now}
}

type ItemInput struct {
	MenuID   string
	Quantity int
	Price    decimal.Decimal
}

type CreateInput struct {
	RestaurantID string
	Items        []ItemInput
	TotalAmount  decimal.Decimal
}

func (in CreateInput) validate() error {
	if len(in.Items) == 0 {
		return apperr.InvalidRequest("Order must contain at least one item")
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return apperr.InvalidRequest("Item quantity must be at least 1")
		}
		if item.Price.IsNegative() {
			return apperr.InvalidRequest("Item price must not be negative")
		}
	}
	if in.TotalAmount.IsNegative() {
		return apperr.InvalidRequest("Total amount must not be negative")
	}
	return nil
}

// lineTotal is the sum of price x quantity over the submitted items
func (in CreateInput) lineTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range in.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Create places an order with the caller's line items. The order and all
// of its items are written in one transaction: an unknown menu leaves
// nothing behind. TotalAmount is stored as submitted.
func (e *Engine) Create(ctx context.Context, p models.Principal, in CreateInput) (*models.Order, error) {
	if err := policy.Decide(p, policy.CreateOrder, nil).Err(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	restaurant, err := e.store.GetRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return nil, apperr.FromStore(err, "Restaurant not found")
	}
	if err := policy.Decide(p, policy.CreateOrder, &policy.Target{Country: restaurant.Country}).Err(); err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:       p.ID,
		RestaurantID: restaurant.ID,
		TotalAmount:  in.TotalAmount,
		Status:       statemachine.InitialStatus,
	}
	err = e.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return apperr.Internal("failed to create order", err)
		}
		for i, item := range in.Items {
			menu, err := tx.GetMenu(ctx, item.MenuID)
			if err != nil {
				return apperr.FromStore(err, fmt.Sprintf("Menu not found: %s", item.MenuID))
			}
			if menu.RestaurantID != restaurant.ID {
				return apperr.InvalidRequest("Menu does not belong to this restaurant")
			}
			if err := tx.CreateOrderItem(ctx, &models.OrderItem{
				OrderID:  order.ID,
				MenuID:   menu.ID,
				Quantity: item.Quantity,
				Price:    item.Price,
				Position: i,
			}); err != nil {
				return apperr.Internal("failed to create order item", err)
			}
		}
		return tx.AddStatusHistory(ctx, &models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ChangedBy: p.ID,
			Note:      "Order placed by " + string(p.Role),
		})
	})
	if err != nil {
		return nil, err
	}

	if sum := in.lineTotal(); !sum.Equal(in.TotalAmount) {
		e.log.Warn("order total differs from line items",
			zap.String("order_id", order.ID),
			zap.String("submitted", in.TotalAmount.String()),
			zap.String("computed", sum.String()),
		)
	}
	e.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", p.ID),
		zap.String("restaurant_id", restaurant.ID),
		zap.Int("items", len(in.Items)),
	)
	e.publish(ctx, events.OrderCreated, order, restaurant.Country, p.ID)
	return order, nil
}

// Cancel moves a confirmed order to cancelled. Cancelling an order that is
// already cancelled succeeds without changing anything.
func (e *Engine) Cancel(ctx context.Context, p models.Principal, orderID string) (*models.Order, error) {
	if err := policy.Decide(p, policy.CancelOrder, nil).Err(); err != nil {
		return nil, err
	}

	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, apperr.FromStore(err, "Order not found")
	}
	country := order.Restaurant.Country
	if err := policy.Decide(p, policy.CancelOrder, &policy.Target{Country: country}).Err(); err != nil {
		return nil, err
	}

	if order.Status == models.StatusCancelled {
		e.log.Debug("order already cancelled", zap.String("order_id", order.ID))
		return order, nil
	}
	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, p.Role); err != nil {
		return nil, apperr.InvalidRequest(err.Error())
	}

	prev := order.Status
	err = e.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.UpdateOrderStatus(ctx, order.ID, models.StatusCancelled); err != nil {
			return apperr.FromStore(err, "Order not found")
		}
		return tx.AddStatusHistory(ctx, &models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prev,
			ToStatus:   models.StatusCancelled,
			ChangedBy:  p.ID,
			Note:       "Order cancelled by " + string(p.Role),
		})
	})
	if err != nil {
		return nil, err
	}
	order.Status = models.StatusCancelled

	e.log.Info("order cancelled", zap.String("order_id", order.ID), zap.String("by", p.ID))
	e.publish(ctx, events.OrderCancelled, order, country, p.ID)
	return order, nil
}

// ItemView is one line of a listed order
type ItemView struct {
	ItemID string          `json:"itemId"`
	Name   string          `json:"name"`
	Qty    int             `json:"qty"`
	Price  decimal.Decimal `json:"price"`
}

// OrderView is an order with its line items, as listed
type OrderView struct {
	ID           string             `json:"id"`
	UserID       string             `json:"userId"`
	RestaurantID string             `json:"restaurantId"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	Status       models.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
	Items        []ItemView         `json:"items"`
}

// List returns orders newest first: every order for admins, orders of
// restaurants in their country for managers
func (e *Engine) List(ctx context.Context, p models.Principal) ([]OrderView, error) {
	d := policy.Decide(p, policy.ListOrders, nil)
	if err := d.Err(); err != nil {
		return nil, err
	}

	orders, err := e.store.ListOrders(ctx, store.OrderFilter{Country: d.Scope.Country})
	if err != nil {
		return nil, apperr.Internal("failed to list orders", err)
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		view := OrderView{
			ID:           o.ID,
			UserID:       o.UserID,
			RestaurantID: o.RestaurantID,
			TotalAmount:  o.TotalAmount,
			Status:       o.Status,
			CreatedAt:    o.CreatedAt,
			Items:        make([]ItemView, 0, len(o.Items)),
		}
		for _, item := range o.Items {
			iv := ItemView{ItemID: item.MenuID, Qty: item.Quantity, Price: item.Price}
			if item.Menu != nil {
				iv.Name = item.Menu.Name
			}
			view.Items = append(view.Items, iv)
		}
		views = append(views, view)
	}
	return views, nil
}

// History returns the status changes of an order the principal may see
func (e *Engine) History(ctx context.Context, p models.Principal, orderID string) ([]models.OrderStatusHistory, error) {
	if err := policy.Decide(p, policy.ReadOrder, nil).Err(); err != nil {
		return nil, err
	}
	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, apperr.FromStore(err, "Order not found")
	}
	if err := policy.Decide(p, policy.ReadOrder, &policy.Target{Country: order.Restaurant.Country}).Err(); err != nil {
		return nil, err
	}
	history, err := e.store.ListStatusHistory(ctx, order.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load order history", err)
	}
	return history, nil
}

type Summary struct {
	Count          int64                        `json:"count"`
	ByStatus       map[models.OrderStatus]int64 `json:"byStatus"`
	ConfirmedTotal decimal.Decimal              `json:"confirmedTotal"`
}

// Summary aggregates the orders the principal may list
func (e *Engine) Summary(ctx context.Context, p models.Principal) (*Summary, error) {
	d := policy.Decide(p, policy.ListOrders, nil)
	if err := d.Err(); err != nil {
		return nil, err
	}
	rows, err := e.store.SummarizeOrders(ctx, store.OrderFilter{Country: d.Scope.Country})
	if err != nil {
		return nil, apperr.Internal("failed to summarize orders", err)
	}

	summary := &Summary{ByStatus: map[models.OrderStatus]int64{}, ConfirmedTotal: decimal.Zero}
	for _, row := range rows {
		summary.Count += row.Count
		summary.ByStatus[row.Status] = row.Count
		if row.Status == models.StatusConfirmed {
			summary.ConfirmedTotal = row.Total
		}
	}
	return summary, nil
}

func (e *Engine) publish(ctx context.Context, kind string, o *models.Order, country, actorID string) {
	err := e.publisher.Publish(ctx, events.OrderEvent{
		Type:         kind,
		OrderID:      o.ID,
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		Country:      country,
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		ActorID:      actorID,
		OccurredAt:   e.now(),
	})
	if err != nil {
		e.log.Warn("failed to publish order event",
			zap.String("type", kind),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}
