package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/georgemunganga/marketplace-backend/internal/logging"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/georgemunganga/marketplace-backend/internal/modules/events"
	"github.com/georgemunganga/marketplace-backend/internal/modules/policy"
	"github.com/georgemunganga/marketplace-backend/internal/modules/roles"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/georgemunganga/marketplace-backend/internal/modules/order")

// Service is the order fulfillment engine. Every call takes the acting user
// explicitly; roles are looked up per call.
type Service interface {
	// CreateOrder reserves stock for every line and records a pending order
	// with snapshotted prices. Either all of it happens or none of it does.
	CreateOrder(ctx context.Context, actor, vendorID uuid.UUID, req CreateOrderRequest) (*Order, error)

	GetOrder(ctx context.Context, actor, vendorID, orderID uuid.UUID) (*Order, error)

	// ListVisibleOrders returns every vendor order to owners and staff and
	// only their own orders to customers. status may be empty.
	ListVisibleOrders(ctx context.Context, actor, vendorID uuid.UUID, status Status) ([]*Order, error)

	// UpdateOrder applies status and field changes. Status changes must follow
	// the order state machine.
	UpdateOrder(ctx context.Context, actor, vendorID, orderID uuid.UUID, changes OrderChanges) (*Order, error)

	// CancelOrder cancels a customer's own pending order, keeping the record.
	// For owners and staff it deletes the order, which is only allowed while
	// it is pending.
	CancelOrder(ctx context.Context, actor, vendorID, orderID uuid.UUID) (*Order, CancelOutcome, error)

	// DeleteOrder removes a pending order. Owners and staff only.
	DeleteOrder(ctx context.Context, actor, vendorID, orderID uuid.UUID) error
}

type service struct {
	tx        dbx.TxRunner
	orders    RepositoryFactory
	products  catalog.RepositoryFactory
	roles     roles.RepositoryFactory
	publisher events.Publisher
	log       logging.Logger
}

// NewService creates a new order service. tx should retry serialization
// failures (see dbx.RetryRunner); the reservation relies on them being
// replayed from scratch.
func NewService(
	tx dbx.TxRunner,
	orders RepositoryFactory,
	products catalog.RepositoryFactory,
	roles roles.RepositoryFactory,
	publisher events.Publisher,
	log logging.Logger,
) Service {
	return &service{
		tx:        tx,
		orders:    orders,
		products:  products,
		roles:     roles,
		publisher: publisher,
		log:       log.With("module", "order"),
	}
}

func (s *service) CreateOrder(ctx context.Context, actor, vendorID uuid.UUID, req CreateOrderRequest) (o *Order, err error) {
	ctx, span := tracer.Start(ctx, "order.CreateOrder", trace.WithAttributes(
		attribute.String("vendor.id", vendorID.String()),
		attribute.Int("order.lines", len(req.Items)),
	))
	defer func() { endSpan(span, err) }()

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", common.ErrValidation)
	}
	for _, ci := range req.Items {
		if ci.Quantity <= 0 || ci.Quantity > math.MaxInt32 {
			return nil, fmt.Errorf("%w: quantity must be between 1 and %d for product %s", common.ErrValidation, math.MaxInt32, ci.ProductID)
		}
	}

	attempts := 0
	err = s.tx.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		attempts++
		var err error
		o, err = s.placeOrder(ctx, tx, actor, vendorID, req)
		return err
	})
	span.SetAttributes(attribute.Int("order.attempts", attempts))
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			s.log.Warn(ctx, "order transaction kept conflicting", "vendor_id", vendorID, "attempts", attempts, "error", err)
		}
		return nil, err
	}

	s.log.Info(ctx, "order created",
		"order_id", o.ID, "vendor_id", vendorID, "customer_id", actor,
		"total_amount", o.TotalAmount.StringFixed(2), "attempts", attempts)
	s.publish(ctx, events.TypeOrderCreated, o, "", actor)
	return o, nil
}

// placeOrder runs inside the order transaction. Any error rolls back every
// reservation made so far.
func (s *service) placeOrder(ctx context.Context, tx dbx.DBTX, actor, vendorID uuid.UUID, req CreateOrderRequest) (*Order, error) {
	if _, err := roles.Authorize(ctx, s.roles(tx), actor, vendorID, policy.ActionCreateOrder, nil); err != nil {
		return nil, err
	}

	products := s.products(tx)
	for _, ci := range req.Items {
		p, err := products.GetByID(ctx, ci.ProductID)
		if err != nil {
			return nil, err
		}
		if p.VendorID != vendorID {
			return nil, fmt.Errorf("product %s: %w", ci.ProductID, common.ErrCrossVendorCart)
		}
	}

	o := &Order{
		ID:         uuid.New(),
		VendorID:   vendorID,
		CustomerID: actor,
		Status:     StatusPending,
		Notes:      req.Notes,
	}
	total := decimal.Zero
	for _, ci := range req.Items {
		price, err := products.ReserveStock(ctx, vendorID, ci.ProductID, ci.Quantity)
		if err != nil {
			return nil, err
		}
		item := &OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: ci.ProductID,
			Quantity:  ci.Quantity,
			Price:     price,
		}
		total = total.Add(item.LineTotal())
		o.Items = append(o.Items, item)
	}
	if total.GreaterThanOrEqual(maxOrderTotal) {
		return nil, fmt.Errorf("%w: order total %s is too large", common.ErrValidation, total.StringFixed(2))
	}
	o.TotalAmount = total

	if err := s.orders(tx).CreateOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, actor, vendorID, orderID uuid.UUID) (*Order, error) {
	conn := s.tx.Conn()
	o, err := s.orders(conn).GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := roles.Authorize(ctx, s.roles(conn), actor, vendorID, policy.ActionRetrieveOrder, resourceOf(o)); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) ListVisibleOrders(ctx context.Context, actor, vendorID uuid.UUID, status Status) ([]*Order, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", common.ErrValidation, status)
	}

	conn := s.tx.Conn()
	d, err := roles.Authorize(ctx, s.roles(conn), actor, vendorID, policy.ActionListOrders, nil)
	if err != nil {
		return nil, err
	}

	filter := ListFilter{Status: status}
	if d.Scope == policy.ScopeOwn {
		filter.CustomerID = actor
	}
	return s.orders(conn).ListOrders(ctx, vendorID, filter)
}

func (s *service) UpdateOrder(ctx context.Context, actor, vendorID, orderID uuid.UUID, changes OrderChanges) (o *Order, err error) {
	ctx, span := tracer.Start(ctx, "order.UpdateOrder", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
	))
	defer func() { endSpan(span, err) }()

	if changes.Status == nil && changes.Notes == nil {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}

	var previous Status
	err = s.tx.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		orders := s.orders(tx)
		var err error
		o, err = orders.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		previous = o.Status
		res := resourceOf(o)

		if changes.Status != nil {
			if _, err := roles.Authorize(ctx, s.roles(tx), actor, vendorID, policy.ActionUpdateOrderStatus, res); err != nil {
				return err
			}
			if err := checkTransition(o.Status, *changes.Status); err != nil {
				return err
			}
		}
		if changes.Notes != nil {
			d, err := roles.Authorize(ctx, s.roles(tx), actor, vendorID, policy.ActionUpdateOrderFields, res)
			if err != nil {
				return err
			}
			if d.Scope == policy.ScopeOwn && o.Status != StatusPending {
				return fmt.Errorf("%w: order is %s, only pending orders can be edited", common.ErrIllegalTransition, o.Status)
			}
		}

		if changes.Status != nil {
			if *changes.Status == StatusCancelled {
				if err := s.releaseStock(ctx, tx, o); err != nil {
					return err
				}
			}
			if err := orders.UpdateStatus(ctx, o.ID, *changes.Status); err != nil {
				return err
			}
			o.Status = *changes.Status
		}
		if changes.Notes != nil {
			if err := orders.UpdateNotes(ctx, o.ID, *changes.Notes); err != nil {
				return err
			}
			o.Notes = *changes.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if o.Status != previous {
		s.log.Info(ctx, "order status changed",
			"order_id", o.ID, "vendor_id", vendorID, "from", previous, "to", o.Status, "actor", actor)
		s.publish(ctx, events.TypeOrderStatusChanged, o, previous, actor)
	}
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, actor, vendorID, orderID uuid.UUID) (o *Order, outcome CancelOutcome, err error) {
	ctx, span := tracer.Start(ctx, "order.CancelOrder", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
	))
	defer func() { endSpan(span, err) }()

	err = s.tx.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		orders := s.orders(tx)
		var err error
		o, err = orders.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		d, err := roles.Authorize(ctx, s.roles(tx), actor, vendorID, policy.ActionCancelOrder, resourceOf(o))
		if err != nil {
			return err
		}

		if d.Scope == policy.ScopeOwn {
			outcome = OutcomeCancelled
			return s.cancelPending(ctx, tx, o)
		}
		outcome = OutcomeDeleted
		return s.deletePending(ctx, tx, o)
	})
	if err != nil {
		return nil, 0, err
	}

	if outcome == OutcomeDeleted {
		s.log.Info(ctx, "order deleted", "order_id", o.ID, "vendor_id", vendorID, "actor", actor)
		s.publish(ctx, events.TypeOrderDeleted, o, "", actor)
		return o, outcome, nil
	}
	s.log.Info(ctx, "order cancelled by customer", "order_id", o.ID, "vendor_id", vendorID, "actor", actor)
	s.publish(ctx, events.TypeOrderStatusChanged, o, StatusPending, actor)
	return o, outcome, nil
}

func (s *service) DeleteOrder(ctx context.Context, actor, vendorID, orderID uuid.UUID) (err error) {
	ctx, span := tracer.Start(ctx, "order.DeleteOrder", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
	))
	defer func() { endSpan(span, err) }()

	var o *Order
	err = s.tx.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		o, err = s.orders(tx).GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if _, err := roles.Authorize(ctx, s.roles(tx), actor, vendorID, policy.ActionDeleteOrder, resourceOf(o)); err != nil {
			return err
		}
		return s.deletePending(ctx, tx, o)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "order deleted", "order_id", o.ID, "vendor_id", vendorID, "actor", actor)
	s.publish(ctx, events.TypeOrderDeleted, o, "", actor)
	return nil
}

func (s *service) cancelPending(ctx context.Context, tx dbx.DBTX, o *Order) error {
	if o.Status != StatusPending {
		return fmt.Errorf("%w: only pending orders can be cancelled by the customer (current: %s)", common.ErrIllegalTransition, o.Status)
	}
	if err := s.releaseStock(ctx, tx, o); err != nil {
		return err
	}
	if err := s.orders(tx).UpdateStatus(ctx, o.ID, StatusCancelled); err != nil {
		return err
	}
	o.Status = StatusCancelled
	return nil
}

func (s *service) deletePending(ctx context.Context, tx dbx.DBTX, o *Order) error {
	if o.Status != StatusPending {
		return fmt.Errorf("%w: order is %s, cancel it instead of deleting", common.ErrIllegalTransition, o.Status)
	}
	if err := s.releaseStock(ctx, tx, o); err != nil {
		return err
	}
	return s.orders(tx).DeleteOrder(ctx, o.ID)
}

func (s *service) releaseStock(ctx context.Context, tx dbx.DBTX, o *Order) error {
	products := s.products(tx)
	for _, item := range o.Items {
		if err := products.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// publish runs after commit. A failure is logged and otherwise ignored.
func (s *service) publish(ctx context.Context, typ string, o *Order, previous Status, actor uuid.UUID) {
	evt := events.OrderEvent{
		Type:           typ,
		OrderID:        o.ID,
		VendorID:       o.VendorID,
		CustomerID:     o.CustomerID,
		Status:         string(o.Status),
		PreviousStatus: string(previous),
		TotalAmount:    o.TotalAmount,
		Actor:          actor,
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn(ctx, "order event not published", "type", typ, "order_id", o.ID, "error", err)
	}
}

// maxOrderTotal is the first value orders.total_amount NUMERIC(18,2) cannot
// hold.
var maxOrderTotal = decimal.New(1, 16)

func resourceOf(o *Order) *policy.Resource {
	return &policy.Resource{VendorID: o.VendorID, CreatedBy: o.CustomerID}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
