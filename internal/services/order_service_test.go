// internal/services/order_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shackcart/backoffice/internal/models"
	"github.com/shackcart/backoffice/internal/utils"
)

type OrderServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	geo     *fakeGeoLocator
	mailer  *fakeMailer
	svc     *OrderService
	product *models.Product
}

func (s *OrderServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.geo = &fakeGeoLocator{coords: &models.Coordinates{Latitude: 10.48, Longitude: -66.87}}
	s.mailer = &fakeMailer{}

	cfg := testConfig()
	notifier := NewNotificationService(s.mailer, &fakeContentCache{}, cfg, s.db)
	s.svc = NewOrderService(s.db, NewEnrichmentResolver(s.geo), notifier)

	catalog := NewCatalogService(s.db)
	category, err := catalog.UpsertCategory(&UpsertCategoryRequest{Name: "Menu"})
	s.Require().NoError(err)
	product, err := catalog.UpsertProduct(&UpsertProductRequest{
		Name:            "Arepa Reina Pepiada",
		Price:           ptr(5.0),
		Public:          ptr(true),
		StoreCategoryID: &category.ID,
	})
	s.Require().NoError(err)
	s.product = product
}

func (s *OrderServiceSuite) guestOrderRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		BillingData: models.BillingData{
			FirstName: "Ana",
			Email:     "guest@example.com",
		},
		Items: []OrderItemInput{
			{ProductID: s.product.ID, Quantity: 2, Cost: 5, BasePrice: 5},
		},
	}
}

func (s *OrderServiceSuite) createGuestOrder(clientIP string) *models.Order {
	order, err := s.svc.CreateOrder(s.guestOrderRequest(), clientIP)
	s.Require().NoError(err)
	return order
}

func (s *OrderServiceSuite) markPaid(orderID uuid.UUID) *models.Order {
	paid := models.OrderStatusPaid
	order, err := s.svc.UpdateOrder(&UpdateOrderRequest{ID: orderID, Status: &paid})
	s.Require().NoError(err)
	s.Require().NotNil(order)
	return order
}

func (s *OrderServiceSuite) TestCreateOrderValidation() {
	cases := []*CreateOrderRequest{
		{BillingData: models.BillingData{Email: "a@b.c"}},
		{Items: []OrderItemInput{{ProductID: s.product.ID, Quantity: 0, Cost: 5}}},
		{Items: []OrderItemInput{{ProductID: s.product.ID, Quantity: 1, Cost: -1}}},
		{Items: []OrderItemInput{{ProductID: s.product.ID, Quantity: 1, Cost: 5, BasePrice: -1}}},
		{Items: []OrderItemInput{{Quantity: 1, Cost: 5}}},
	}

	for i, req := range cases {
		_, err := s.svc.CreateOrder(req, "")
		s.True(IsValidationError(err), "case %d", i)
	}

	bad := s.guestOrderRequest()
	bad.Status = models.OrderStatus("shipped")
	_, err := s.svc.CreateOrder(bad, "")
	s.True(IsValidationError(err))
}

func (s *OrderServiceSuite) TestCreateOrderComputesTotal() {
	req := s.guestOrderRequest()
	req.Fees = []models.OrderFee{{Name: "service", Fixed: 1, Percentage: 10}}

	order, err := s.svc.CreateOrder(req, "")
	s.Require().NoError(err)

	// subtotal 10, plus 1 fixed and 10% of subtotal
	s.InDelta(12.0, order.Total, 0.001)
	s.Require().Len(order.Items, 1)
	s.Equal(models.OrderStatusPending, order.Status)
	s.Equal(models.FulfillmentUnfulfilled, order.FulfillmentStatus)
}

func (s *OrderServiceSuite) TestEnrichmentStampsIPAndCoords() {
	order := s.createGuestOrder("83.45.1.9")

	s.Equal(1, s.geo.calls)
	s.Equal("83.45.1.9", order.BillingData.IP)
	s.Require().NotNil(order.BillingData.Coords)
	s.InDelta(10.48, order.BillingData.Coords.Latitude, 0.001)
}

func (s *OrderServiceSuite) TestEnrichmentSkipsLookupWhenCoordsSupplied() {
	req := s.guestOrderRequest()
	req.BillingData.Coords = &models.Coordinates{Latitude: 1, Longitude: 2}

	order, err := s.svc.CreateOrder(req, "83.45.1.9")
	s.Require().NoError(err)

	s.Equal(0, s.geo.calls)
	s.Equal("83.45.1.9", order.BillingData.IP)
	s.InDelta(1.0, order.BillingData.Coords.Latitude, 0.001)
}

func (s *OrderServiceSuite) TestEnrichmentFailureDoesNotFailOrder() {
	s.geo.err = errors.New("provider down")

	order := s.createGuestOrder("83.45.1.9")

	s.Equal(1, s.geo.calls)
	s.Equal("83.45.1.9", order.BillingData.IP)
	s.Nil(order.BillingData.Coords)
}

func (s *OrderServiceSuite) TestPaidMintsGuestToken() {
	order := s.createGuestOrder("")

	paid := s.markPaid(order.ID)
	s.Require().NotNil(paid.Token)
	s.Len(*paid.Token, 32)
	s.Equal(models.OrderStatusPaid, paid.Status)

	s.Require().Equal(1, s.mailer.count())
	msg := s.mailer.last()
	s.Equal([]string{"guest@example.com"}, msg.To)
	s.Contains(msg.Subject, order.ID.String())
	s.Contains(msg.HTML, "?token="+*paid.Token)
}

func (s *OrderServiceSuite) TestPaidTokenStableAcrossUpdates() {
	order := s.createGuestOrder("")

	first := s.markPaid(order.ID)
	second := s.markPaid(order.ID)

	s.Require().NotNil(second.Token)
	s.Equal(*first.Token, *second.Token)
}

func (s *OrderServiceSuite) TestPaidLinkedCustomerSkipsToken() {
	customer := &models.Customer{FirstName: "Maria", Email: "maria@example.com"}
	s.Require().NoError(s.db.Create(customer).Error)

	req := s.guestOrderRequest()
	req.CustomerID = &customer.ID
	order, err := s.svc.CreateOrder(req, "")
	s.Require().NoError(err)

	paid := s.markPaid(order.ID)
	s.Nil(paid.Token)

	s.Require().Equal(1, s.mailer.count())
	msg := s.mailer.last()
	s.Equal([]string{"maria@example.com"}, msg.To)
	s.NotContains(msg.HTML, "?token=")
}

func (s *OrderServiceSuite) TestUpdateMissingOrderReturnsNil() {
	paid := models.OrderStatusPaid
	order, err := s.svc.UpdateOrder(&UpdateOrderRequest{ID: uuid.New(), Status: &paid})
	s.NoError(err)
	s.Nil(order)
	s.Equal(0, s.mailer.count())
}

func (s *OrderServiceSuite) TestFulfillmentUpdateHasNoSideEffects() {
	order := s.createGuestOrder("")

	fulfilled := models.FulfillmentFulfilled
	updated, err := s.svc.UpdateOrder(&UpdateOrderRequest{ID: order.ID, FulfillmentStatus: &fulfilled})
	s.Require().NoError(err)
	s.Require().NotNil(updated)

	s.Equal(models.FulfillmentFulfilled, updated.FulfillmentStatus)
	s.Equal(models.OrderStatusPending, updated.Status)
	s.Nil(updated.Token)
	s.Equal(0, s.mailer.count())
}

func (s *OrderServiceSuite) TestReplaceItemsRecomputesTotal() {
	order := s.createGuestOrder("")
	s.InDelta(10.0, order.Total, 0.001)

	updated, err := s.svc.UpdateOrder(&UpdateOrderRequest{
		ID: order.ID,
		Items: []OrderItemInput{
			{ProductID: s.product.ID, Quantity: 1, Cost: 3, BasePrice: 3},
		},
	})
	s.Require().NoError(err)
	s.Require().NotNil(updated)
	s.InDelta(3.0, updated.Total, 0.001)
	s.Require().Len(updated.Items, 1)
	s.Equal(3.0, updated.Items[0].Cost)
}

func (s *OrderServiceSuite) TestGetOrderTokenScope() {
	order := s.createGuestOrder("")
	paid := s.markPaid(order.ID)

	found, err := s.svc.GetOrder(order.ID, paid.Token)
	s.Require().NoError(err)
	s.Equal(order.ID, found.ID)

	_, err = s.svc.GetOrder(order.ID, ptr("wrong-token"))
	s.True(errors.Is(err, ErrNotFound))

	_, err = s.svc.GetOrder(uuid.New(), nil)
	s.True(errors.Is(err, ErrNotFound))
}

func (s *OrderServiceSuite) TestListOrdersStatusFilter() {
	first := s.createGuestOrder("")
	s.createGuestOrder("")
	s.markPaid(first.ID)

	total, orders, err := s.svc.ListOrders(
		OrderFilter{Statuses: []models.OrderStatus{models.OrderStatusPaid}},
		utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"},
	)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(orders, 1)
	s.Equal(first.ID, orders[0].ID)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}
