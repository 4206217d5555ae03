package services

import (
	"context"
	"errors"
	"time"

	"go-storefront/config"
	"go-storefront/models"
	"go-storefront/repository"
	"go-storefront/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartService implements the cart/order workflow: reserving stock into a
// user's embedded cart, editing it, and checking it out.
//
// Stock is deducted at add-to-cart time, not at checkout. Removing a cart
// order does not restore stock; that is long-standing business behavior,
// not an oversight.
type CartService struct {
	users        repository.UserRepository
	products     repository.ProductRepository
	log          *logrus.Logger
	checkoutMode string
}

func NewCartService(users repository.UserRepository, products repository.ProductRepository, checkoutMode string, log *logrus.Logger) *CartService {
	return &CartService{
		users:        users,
		products:     products,
		log:          log,
		checkoutMode: checkoutMode,
	}
}

// CheckoutSummary reports what a checkout settled.
type CheckoutSummary struct {
	Total    float64 `json:"total"`
	Quantity int     `json:"quantity"`
}

// CartView is the caller's in-progress cart.
type CartView struct {
	Orders    []models.CartOrder `json:"orders"`
	CartTotal float64            `json:"cart_total"`
}

func (s *CartService) findUser(ctx context.Context, claims *utils.Claims) (*models.User, error) {
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, E(KindUnauthorized, "Invalid token")
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, E(KindNotFound, "User not found in the database")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AddToCart reserves stock for the caller and records it in the cart.
// An existing cart order already holding this product name absorbs the new
// quantity; otherwise a new cart order is appended.
func (s *CartService) AddToCart(ctx context.Context, claims *utils.Claims, productID primitive.ObjectID, quantity int) (string, error) {
	if err := RequireShopper(claims); err != nil {
		return "", err
	}
	if quantity < 1 {
		return "", E(KindValidation, "\"quantity\" must be 1 or more")
	}

	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", E(KindNotFound, "Product not found.")
	}
	if err != nil {
		return "", err
	}

	if product.StockCount == 0 {
		if err := s.products.SetActive(ctx, productID, false); err != nil {
			return "", err
		}
		return "", E(KindUnavailable, "Item is currently unavailable.")
	}
	if product.StockCount < quantity {
		return "", InsufficientStock(product.StockCount)
	}

	user, err := s.findUser(ctx, claims)
	if err != nil {
		return "", err
	}

	// The availability check above can go stale under concurrent adds, so
	// the decrement itself re-checks stock inside the write filter.
	reserved, err := s.products.ReserveStock(ctx, productID, quantity, claims.UserID)
	if err != nil {
		return "", err
	}
	if !reserved {
		current, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return "", err
		}
		if current.StockCount == 0 {
			if err := s.products.SetActive(ctx, productID, false); err != nil {
				return "", err
			}
			return "", E(KindUnavailable, "Item is currently unavailable.")
		}
		return "", InsufficientStock(current.StockCount)
	}

	amount := product.Price * float64(quantity)
	if !mergeCartLine(user.Orders, product.Name, quantity, amount) {
		user.Orders = append(user.Orders, models.CartOrder{
			ID: primitive.NewObjectID(),
			Products: []models.CartLine{{
				ProductName: product.Name,
				Quantity:    quantity,
				UnitPrice:   product.Price,
			}},
			TotalAmount: amount,
			PlacedOn:    time.Now(),
		})
	}
	user.CartTotal += amount

	if err := s.users.SaveCart(ctx, user.ID, user.Orders, user.CartTotal); err != nil {
		// The reservation already went through; hand the stock back so a
		// failed cart write does not strand it.
		if _, rerr := s.products.AdjustStock(ctx, productID, quantity); rerr != nil {
			s.log.WithError(rerr).WithField("product", product.Name).Error("stock release after failed cart write")
		}
		return "", err
	}

	return product.Name, nil
}

// mergeCartLine folds quantity and amount into the cart order that already
// carries a line for this product name. Reports whether a merge happened.
func mergeCartLine(orders []models.CartOrder, productName string, quantity int, amount float64) bool {
	for i := range orders {
		for j := range orders[i].Products {
			if orders[i].Products[j].ProductName == productName {
				orders[i].Products[j].Quantity += quantity
				orders[i].TotalAmount += amount
				return true
			}
		}
	}
	return false
}

// ChangeQuantity sets the cart line for a product to a new quantity,
// reserving or releasing the stock difference.
func (s *CartService) ChangeQuantity(ctx context.Context, claims *utils.Claims, productID primitive.ObjectID, quantity int) (string, error) {
	if err := RequireShopper(claims); err != nil {
		return "", err
	}
	if quantity < 1 {
		return "", E(KindValidation, "\"quantity\" must be 1 or more")
	}

	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", E(KindNotFound, "Product not found.")
	}
	if err != nil {
		return "", err
	}

	user, err := s.findUser(ctx, claims)
	if err != nil {
		return "", err
	}

	var line *models.CartLine
	var order *models.CartOrder
	for i := range user.Orders {
		for j := range user.Orders[i].Products {
			if user.Orders[i].Products[j].ProductName == product.Name {
				order = &user.Orders[i]
				line = &user.Orders[i].Products[j]
			}
		}
	}
	if line == nil {
		return "", E(KindNotFound, "%s is not in your cart", product.Name)
	}

	delta := quantity - line.Quantity
	if delta != 0 {
		adjusted, err := s.products.AdjustStock(ctx, productID, -delta)
		if err != nil {
			return "", err
		}
		if !adjusted && delta > 0 {
			current, err := s.products.FindByID(ctx, productID)
			if err != nil {
				return "", err
			}
			return "", InsufficientStock(current.StockCount)
		}
	}

	amountDelta := float64(delta) * line.UnitPrice
	line.Quantity = quantity
	order.TotalAmount += amountDelta
	user.CartTotal += amountDelta

	if err := s.users.SaveCart(ctx, user.ID, user.Orders, user.CartTotal); err != nil {
		return "", err
	}
	return product.Name, nil
}

// RemoveCartOrder drops one cart order by its record id. Stock already
// reserved for it is not returned.
func (s *CartService) RemoveCartOrder(ctx context.Context, claims *utils.Claims, orderID string) error {
	if claims == nil {
		return E(KindUnauthorized, "Please log in first")
	}

	user, err := s.findUser(ctx, claims)
	if err != nil {
		return err
	}

	found := false
	updated := make([]models.CartOrder, 0, len(user.Orders))
	for _, order := range user.Orders {
		if order.ID.Hex() == orderID {
			found = true
			user.CartTotal -= order.TotalAmount
			continue
		}
		updated = append(updated, order)
	}
	if !found {
		return E(KindNotFound, "Order not found")
	}

	return s.users.SaveCart(ctx, user.ID, updated, user.CartTotal)
}

// Orders returns the caller's cart contents.
func (s *CartService) Orders(ctx context.Context, claims *utils.Claims) (*CartView, error) {
	if claims == nil {
		return nil, E(KindUnauthorized, "Please log in first")
	}
	user, err := s.findUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if len(user.Orders) == 0 {
		return nil, E(KindNotFound, "No order found, your cart is empty")
	}
	return &CartView{Orders: user.Orders, CartTotal: user.CartTotal}, nil
}

// AllOrders returns every user with a non-empty cart, for the admin view.
func (s *CartService) AllOrders(ctx context.Context, claims *utils.Claims) ([]models.User, error) {
	if err := RequireAdmin(claims); err != nil {
		return nil, err
	}
	users, err := s.users.FindWithOrders(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, E(KindNotFound, "There is no current order in any account")
	}
	return users, nil
}

// Checkout settles the caller's cart: checkout records are appended to the
// user's history, sold counts are bumped, and the cart is reset.
//
// In legacy mode the whole cart is recorded under the last product name
// encountered during traversal and only that product's sold count moves,
// reproducing the historic behavior. Itemized mode writes one record per
// distinct product.
func (s *CartService) Checkout(ctx context.Context, claims *utils.Claims) (*CheckoutSummary, error) {
	if claims == nil {
		return nil, E(KindUnauthorized, "Please log in first")
	}
	if claims.IsAdmin {
		return nil, E(KindForbidden, "Admin is not authorized to checkout")
	}

	user, err := s.findUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if len(user.Orders) == 0 {
		return nil, E(KindEmptyCart, "No item in the cart to check out")
	}

	var total float64
	var quantitiesSum int
	for _, order := range user.Orders {
		total += order.TotalAmount
		for _, line := range order.Products {
			quantitiesSum += line.Quantity
		}
	}

	now := time.Now()
	var records []models.CheckoutRecord

	if s.checkoutMode == config.CheckoutModeItemized {
		records, err = s.itemizedRecords(ctx, user.Orders, now)
		if err != nil {
			return nil, err
		}
	} else {
		var lastName string
		for _, order := range user.Orders {
			for _, line := range order.Products {
				lastName = line.ProductName
			}
		}
		if _, err := s.products.FindByName(ctx, lastName); errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "%s is not available, please remove this from your cart", lastName)
		} else if err != nil {
			return nil, err
		}
		if err := s.products.IncrementSoldCount(ctx, lastName, quantitiesSum); err != nil {
			return nil, err
		}
		records = []models.CheckoutRecord{{
			ProductName:   lastName,
			Quantity:      quantitiesSum,
			CheckOutTotal: total,
			PaidOn:        now,
		}}
	}

	// Sold counts are already persisted; if the reset below fails they stay
	// inflated. True atomicity here needs a multi-document transaction.
	if err := s.users.FinishCheckout(ctx, user.ID, records); err != nil {
		s.log.WithError(err).WithField("user", claims.UserID).Error("cart reset failed after sold-count update")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user":     claims.UserID,
		"total":    total,
		"quantity": quantitiesSum,
	}).Info("checkout completed")

	return &CheckoutSummary{Total: total, Quantity: quantitiesSum}, nil
}

// itemizedRecords aggregates the cart per distinct product name, bumping
// each product's sold count as it goes.
func (s *CartService) itemizedRecords(ctx context.Context, orders []models.CartOrder, paidOn time.Time) ([]models.CheckoutRecord, error) {
	var names []string
	quantities := make(map[string]int)
	amounts := make(map[string]float64)
	for _, order := range orders {
		for _, line := range order.Products {
			if _, seen := quantities[line.ProductName]; !seen {
				names = append(names, line.ProductName)
			}
			quantities[line.ProductName] += line.Quantity
			amounts[line.ProductName] += float64(line.Quantity) * line.UnitPrice
		}
	}

	records := make([]models.CheckoutRecord, 0, len(names))
	for _, name := range names {
		if _, err := s.products.FindByName(ctx, name); errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "%s is not available, please remove this from your cart", name)
		} else if err != nil {
			return nil, err
		}
		if err := s.products.IncrementSoldCount(ctx, name, quantities[name]); err != nil {
			return nil, err
		}
		records = append(records, models.CheckoutRecord{
			ProductName:   name,
			Quantity:      quantities[name],
			CheckOutTotal: amounts[name],
			PaidOn:        paidOn,
		})
	}
	return records, nil
}
