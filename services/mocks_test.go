package services

import (
	"context"
	"sync"

	"go-storefront/models"
	"go-storefront/repository"
	"go-storefront/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type fakeProductRepo struct {
	m        sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[primitive.ObjectID]*models.Product)}
}

func (f *fakeProductRepo) add(p models.Product) primitive.ObjectID {
	f.m.Lock()
	defer f.m.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.products[p.ID] = &p
	return p.ID
}

func (f *fakeProductRepo) get(id primitive.ObjectID) models.Product {
	f.m.Lock()
	defer f.m.Unlock()
	return *f.products[id]
}

func (f *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.m.Lock()
	defer f.m.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProductRepo) FindByName(_ context.Context, name string) (*models.Product, error) {
	f.m.Lock()
	defer f.m.Unlock()
	for _, p := range f.products {
		if p.Name == name {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProductRepo) FindActive(_ context.Context) ([]models.ProductView, error) {
	f.m.Lock()
	defer f.m.Unlock()
	var views []models.ProductView
	for _, p := range f.products {
		if p.IsActive {
			views = append(views, models.ProductView{
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				StockCount:  p.StockCount,
			})
		}
	}
	return views, nil
}

func (f *fakeProductRepo) FindAll(_ context.Context) ([]models.Product, error) {
	f.m.Lock()
	defer f.m.Unlock()
	var products []models.Product
	for _, p := range f.products {
		products = append(products, *p)
	}
	return products, nil
}

func (f *fakeProductRepo) Count(_ context.Context) (int64, error) {
	f.m.Lock()
	defer f.m.Unlock()
	return int64(len(f.products)), nil
}

func (f *fakeProductRepo) Insert(_ context.Context, p *models.Product) error {
	f.m.Lock()
	defer f.m.Unlock()
	p.ID = primitive.NewObjectID()
	copied := *p
	f.products[p.ID] = &copied
	return nil
}

func (f *fakeProductRepo) UpdateFields(_ context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	f.m.Lock()
	defer f.m.Unlock()
	p, ok := f.products[id]
	if !ok {
		return false, nil
	}
	for key, value := range fields {
		switch key {
		case "name":
			p.Name = value.(string)
		case "description":
			p.Description = value.(string)
		case "price":
			p.Price = value.(float64)
		case "stock_count":
			p.StockCount = value.(int)
		case "listed_by":
			p.ListedBy = value.(string)
		case "is_active":
			p.IsActive = value.(bool)
		}
	}
	return true, nil
}

func (f *fakeProductRepo) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	f.m.Lock()
	defer f.m.Unlock()
	if p, ok := f.products[id]; ok {
		p.IsActive = active
	}
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.m.Lock()
	defer f.m.Unlock()
	if _, ok := f.products[id]; !ok {
		return false, nil
	}
	delete(f.products, id)
	return true, nil
}

func (f *fakeProductRepo) ReserveStock(_ context.Context, id primitive.ObjectID, quantity int, orderID string) (bool, error) {
	f.m.Lock()
	defer f.m.Unlock()
	p, ok := f.products[id]
	if !ok || p.StockCount < quantity {
		return false, nil
	}
	p.StockCount -= quantity
	p.Orders = append(p.Orders, models.OrderRef{OrderID: orderID})
	return true, nil
}

func (f *fakeProductRepo) AdjustStock(_ context.Context, id primitive.ObjectID, delta int) (bool, error) {
	f.m.Lock()
	defer f.m.Unlock()
	p, ok := f.products[id]
	if !ok {
		return false, nil
	}
	if delta < 0 && p.StockCount < -delta {
		return false, nil
	}
	p.StockCount += delta
	return true, nil
}

func (f *fakeProductRepo) IncrementSoldCount(_ context.Context, name string, quantity int) error {
	f.m.Lock()
	defer f.m.Unlock()
	for _, p := range f.products {
		if p.Name == name {
			p.SoldCount += quantity
		}
	}
	return nil
}

func (f *fakeProductRepo) DeactivateZeroStock(_ context.Context) (int64, error) {
	f.m.Lock()
	defer f.m.Unlock()
	var swept int64
	for _, p := range f.products {
		if p.StockCount == 0 && p.IsActive {
			p.IsActive = false
			swept++
		}
	}
	return swept, nil
}

type fakeUserRepo struct {
	m           sync.Mutex
	users       map[primitive.ObjectID]*models.User
	saveCartErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) add(u models.User) primitive.ObjectID {
	f.m.Lock()
	defer f.m.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.users[u.ID] = &u
	return u.ID
}

func (f *fakeUserRepo) get(id primitive.ObjectID) models.User {
	f.m.Lock()
	defer f.m.Unlock()
	return *f.users[id]
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.m.Lock()
	defer f.m.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	copied.Orders = append([]models.CartOrder(nil), u.Orders...)
	for i := range copied.Orders {
		copied.Orders[i].Products = append([]models.CartLine(nil), u.Orders[i].Products...)
	}
	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.m.Lock()
	defer f.m.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) CountByEmail(_ context.Context, email string) (int64, error) {
	f.m.Lock()
	defer f.m.Unlock()
	var count int64
	for _, u := range f.users {
		if u.Email == email {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) Insert(_ context.Context, u *models.User) error {
	f.m.Lock()
	defer f.m.Unlock()
	u.ID = primitive.NewObjectID()
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserRepo) SaveCart(_ context.Context, id primitive.ObjectID, orders []models.CartOrder, cartTotal float64) error {
	f.m.Lock()
	defer f.m.Unlock()
	if f.saveCartErr != nil {
		return f.saveCartErr
	}
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Orders = orders
	u.CartTotal = cartTotal
	return nil
}

func (f *fakeUserRepo) FinishCheckout(_ context.Context, id primitive.ObjectID, records []models.CheckoutRecord) error {
	f.m.Lock()
	defer f.m.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.CheckOutDetails = append(u.CheckOutDetails, records...)
	u.Orders = []models.CartOrder{}
	u.CartTotal = 0
	return nil
}

func (f *fakeUserRepo) SetAdmin(_ context.Context, id primitive.ObjectID) error {
	f.m.Lock()
	defer f.m.Unlock()
	if u, ok := f.users[id]; ok {
		u.IsAdmin = true
	}
	return nil
}

func (f *fakeUserRepo) UpdateDetails(_ context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	f.m.Lock()
	defer f.m.Unlock()
	u, ok := f.users[id]
	if !ok {
		return false, nil
	}
	for key, value := range fields {
		switch key {
		case "first_name":
			u.FirstName = value.(string)
		case "last_name":
			u.LastName = value.(string)
		case "mobile_no":
			u.MobileNo = value.(string)
		case "address":
			u.Address = value.(models.Address)
		}
	}
	return true, nil
}

func (f *fakeUserRepo) FindWithOrders(_ context.Context) ([]models.User, error) {
	f.m.Lock()
	defer f.m.Unlock()
	var users []models.User
	for _, u := range f.users {
		if len(u.Orders) > 0 {
			users = append(users, *u)
		}
	}
	return users, nil
}

func shopperClaims(userID primitive.ObjectID) *utils.Claims {
	return &utils.Claims{
		FullName: "Jamie Cruz",
		UserID:   userID.Hex(),
		Email:    "jamie@example.com",
		IsAdmin:  false,
	}
}

func adminClaims(userID primitive.ObjectID) *utils.Claims {
	return &utils.Claims{
		FullName: "Alex Reyes",
		UserID:   userID.Hex(),
		Email:    "alex@example.com",
		IsAdmin:  true,
	}
}
