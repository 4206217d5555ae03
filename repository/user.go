package repository

import (
	"context"
	"errors"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository is the data-access surface for accounts, including the
// cart embedded in each user document.
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	Insert(ctx context.Context, u *models.User) error
	SaveCart(ctx context.Context, id primitive.ObjectID, orders []models.CartOrder, cartTotal float64) error
	FinishCheckout(ctx context.Context, id primitive.ObjectID, records []models.CheckoutRecord) error
	SetAdmin(ctx context.Context, id primitive.ObjectID) error
	UpdateDetails(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error)
	FindWithOrders(ctx context.Context) ([]models.User, error)
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository returns a UserRepository backed by the `users`
// collection.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection("users")}
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) Insert(ctx context.Context, u *models.User) error {
	result, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// SaveCart replaces the user's in-progress cart state in one write.
func (r *mongoUserRepository) SaveCart(ctx context.Context, id primitive.ObjectID, orders []models.CartOrder, cartTotal float64) error {
	if orders == nil {
		orders = []models.CartOrder{}
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"orders": orders, "cart_total": cartTotal},
	})
	return err
}

// FinishCheckout appends the checkout records and resets the cart in a
// single document update.
func (r *mongoUserRepository) FinishCheckout(ctx context.Context, id primitive.ObjectID, records []models.CheckoutRecord) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"checkout_details": bson.M{"$each": records}},
		"$set":  bson.M{"orders": []models.CartOrder{}, "cart_total": 0},
	})
	return err
}

func (r *mongoUserRepository) SetAdmin(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_admin": true}})
	return err
}

func (r *mongoUserRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// FindWithOrders returns every user with a non-empty cart, limited to the
// fields the admin order view needs.
func (r *mongoUserRepository) FindWithOrders(ctx context.Context) ([]models.User, error) {
	projection := bson.M{"first_name": 1, "last_name": 1, "orders": 1, "cart_total": 1}
	cursor, err := r.coll.Find(ctx,
		bson.M{"orders": bson.M{"$ne": []models.CartOrder{}}},
		options.Find().SetProjection(projection),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
