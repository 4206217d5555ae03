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

// ProductRepository is the data-access surface for catalog entries.
type ProductRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByName(ctx context.Context, name string) (*models.Product, error)
	FindActive(ctx context.Context) ([]models.ProductView, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, p *models.Product) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	ReserveStock(ctx context.Context, id primitive.ObjectID, quantity int, orderID string) (bool, error)
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (bool, error)
	IncrementSoldCount(ctx context.Context, name string, quantity int) error
	DeactivateZeroStock(ctx context.Context) (int64, error)
}

type mongoProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository returns a ProductRepository backed by the
// `products` collection.
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{coll: db.Collection("products")}
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoProductRepository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	var p models.Product
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoProductRepository) FindActive(ctx context.Context) ([]models.ProductView, error) {
	projection := bson.M{
		"_id":         0,
		"name":        1,
		"description": 1,
		"price":       1,
		"stock_count": 1,
	}
	cursor, err := r.coll.Find(ctx, bson.M{"is_active": true}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var views []models.ProductView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *mongoProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProductRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *mongoProductRepository) Insert(ctx context.Context, p *models.Product) error {
	result, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *mongoProductRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *mongoProductRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": active}})
	return err
}

func (r *mongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// ReserveStock decrements stock for a purchase. The stock check is part of
// the write filter, so two concurrent reservations cannot oversell.
func (r *mongoProductRepository) ReserveStock(ctx context.Context, id primitive.ObjectID, quantity int, orderID string) (bool, error) {
	filter := bson.M{"_id": id, "stock_count": bson.M{"$gte": quantity}}
	update := bson.M{
		"$inc":  bson.M{"stock_count": -quantity},
		"$push": bson.M{"orders": models.OrderRef{OrderID: orderID}},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// AdjustStock applies a stock delta from a cart quantity edit. Negative
// deltas carry the same conditional guard as ReserveStock.
func (r *mongoProductRepository) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (bool, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stock_count"] = bson.M{"$gte": -delta}
	}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock_count": delta}})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *mongoProductRepository) IncrementSoldCount(ctx context.Context, name string, quantity int) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"name": name}, bson.M{"$inc": bson.M{"sold_count": quantity}})
	return err
}

// DeactivateZeroStock flips is_active off for every product that is out of
// stock. Safe to run at any time.
func (r *mongoProductRepository) DeactivateZeroStock(ctx context.Context) (int64, error) {
	result, err := r.coll.UpdateMany(ctx,
		bson.M{"stock_count": 0, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
