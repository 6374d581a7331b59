package mongodb

import (
	"context"
	"regexp"
	"strings"
	"time"

	"vet-clinic/internal/domain/clients"
	"vet-clinic/internal/platform/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type clientDoc struct {
	ID        string    `bson:"_id"`
	FirstName string    `bson:"firstName"`
	LastName  string    `bson:"lastName"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone,omitempty"`
	Address   string    `bson:"address,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toClientDoc(c clients.Client) clientDoc {
	return clientDoc{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d clientDoc) toDomain() clients.Client {
	return clients.Client{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type ClientsRepo struct {
	col *mongo.Collection
}

func NewClientsRepo(db *mongo.Database) *ClientsRepo {
	return &ClientsRepo{col: db.Collection(colClients)}
}

var _ clients.Repository = (*ClientsRepo)(nil)

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) error {
	_, err := r.col.InsertOne(ctx, toClientDoc(c))
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Duplicate("email %s already registered", c.Email)
	}
	return mapErr(err, "client", c.ID)
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	res, err := r.col.ReplaceOne(ctx, byID(c.ID), toClientDoc(c))
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Duplicate("email %s already registered", c.Email)
	}
	if err != nil {
		return mapErr(err, "client", c.ID)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("client", c.ID)
	}
	return nil
}

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	var d clientDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return clients.Client{}, mapErr(err, "client", id)
	}
	return d.toDomain(), nil
}

func (r *ClientsRepo) List(ctx context.Context, filter clients.ListFilter) ([]clients.Client, error) {
	q := bson.M{}
	if s := strings.TrimSpace(filter.Query); s != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"firstName": rx},
			bson.M{"lastName": rx},
			bson.M{"email": rx},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, mapErr(err, "client", "")
	}
	var docs []clientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr(err, "client", "")
	}

	out := make([]clients.Client, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ClientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return mapErr(err, "client", id)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("client", id)
	}
	return nil
}
