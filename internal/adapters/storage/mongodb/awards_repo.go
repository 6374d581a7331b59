package mongodb

import (
	"context"
	"time"

	"vet-clinic/internal/domain/awards"
	"vet-clinic/internal/platform/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type awardDoc struct {
	ID           string     `bson:"_id"`
	PetID        string     `bson:"petId"`
	Title        string     `bson:"title"`
	Category     string     `bson:"category"`
	Description  string     `bson:"description,omitempty"`
	IssuedBy     string     `bson:"issuedBy,omitempty"`
	AwardedAt    time.Time  `bson:"awardedAt"`
	IsValid      bool       `bson:"isValid"`
	RevokedAt    *time.Time `bson:"revokedAt,omitempty"`
	RevokeReason string     `bson:"revokeReason,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

func toAwardDoc(a awards.Award) awardDoc {
	return awardDoc{
		ID:           a.ID,
		PetID:        a.PetID,
		Title:        a.Title,
		Category:     string(a.Category),
		Description:  a.Description,
		IssuedBy:     a.IssuedBy,
		AwardedAt:    a.AwardedAt,
		IsValid:      a.IsValid,
		RevokedAt:    a.RevokedAt,
		RevokeReason: a.RevokeReason,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (d awardDoc) toDomain() awards.Award {
	return awards.Award{
		ID:           d.ID,
		PetID:        d.PetID,
		Title:        d.Title,
		Category:     awards.Category(d.Category),
		Description:  d.Description,
		IssuedBy:     d.IssuedBy,
		AwardedAt:    d.AwardedAt,
		IsValid:      d.IsValid,
		RevokedAt:    d.RevokedAt,
		RevokeReason: d.RevokeReason,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type AwardsRepo struct {
	col *mongo.Collection
}

func NewAwardsRepo(db *mongo.Database) *AwardsRepo {
	return &AwardsRepo{col: db.Collection(colAwards)}
}

var _ awards.Repository = (*AwardsRepo)(nil)

func (r *AwardsRepo) Create(ctx context.Context, a awards.Award) error {
	_, err := r.col.InsertOne(ctx, toAwardDoc(a))
	return mapErr(err, "award", a.ID)
}

func (r *AwardsRepo) Update(ctx context.Context, a awards.Award) error {
	res, err := r.col.ReplaceOne(ctx, byID(a.ID), toAwardDoc(a))
	if err != nil {
		return mapErr(err, "award", a.ID)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("award", a.ID)
	}
	return nil
}

func (r *AwardsRepo) GetByID(ctx context.Context, id string) (awards.Award, error) {
	var d awardDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return awards.Award{}, mapErr(err, "award", id)
	}
	return d.toDomain(), nil
}

func (r *AwardsRepo) ListByPet(ctx context.Context, petID string, onlyValid bool) ([]awards.Award, error) {
	q := bson.M{"petId": petID}
	if onlyValid {
		q["isValid"] = true
	}
	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "awardedAt", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, mapErr(err, "award", "")
	}
	var docs []awardDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr(err, "award", "")
	}
	out := make([]awards.Award, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AwardsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return mapErr(err, "award", id)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("award", id)
	}
	return nil
}
