package mongodb

import (
	"context"
	"time"

	"vet-clinic/internal/domain/patients"
	"vet-clinic/internal/platform/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type patientDoc struct {
	ID        string     `bson:"_id"`
	OwnerID   string     `bson:"ownerId"`
	Name      string     `bson:"name"`
	Species   string     `bson:"species"`
	Breed     string     `bson:"breed,omitempty"`
	BirthDate *time.Time `bson:"birthDate,omitempty"`
	Allergies []string   `bson:"allergies"`
	Status    string     `bson:"status"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt"`
}

func toPatientDoc(p patients.Patient) patientDoc {
	allergies := p.Allergies
	if allergies == nil {
		allergies = []string{}
	}
	return patientDoc{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthDate: p.BirthDate,
		Allergies: allergies,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d patientDoc) toDomain() patients.Patient {
	return patients.Patient{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Species:   d.Species,
		Breed:     d.Breed,
		BirthDate: d.BirthDate,
		Allergies: d.Allergies,
		Status:    patients.Status(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type PatientsRepo struct {
	col *mongo.Collection
}

func NewPatientsRepo(db *mongo.Database) *PatientsRepo {
	return &PatientsRepo{col: db.Collection(colPatients)}
}

var _ patients.Repository = (*PatientsRepo)(nil)

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	_, err := r.col.InsertOne(ctx, toPatientDoc(p))
	return mapErr(err, "patient", p.ID)
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	res, err := r.col.ReplaceOne(ctx, byID(p.ID), toPatientDoc(p))
	if err != nil {
		return mapErr(err, "patient", p.ID)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("patient", p.ID)
	}
	return nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	var d patientDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return patients.Patient{}, mapErr(err, "patient", id)
	}
	return d.toDomain(), nil
}

func (r *PatientsRepo) List(ctx context.Context, ownerID string) ([]patients.Patient, error) {
	q := bson.M{}
	if ownerID != "" {
		q["ownerId"] = ownerID
	}
	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, mapErr(err, "patient", "")
	}
	var docs []patientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr(err, "patient", "")
	}
	out := make([]patients.Patient, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PatientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return mapErr(err, "patient", id)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("patient", id)
	}
	return nil
}

type ownerDoc struct {
	ID           string    `bson:"_id"`
	FullName     string    `bson:"fullName"`
	Email        string    `bson:"email"`
	Phone        string    `bson:"phone,omitempty"`
	ReplicatedAt time.Time `bson:"replicatedAt"`
}

// OwnersRepo guarda la réplica de clientes que alimentan los eventos client.*.
type OwnersRepo struct {
	col *mongo.Collection
}

func NewOwnersRepo(db *mongo.Database) *OwnersRepo {
	return &OwnersRepo{col: db.Collection(colOwners)}
}

var _ patients.OwnerRepository = (*OwnersRepo)(nil)

func (r *OwnersRepo) Upsert(ctx context.Context, o patients.Owner) error {
	_, err := r.col.ReplaceOne(ctx, byID(o.ID), ownerDoc(o), options.Replace().SetUpsert(true))
	return mapErr(err, "owner", o.ID)
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (patients.Owner, error) {
	var d ownerDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return patients.Owner{}, mapErr(err, "owner", id)
	}
	return patients.Owner(d), nil
}

func (r *OwnersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return mapErr(err, "owner", id)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("owner", id)
	}
	return nil
}
