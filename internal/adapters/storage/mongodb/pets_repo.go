package mongodb

import (
	"context"
	"time"

	"vet-clinic/internal/domain/pets"
	"vet-clinic/internal/platform/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type vaccinationDoc struct {
	Name           string     `bson:"name"`
	AdministeredAt time.Time  `bson:"administeredAt"`
	NextDueAt      *time.Time `bson:"nextDueAt,omitempty"`
	Veterinarian   string     `bson:"veterinarian,omitempty"`
}

type historyDoc struct {
	RecordedAt   time.Time `bson:"recordedAt"`
	Description  string    `bson:"description"`
	Veterinarian string    `bson:"veterinarian,omitempty"`
}

// petDoc embebe vacunas e historial: se leen siempre junto con la mascota.
type petDoc struct {
	ID             string           `bson:"_id"`
	ClientID       string           `bson:"clientId"`
	Name           string           `bson:"name"`
	Species        string           `bson:"species"`
	Breed          string           `bson:"breed,omitempty"`
	Sex            string           `bson:"sex"`
	BirthDate      *time.Time       `bson:"birthDate,omitempty"`
	Microchip      string           `bson:"microchip,omitempty"`
	WeightKg       float64          `bson:"weightKg"`
	Vaccinations   []vaccinationDoc `bson:"vaccinations"`
	MedicalHistory []historyDoc     `bson:"medicalHistory"`
	CreatedAt      time.Time        `bson:"createdAt"`
	UpdatedAt      time.Time        `bson:"updatedAt"`
}

func toPetDoc(p pets.Pet) petDoc {
	d := petDoc{
		ID:             p.ID,
		ClientID:       p.ClientID,
		Name:           p.Name,
		Species:        string(p.Species),
		Breed:          p.Breed,
		Sex:            string(p.Sex),
		BirthDate:      p.BirthDate,
		Microchip:      p.Microchip,
		WeightKg:       p.WeightKg,
		Vaccinations:   make([]vaccinationDoc, 0, len(p.Vaccinations)),
		MedicalHistory: make([]historyDoc, 0, len(p.MedicalHistory)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, v := range p.Vaccinations {
		d.Vaccinations = append(d.Vaccinations, vaccinationDoc(v))
	}
	for _, h := range p.MedicalHistory {
		d.MedicalHistory = append(d.MedicalHistory, historyDoc(h))
	}
	return d
}

func (d petDoc) toDomain() pets.Pet {
	p := pets.Pet{
		ID:        d.ID,
		ClientID:  d.ClientID,
		Name:      d.Name,
		Species:   pets.Species(d.Species),
		Breed:     d.Breed,
		Sex:       pets.Sex(d.Sex),
		BirthDate: d.BirthDate,
		Microchip: d.Microchip,
		WeightKg:  d.WeightKg,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, v := range d.Vaccinations {
		p.Vaccinations = append(p.Vaccinations, pets.Vaccination(v))
	}
	for _, h := range d.MedicalHistory {
		p.MedicalHistory = append(p.MedicalHistory, pets.HistoryEntry(h))
	}
	return p
}

type PetsRepo struct {
	col *mongo.Collection
}

func NewPetsRepo(db *mongo.Database) *PetsRepo {
	return &PetsRepo{col: db.Collection(colPets)}
}

var _ pets.Repository = (*PetsRepo)(nil)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.col.InsertOne(ctx, toPetDoc(p))
	return mapErr(err, "pet", p.ID)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.col.ReplaceOne(ctx, byID(p.ID), toPetDoc(p))
	if err != nil {
		return mapErr(err, "pet", p.ID)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("pet", p.ID)
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	var d petDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return pets.Pet{}, mapErr(err, "pet", id)
	}
	return d.toDomain(), nil
}

func (r *PetsRepo) ListByClient(ctx context.Context, clientID string) ([]pets.Pet, error) {
	cur, err := r.col.Find(ctx, bson.M{"clientId": clientID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, mapErr(err, "pet", "")
	}
	var docs []petDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr(err, "pet", "")
	}
	out := make([]pets.Pet, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return mapErr(err, "pet", id)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("pet", id)
	}
	return nil
}
