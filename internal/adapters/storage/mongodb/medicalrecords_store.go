package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vet-clinic/internal/domain/medicalrecords"
	"vet-clinic/internal/platform/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// codeIllegalOperation es lo que responde un standalone al abrir una transacción.
const codeIllegalOperation = 20

type recordDoc struct {
	ID              string    `bson:"_id"`
	PatientID       string    `bson:"patientId"`
	VeterinarianID  string    `bson:"veterinarianId"`
	VisitDate       time.Time `bson:"visitDate"`
	Reason          string    `bson:"reason"`
	Notes           string    `bson:"notes,omitempty"`
	Status          string    `bson:"status"`
	DiagnosisIDs    []string  `bson:"diagnosisIds"`
	TreatmentIDs    []string  `bson:"treatmentIds"`
	PrescriptionIDs []string  `bson:"prescriptionIds"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

func (d recordDoc) toDomain() medicalrecords.MedicalRecord {
	return medicalrecords.MedicalRecord{
		ID:              d.ID,
		PatientID:       d.PatientID,
		VeterinarianID:  d.VeterinarianID,
		VisitDate:       d.VisitDate,
		Reason:          d.Reason,
		Notes:           d.Notes,
		Status:          medicalrecords.Status(d.Status),
		DiagnosisIDs:    d.DiagnosisIDs,
		TreatmentIDs:    d.TreatmentIDs,
		PrescriptionIDs: d.PrescriptionIDs,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type diagnosisDoc struct {
	ID          string    `bson:"_id"`
	RecordID    string    `bson:"recordId"`
	Code        string    `bson:"code"`
	Description string    `bson:"description"`
	Severity    string    `bson:"severity"`
	DiagnosedAt time.Time `bson:"diagnosedAt"`
	Notes       string    `bson:"notes,omitempty"`
}

type treatmentDoc struct {
	ID          string     `bson:"_id"`
	RecordID    string     `bson:"recordId"`
	Name        string     `bson:"name"`
	Description string     `bson:"description,omitempty"`
	CostCents   int64      `bson:"costCents"`
	StartDate   time.Time  `bson:"startDate"`
	EndDate     *time.Time `bson:"endDate,omitempty"`
	Status      string     `bson:"status"`
}

type prescriptionDoc struct {
	ID           string    `bson:"_id"`
	RecordID     string    `bson:"recordId"`
	Medication   string    `bson:"medication"`
	Dosage       string    `bson:"dosage"`
	Frequency    string    `bson:"frequency"`
	DurationDays int       `bson:"durationDays"`
	Refills      int       `bson:"refills"`
	PrescribedAt time.Time `bson:"prescribedAt"`
	Instructions string    `bson:"instructions,omitempty"`
}

// MedicalRecordStore guarda el registro y sus hijos en cuatro colecciones.
// El registro sólo conserva los arrays de ids; GetByID los resuelve.
type MedicalRecordStore struct {
	client        *mongo.Client
	records       *mongo.Collection
	diagnoses     *mongo.Collection
	treatments    *mongo.Collection
	prescriptions *mongo.Collection

	mu           sync.Mutex
	topologyRead bool
	txSupported  bool
}

func NewMedicalRecordStore(client *mongo.Client, db *mongo.Database) *MedicalRecordStore {
	return &MedicalRecordStore{
		client:        client,
		records:       db.Collection(colRecords),
		diagnoses:     db.Collection(colDiagnoses),
		treatments:    db.Collection(colTreatments),
		prescriptions: db.Collection(colPrescriptions),
	}
}

var _ medicalrecords.Store = (*MedicalRecordStore)(nil)

type helloResult struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// SupportsTransactions consulta la topología una sola vez: replica set o mongos.
func (s *MedicalRecordStore) SupportsTransactions(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.topologyRead {
		return s.txSupported, nil
	}

	var res helloResult
	err := s.records.Database().RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&res)
	if err != nil {
		return false, fmt.Errorf("hello: %w", err)
	}
	s.txSupported = res.SetName != "" || res.Msg == "isdbgrid"
	s.topologyRead = true
	return s.txSupported, nil
}

func (s *MedicalRecordStore) InTransaction(ctx context.Context, fn func(context.Context, medicalrecords.Writer) error) error {
	ok, err := s.SupportsTransactions(ctx)
	if err != nil {
		return apperr.Wrap(err, "medical record store")
	}
	if !ok {
		return fmt.Errorf("mongo standalone: %w", medicalrecords.ErrTransactionsUnsupported)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return apperr.Wrap(err, "start session")
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	if err == nil {
		return nil
	}

	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(codeIllegalOperation) {
		s.mu.Lock()
		s.txSupported = false
		s.mu.Unlock()
		return fmt.Errorf("%v: %w", err, medicalrecords.ErrTransactionsUnsupported)
	}
	return err
}

// UpsertRecord no toca los arrays de ids salvo al insertar.
func (s *MedicalRecordStore) UpsertRecord(ctx context.Context, r medicalrecords.MedicalRecord) error {
	update := bson.M{
		"$set": bson.M{
			"patientId":      r.PatientID,
			"veterinarianId": r.VeterinarianID,
			"visitDate":      r.VisitDate,
			"reason":         r.Reason,
			"notes":          r.Notes,
			"status":         string(r.Status),
			"updatedAt":      r.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"createdAt":       r.CreatedAt,
			"diagnosisIds":    bson.A{},
			"treatmentIds":    bson.A{},
			"prescriptionIds": bson.A{},
		},
	}
	_, err := s.records.UpdateOne(ctx, byID(r.ID), update, options.Update().SetUpsert(true))
	return mapErr(err, "medical record", r.ID)
}

func (s *MedicalRecordStore) SaveDiagnosis(ctx context.Context, d medicalrecords.Diagnosis) (string, error) {
	if d.ID == "" {
		d.ID = primitive.NewObjectID().Hex()
	}
	doc := diagnosisDoc{
		ID:          d.ID,
		RecordID:    d.RecordID,
		Code:        d.Code,
		Description: d.Description,
		Severity:    string(d.Severity),
		DiagnosedAt: d.DiagnosedAt,
		Notes:       d.Notes,
	}
	if _, err := s.diagnoses.ReplaceOne(ctx, byID(d.ID), doc, options.Replace().SetUpsert(true)); err != nil {
		return "", mapErr(err, "diagnosis", d.ID)
	}
	return d.ID, nil
}

func (s *MedicalRecordStore) SaveTreatment(ctx context.Context, t medicalrecords.Treatment) (string, error) {
	if t.ID == "" {
		t.ID = primitive.NewObjectID().Hex()
	}
	doc := treatmentDoc{
		ID:          t.ID,
		RecordID:    t.RecordID,
		Name:        t.Name,
		Description: t.Description,
		CostCents:   t.CostCents,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Status:      string(t.Status),
	}
	if _, err := s.treatments.ReplaceOne(ctx, byID(t.ID), doc, options.Replace().SetUpsert(true)); err != nil {
		return "", mapErr(err, "treatment", t.ID)
	}
	return t.ID, nil
}

func (s *MedicalRecordStore) SavePrescription(ctx context.Context, p medicalrecords.Prescription) (string, error) {
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	doc := prescriptionDoc{
		ID:           p.ID,
		RecordID:     p.RecordID,
		Medication:   p.Medication,
		Dosage:       p.Dosage,
		Frequency:    p.Frequency,
		DurationDays: p.DurationDays,
		Refills:      p.Refills,
		PrescribedAt: p.PrescribedAt,
		Instructions: p.Instructions,
	}
	if _, err := s.prescriptions.ReplaceOne(ctx, byID(p.ID), doc, options.Replace().SetUpsert(true)); err != nil {
		return "", mapErr(err, "prescription", p.ID)
	}
	return p.ID, nil
}

func (s *MedicalRecordStore) SetChildIDs(ctx context.Context, recordID string, diagnosisIDs, treatmentIDs, prescriptionIDs []string) error {
	res, err := s.records.UpdateOne(ctx, byID(recordID), bson.M{"$set": bson.M{
		"diagnosisIds":    nonNil(diagnosisIDs),
		"treatmentIds":    nonNil(treatmentIDs),
		"prescriptionIds": nonNil(prescriptionIDs),
	}})
	if err != nil {
		return mapErr(err, "medical record", recordID)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("medical record", recordID)
	}
	return nil
}

func (s *MedicalRecordStore) GetByID(ctx context.Context, id string) (medicalrecords.MedicalRecord, error) {
	var d recordDoc
	if err := s.records.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return medicalrecords.MedicalRecord{}, mapErr(err, "medical record", id)
	}
	return s.populate(ctx, d)
}

func (s *MedicalRecordStore) ListByPatient(ctx context.Context, patientID string) ([]medicalrecords.MedicalRecord, error) {
	cur, err := s.records.Find(ctx, bson.M{"patientId": patientID}, options.Find().SetSort(bson.D{{Key: "visitDate", Value: -1}}))
	if err != nil {
		return nil, mapErr(err, "medical record", "")
	}
	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr(err, "medical record", "")
	}

	out := make([]medicalrecords.MedicalRecord, 0, len(docs))
	for _, d := range docs {
		r, err := s.populate(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Delete borra primero los hijos; un fallo a mitad deja el registro visible para reintentar.
func (s *MedicalRecordStore) Delete(ctx context.Context, id string) error {
	filter := bson.M{"recordId": id}
	for _, col := range []*mongo.Collection{s.diagnoses, s.treatments, s.prescriptions} {
		if _, err := col.DeleteMany(ctx, filter); err != nil {
			return mapErr(err, "medical record", id)
		}
	}
	res, err := s.records.DeleteOne(ctx, byID(id))
	if err != nil {
		return mapErr(err, "medical record", id)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("medical record", id)
	}
	return nil
}

// populate respeta el orden de los arrays de ids.
func (s *MedicalRecordStore) populate(ctx context.Context, d recordDoc) (medicalrecords.MedicalRecord, error) {
	r := d.toDomain()

	var diags []diagnosisDoc
	if err := findByIDs(ctx, s.diagnoses, d.DiagnosisIDs, &diags); err != nil {
		return medicalrecords.MedicalRecord{}, err
	}
	byDiag := make(map[string]diagnosisDoc, len(diags))
	for _, x := range diags {
		byDiag[x.ID] = x
	}
	for _, id := range d.DiagnosisIDs {
		if x, ok := byDiag[id]; ok {
			r.Diagnoses = append(r.Diagnoses, medicalrecords.Diagnosis{
				ID:          x.ID,
				RecordID:    x.RecordID,
				Code:        x.Code,
				Description: x.Description,
				Severity:    medicalrecords.Severity(x.Severity),
				DiagnosedAt: x.DiagnosedAt,
				Notes:       x.Notes,
			})
		}
	}

	var treats []treatmentDoc
	if err := findByIDs(ctx, s.treatments, d.TreatmentIDs, &treats); err != nil {
		return medicalrecords.MedicalRecord{}, err
	}
	byTreat := make(map[string]treatmentDoc, len(treats))
	for _, x := range treats {
		byTreat[x.ID] = x
	}
	for _, id := range d.TreatmentIDs {
		if x, ok := byTreat[id]; ok {
			r.Treatments = append(r.Treatments, medicalrecords.Treatment{
				ID:          x.ID,
				RecordID:    x.RecordID,
				Name:        x.Name,
				Description: x.Description,
				CostCents:   x.CostCents,
				StartDate:   x.StartDate,
				EndDate:     x.EndDate,
				Status:      medicalrecords.TreatmentStatus(x.Status),
			})
		}
	}

	var rxs []prescriptionDoc
	if err := findByIDs(ctx, s.prescriptions, d.PrescriptionIDs, &rxs); err != nil {
		return medicalrecords.MedicalRecord{}, err
	}
	byRx := make(map[string]prescriptionDoc, len(rxs))
	for _, x := range rxs {
		byRx[x.ID] = x
	}
	for _, id := range d.PrescriptionIDs {
		if x, ok := byRx[id]; ok {
			r.Prescriptions = append(r.Prescriptions, medicalrecords.Prescription{
				ID:           x.ID,
				RecordID:     x.RecordID,
				Medication:   x.Medication,
				Dosage:       x.Dosage,
				Frequency:    x.Frequency,
				DurationDays: x.DurationDays,
				Refills:      x.Refills,
				PrescribedAt: x.PrescribedAt,
				Instructions: x.Instructions,
			})
		}
	}
	return r, nil
}

func findByIDs(ctx context.Context, col *mongo.Collection, ids []string, out any) error {
	if len(ids) == 0 {
		return nil
	}
	cur, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return mapErr(err, col.Name(), "")
	}
	if err := cur.All(ctx, out); err != nil {
		return mapErr(err, col.Name(), "")
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
