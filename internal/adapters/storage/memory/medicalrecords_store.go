package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vet-clinic/internal/domain/medicalrecords"
	"vet-clinic/internal/platform/apperr"

	"github.com/google/uuid"
)

// recordTables imita las cuatro colecciones: el registro guarda sólo ids de hijos.
type recordTables struct {
	records       map[string]medicalrecords.MedicalRecord
	diagnoses     map[string]medicalrecords.Diagnosis
	treatments    map[string]medicalrecords.Treatment
	prescriptions map[string]medicalrecords.Prescription
}

func newRecordTables() *recordTables {
	return &recordTables{
		records:       make(map[string]medicalrecords.MedicalRecord),
		diagnoses:     make(map[string]medicalrecords.Diagnosis),
		treatments:    make(map[string]medicalrecords.Treatment),
		prescriptions: make(map[string]medicalrecords.Prescription),
	}
}

func (t *recordTables) snapshot() *recordTables {
	out := newRecordTables()
	for k, v := range t.records {
		out.records[k] = v
	}
	for k, v := range t.diagnoses {
		out.diagnoses[k] = v
	}
	for k, v := range t.treatments {
		out.treatments[k] = v
	}
	for k, v := range t.prescriptions {
		out.prescriptions[k] = v
	}
	return out
}

// Las escrituras de recordTables no toman lock: el caller ya lo tiene.

func (t *recordTables) UpsertRecord(_ context.Context, r medicalrecords.MedicalRecord) error {
	doc := r.WithoutEvents()
	doc.Diagnoses, doc.Treatments, doc.Prescriptions = nil, nil, nil
	doc.DiagnosisIDs, doc.TreatmentIDs, doc.PrescriptionIDs = nil, nil, nil
	if prev, ok := t.records[r.ID]; ok {
		doc.DiagnosisIDs = prev.DiagnosisIDs
		doc.TreatmentIDs = prev.TreatmentIDs
		doc.PrescriptionIDs = prev.PrescriptionIDs
		doc.CreatedAt = prev.CreatedAt
	}
	t.records[r.ID] = doc
	return nil
}

func (t *recordTables) SaveDiagnosis(_ context.Context, d medicalrecords.Diagnosis) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	t.diagnoses[d.ID] = d
	return d.ID, nil
}

func (t *recordTables) SaveTreatment(_ context.Context, tr medicalrecords.Treatment) (string, error) {
	if tr.ID == "" {
		tr.ID = uuid.NewString()
	}
	t.treatments[tr.ID] = tr
	return tr.ID, nil
}

func (t *recordTables) SavePrescription(_ context.Context, p medicalrecords.Prescription) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	t.prescriptions[p.ID] = p
	return p.ID, nil
}

func (t *recordTables) SetChildIDs(_ context.Context, recordID string, diagnosisIDs, treatmentIDs, prescriptionIDs []string) error {
	r, ok := t.records[recordID]
	if !ok {
		return apperr.NotFound("medical record", recordID)
	}
	r.DiagnosisIDs = append([]string(nil), diagnosisIDs...)
	r.TreatmentIDs = append([]string(nil), treatmentIDs...)
	r.PrescriptionIDs = append([]string(nil), prescriptionIDs...)
	t.records[recordID] = r
	return nil
}

func (t *recordTables) populated(id string) (medicalrecords.MedicalRecord, error) {
	r, ok := t.records[id]
	if !ok {
		return medicalrecords.MedicalRecord{}, apperr.NotFound("medical record", id)
	}
	r = r.WithoutEvents()
	for _, cid := range r.DiagnosisIDs {
		if d, ok := t.diagnoses[cid]; ok {
			r.Diagnoses = append(r.Diagnoses, d)
		}
	}
	for _, cid := range r.TreatmentIDs {
		if tr, ok := t.treatments[cid]; ok {
			r.Treatments = append(r.Treatments, tr)
		}
	}
	for _, cid := range r.PrescriptionIDs {
		if p, ok := t.prescriptions[cid]; ok {
			r.Prescriptions = append(r.Prescriptions, p)
		}
	}
	return r, nil
}

// MedicalRecordStore implementa medicalrecords.Store en memoria. Con
// transacciones habilitadas (default) InTransaction trabaja sobre una copia y
// la publica sólo si fn termina sin error.
type MedicalRecordStore struct {
	mu     sync.RWMutex
	tables *recordTables

	transactions bool
}

type MedicalRecordStoreOption func(*MedicalRecordStore)

// WithoutTransactions simula un Mongo standalone.
func WithoutTransactions() MedicalRecordStoreOption {
	return func(s *MedicalRecordStore) { s.transactions = false }
}

func NewMedicalRecordStore(opts ...MedicalRecordStoreOption) *MedicalRecordStore {
	s := &MedicalRecordStore{
		tables:       newRecordTables(),
		transactions: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ medicalrecords.Store = (*MedicalRecordStore)(nil)

func (s *MedicalRecordStore) InTransaction(ctx context.Context, fn func(context.Context, medicalrecords.Writer) error) error {
	if !s.transactions {
		return fmt.Errorf("memory store: %w", medicalrecords.ErrTransactionsUnsupported)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.tables.snapshot()
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.tables = tx
	return nil
}

func (s *MedicalRecordStore) UpsertRecord(ctx context.Context, r medicalrecords.MedicalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.UpsertRecord(ctx, r)
}

func (s *MedicalRecordStore) SaveDiagnosis(ctx context.Context, d medicalrecords.Diagnosis) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.SaveDiagnosis(ctx, d)
}

func (s *MedicalRecordStore) SaveTreatment(ctx context.Context, t medicalrecords.Treatment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.SaveTreatment(ctx, t)
}

func (s *MedicalRecordStore) SavePrescription(ctx context.Context, p medicalrecords.Prescription) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.SavePrescription(ctx, p)
}

func (s *MedicalRecordStore) SetChildIDs(ctx context.Context, recordID string, diagnosisIDs, treatmentIDs, prescriptionIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.SetChildIDs(ctx, recordID, diagnosisIDs, treatmentIDs, prescriptionIDs)
}

func (s *MedicalRecordStore) GetByID(ctx context.Context, id string) (medicalrecords.MedicalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables.populated(id)
}

func (s *MedicalRecordStore) ListByPatient(ctx context.Context, patientID string) ([]medicalrecords.MedicalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]medicalrecords.MedicalRecord, 0)
	for id, r := range s.tables.records {
		if r.PatientID != patientID {
			continue
		}
		full, err := s.tables.populated(id)
		if err != nil {
			return nil, err
		}
		out = append(out, full)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VisitDate.After(out[j].VisitDate)
	})
	return out, nil
}

func (s *MedicalRecordStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.tables.records[id]
	if !ok {
		return apperr.NotFound("medical record", id)
	}
	for _, cid := range r.DiagnosisIDs {
		delete(s.tables.diagnoses, cid)
	}
	for _, cid := range r.TreatmentIDs {
		delete(s.tables.treatments, cid)
	}
	for _, cid := range r.PrescriptionIDs {
		delete(s.tables.prescriptions, cid)
	}
	delete(s.tables.records, id)
	return nil
}

// ChildCounts expone el tamaño de las colecciones hijas (tests de consistencia).
func (s *MedicalRecordStore) ChildCounts() (diagnoses, treatments, prescriptions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables.diagnoses), len(s.tables.treatments), len(s.tables.prescriptions)
}
