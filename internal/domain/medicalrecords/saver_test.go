package medicalrecords

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/eventbus"
)

// -------------------------
// Fake store (in-memory, with optional transactions)
// -------------------------

type storeState struct {
	records       map[string]MedicalRecord
	diagnoses     map[string]Diagnosis
	treatments    map[string]Treatment
	prescriptions map[string]Prescription
	seq           int
}

func newStoreState() *storeState {
	return &storeState{
		records:       map[string]MedicalRecord{},
		diagnoses:     map[string]Diagnosis{},
		treatments:    map[string]Treatment{},
		prescriptions: map[string]Prescription{},
	}
}

func (s *storeState) copy() *storeState {
	out := newStoreState()
	out.seq = s.seq
	for k, v := range s.records {
		out.records[k] = v
	}
	for k, v := range s.diagnoses {
		out.diagnoses[k] = v
	}
	for k, v := range s.treatments {
		out.treatments[k] = v
	}
	for k, v := range s.prescriptions {
		out.prescriptions[k] = v
	}
	return out
}

func (s *storeState) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *storeState) UpsertRecord(_ context.Context, r MedicalRecord) error {
	doc := r.WithoutEvents()
	doc.Diagnoses, doc.Treatments, doc.Prescriptions = nil, nil, nil
	if prev, ok := s.records[r.ID]; ok {
		doc.DiagnosisIDs, doc.TreatmentIDs, doc.PrescriptionIDs = prev.DiagnosisIDs, prev.TreatmentIDs, prev.PrescriptionIDs
	} else {
		doc.DiagnosisIDs, doc.TreatmentIDs, doc.PrescriptionIDs = nil, nil, nil
	}
	s.records[r.ID] = doc
	return nil
}

func (s *storeState) SaveDiagnosis(_ context.Context, d Diagnosis) (string, error) {
	if d.ID == "" {
		d.ID = s.nextID("diag")
	}
	s.diagnoses[d.ID] = d
	return d.ID, nil
}

func (s *storeState) SaveTreatment(_ context.Context, t Treatment) (string, error) {
	if t.ID == "" {
		t.ID = s.nextID("treat")
	}
	s.treatments[t.ID] = t
	return t.ID, nil
}

func (s *storeState) SavePrescription(_ context.Context, p Prescription) (string, error) {
	if p.ID == "" {
		p.ID = s.nextID("presc")
	}
	s.prescriptions[p.ID] = p
	return p.ID, nil
}

func (s *storeState) SetChildIDs(_ context.Context, id string, d, t, p []string) error {
	r, ok := s.records[id]
	if !ok {
		return apperr.NotFound("medical record", id)
	}
	r.DiagnosisIDs, r.TreatmentIDs, r.PrescriptionIDs = d, t, p
	s.records[id] = r
	return nil
}

type fakeStore struct {
	*storeState

	noTransactions bool
	// failInTx simula el error del driver a mitad de la transacción.
	failInTx error
	txCalls  int
}

func newFakeStore() *fakeStore { return &fakeStore{storeState: newStoreState()} }

func (f *fakeStore) InTransaction(ctx context.Context, fn func(context.Context, Writer) error) error {
	f.txCalls++
	if f.noTransactions {
		return fmt.Errorf("hello: standalone: %w", ErrTransactionsUnsupported)
	}
	tx := f.storeState.copy()
	if err := fn(ctx, failingWriter{Writer: tx, err: f.failInTx}); err != nil {
		return err
	}
	f.storeState = tx
	return nil
}

type failingWriter struct {
	Writer
	err error
}

func (w failingWriter) SaveDiagnosis(ctx context.Context, d Diagnosis) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	return w.Writer.SaveDiagnosis(ctx, d)
}

func (f *fakeStore) GetByID(_ context.Context, id string) (MedicalRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return MedicalRecord{}, apperr.NotFound("medical record", id)
	}
	r = r.clone()
	for _, cid := range r.DiagnosisIDs {
		r.Diagnoses = append(r.Diagnoses, f.diagnoses[cid])
	}
	for _, cid := range r.TreatmentIDs {
		r.Treatments = append(r.Treatments, f.treatments[cid])
	}
	for _, cid := range r.PrescriptionIDs {
		r.Prescriptions = append(r.Prescriptions, f.prescriptions[cid])
	}
	return r, nil
}

func (f *fakeStore) ListByPatient(ctx context.Context, patientID string) ([]MedicalRecord, error) {
	out := []MedicalRecord{}
	for id, r := range f.records {
		if r.PatientID == patientID {
			full, _ := f.GetByID(ctx, id)
			out = append(out, full)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	r, ok := f.records[id]
	if !ok {
		return apperr.NotFound("medical record", id)
	}
	for _, cid := range r.DiagnosisIDs {
		delete(f.diagnoses, cid)
	}
	for _, cid := range r.TreatmentIDs {
		delete(f.treatments, cid)
	}
	for _, cid := range r.PrescriptionIDs {
		delete(f.prescriptions, cid)
	}
	delete(f.records, id)
	return nil
}

var fixedNow = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

func newRecordWithTwoDiagnoses(t *testing.T) MedicalRecord {
	t.Helper()
	rec, err := New("rec-1", Input{PatientID: "p-1", VeterinarianID: "vet-1", Reason: "Control anual"}, fixedNow)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	for _, code := range []string{"A01", "B02"} {
		d, err := NewDiagnosis(DiagnosisInput{Code: code, Description: "otitis externa"}, fixedNow)
		if err != nil {
			t.Fatalf("new diagnosis: %v", err)
		}
		rec, err = rec.WithDiagnosis(d, fixedNow)
		if err != nil {
			t.Fatalf("with diagnosis: %v", err)
		}
	}
	return rec
}

// -------------------------
// Tests
// -------------------------

func TestSaver_Transactional_LinksBothDiagnoses(t *testing.T) {
	store := newFakeStore()
	bus := eventbus.NewMemoryBus()
	saver := NewSaver(store, bus, nil)

	saved, err := saver.Save(context.Background(), newRecordWithTwoDiagnoses(t))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(saved.DiagnosisIDs) != 2 || saved.Diagnoses[0].ID == "" || saved.Diagnoses[1].ID == "" {
		t.Fatalf("expected ids backfilled, got %#v", saved.Diagnoses)
	}
	if len(saved.PendingEvents()) != 0 {
		t.Fatalf("event queue must be cleared after save")
	}

	got, err := store.GetByID(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Diagnoses) != 2 || got.Diagnoses[0].Code != "A01" || got.Diagnoses[1].Code != "B02" {
		t.Fatalf("expected both diagnoses populated, got %#v", got.Diagnoses)
	}
	for _, d := range got.Diagnoses {
		if d.RecordID != "rec-1" {
			t.Fatalf("diagnosis without back reference: %#v", d)
		}
	}

	want := []string{EventRecordCreated, EventDiagnosisAdded, EventDiagnosisAdded}
	if got := bus.PublishedTypes(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("published %v, want %v", got, want)
	}
	var p childPayload
	if err := bus.Published()[1].Decode(&p); err != nil || p.ChildID != saved.Diagnoses[0].ID {
		t.Fatalf("diagnosis event must carry generated id, got %#v err=%v", p, err)
	}
}

func TestSaver_FallbackWhenCapabilityMissing(t *testing.T) {
	store := newFakeStore()
	store.noTransactions = true
	bus := eventbus.NewMemoryBus()
	saver := NewSaver(store, bus, nil)

	saved, err := saver.Save(context.Background(), newRecordWithTwoDiagnoses(t))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.GetByID(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.DiagnosisIDs) != 2 || len(store.diagnoses) != 2 {
		t.Fatalf("parent must reference exactly the written children: ids=%v children=%d", got.DiagnosisIDs, len(store.diagnoses))
	}
	for _, id := range got.DiagnosisIDs {
		if _, ok := store.diagnoses[id]; !ok {
			t.Fatalf("dangling diagnosis id %s", id)
		}
	}
	if saved.Diagnoses[1].ID != got.DiagnosisIDs[1] {
		t.Fatalf("returned record must come from the re-read")
	}
	if len(bus.Published()) != 3 {
		t.Fatalf("events must be published on the fallback path too, got %v", bus.PublishedTypes())
	}
}

func TestSaver_FallbackWhenDriverRejectsTransaction(t *testing.T) {
	store := newFakeStore()
	store.failInTx = fmt.Errorf("(IllegalOperation) code 20: %w", ErrTransactionsUnsupported)
	saver := NewSaver(store, nil, nil)

	if _, err := saver.Save(context.Background(), newRecordWithTwoDiagnoses(t)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.txCalls != 1 {
		t.Fatalf("expected exactly one transactional attempt, got %d", store.txCalls)
	}
	got, err := store.GetByID(context.Background(), "rec-1")
	if err != nil || len(got.Diagnoses) != 2 {
		t.Fatalf("expected consistent read after fallback, got %#v err=%v", got, err)
	}
}

func TestSaver_OtherErrorsAbortWithoutFallback(t *testing.T) {
	store := newFakeStore()
	store.failInTx = errors.New("disk full")
	bus := eventbus.NewMemoryBus()
	saver := NewSaver(store, bus, nil)

	_, err := saver.Save(context.Background(), newRecordWithTwoDiagnoses(t))
	if !errors.Is(err, apperr.ErrInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if len(store.records) != 0 || len(store.diagnoses) != 0 {
		t.Fatalf("aborted transaction must not leave writes behind")
	}
	if len(bus.Published()) != 0 {
		t.Fatalf("nothing must be published on failure")
	}
}

func TestSaver_PublishErrorsAreDropped(t *testing.T) {
	store := newFakeStore()
	calls := 0
	pub := eventbus.PublisherFunc(func(context.Context, eventbus.Event) error {
		calls++
		return errors.New("broker down")
	})
	saver := NewSaver(store, pub, nil)

	if _, err := saver.Save(context.Background(), newRecordWithTwoDiagnoses(t)); err != nil {
		t.Fatalf("publish failure must not fail the save: %v", err)
	}
	if calls != 3 {
		t.Fatalf("each event is attempted once, got %d calls", calls)
	}
}
