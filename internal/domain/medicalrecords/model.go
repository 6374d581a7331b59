package medicalrecords

import (
	"strings"
	"time"
	"unicode/utf8"

	"vet-clinic/internal/platform/apperr"
)

// Status del registro.
// @Enum open, closed
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

const (
	EventRecordCreated     = "medical_record.created"
	EventRecordUpdated     = "medical_record.updated"
	EventRecordClosed      = "medical_record.closed"
	EventDiagnosisAdded    = "diagnosis.added"
	EventTreatmentAdded    = "treatment.added"
	EventPrescriptionAdded = "prescription.added"
)

// PendingEvent queda encolado en el agregado hasta que Save lo publica.
// Para los *.added, Index apunta al hijo dentro de su lista.
type PendingEvent struct {
	Type  string
	Index int
}

// MedicalRecord es la raíz del agregado. Los *IDs reflejan lo persistido;
// Diagnoses/Treatments/Prescriptions pueden traer hijos nuevos sin ID.
type MedicalRecord struct {
	ID             string
	PatientID      string
	VeterinarianID string

	VisitDate time.Time
	Reason    string
	Notes     string
	Status    Status

	DiagnosisIDs    []string
	TreatmentIDs    []string
	PrescriptionIDs []string

	Diagnoses     []Diagnosis
	Treatments    []Treatment
	Prescriptions []Prescription

	CreatedAt time.Time
	UpdatedAt time.Time

	pending []PendingEvent
}

type Input struct {
	PatientID      string
	VeterinarianID string
	VisitDate      time.Time
	Reason         string
	Notes          string
}

type Patch struct {
	VeterinarianID *string
	VisitDate      *time.Time
	Reason         *string
	Notes          *string
}

func New(id string, in Input, now time.Time) (MedicalRecord, error) {
	r := MedicalRecord{
		ID:             strings.TrimSpace(id),
		PatientID:      strings.TrimSpace(in.PatientID),
		VeterinarianID: strings.TrimSpace(in.VeterinarianID),
		VisitDate:      in.VisitDate,
		Reason:         strings.TrimSpace(in.Reason),
		Notes:          strings.TrimSpace(in.Notes),
		Status:         StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if r.VisitDate.IsZero() {
		r.VisitDate = now
	}
	if r.ID == "" {
		return MedicalRecord{}, apperr.Validation("medical record id is required")
	}
	if err := r.validate(now); err != nil {
		return MedicalRecord{}, err
	}
	r.pending = []PendingEvent{{Type: EventRecordCreated}}
	return r, nil
}

func (r MedicalRecord) WithPatch(in Patch, now time.Time) (MedicalRecord, error) {
	if err := r.ensureOpen(); err != nil {
		return MedicalRecord{}, err
	}
	next := r.clone()
	if in.VeterinarianID != nil {
		next.VeterinarianID = strings.TrimSpace(*in.VeterinarianID)
	}
	if in.VisitDate != nil {
		next.VisitDate = *in.VisitDate
	}
	if in.Reason != nil {
		next.Reason = strings.TrimSpace(*in.Reason)
	}
	if in.Notes != nil {
		next.Notes = strings.TrimSpace(*in.Notes)
	}
	if err := next.validate(now); err != nil {
		return MedicalRecord{}, err
	}
	next.UpdatedAt = now
	next.pending = append(next.pending, PendingEvent{Type: EventRecordUpdated})
	return next, nil
}

func (r MedicalRecord) WithDiagnosis(d Diagnosis, now time.Time) (MedicalRecord, error) {
	if err := r.ensureOpen(); err != nil {
		return MedicalRecord{}, err
	}
	next := r.clone()
	d.ID = ""
	d.RecordID = r.ID
	next.Diagnoses = append(next.Diagnoses, d)
	next.UpdatedAt = now
	next.pending = append(next.pending, PendingEvent{Type: EventDiagnosisAdded, Index: len(next.Diagnoses) - 1})
	return next, nil
}

func (r MedicalRecord) WithTreatment(t Treatment, now time.Time) (MedicalRecord, error) {
	if err := r.ensureOpen(); err != nil {
		return MedicalRecord{}, err
	}
	next := r.clone()
	t.ID = ""
	t.RecordID = r.ID
	next.Treatments = append(next.Treatments, t)
	next.UpdatedAt = now
	next.pending = append(next.pending, PendingEvent{Type: EventTreatmentAdded, Index: len(next.Treatments) - 1})
	return next, nil
}

func (r MedicalRecord) WithPrescription(p Prescription, now time.Time) (MedicalRecord, error) {
	if err := r.ensureOpen(); err != nil {
		return MedicalRecord{}, err
	}
	next := r.clone()
	p.ID = ""
	p.RecordID = r.ID
	next.Prescriptions = append(next.Prescriptions, p)
	next.UpdatedAt = now
	next.pending = append(next.pending, PendingEvent{Type: EventPrescriptionAdded, Index: len(next.Prescriptions) - 1})
	return next, nil
}

// Close es terminal: un registro cerrado no acepta más cambios.
func (r MedicalRecord) Close(now time.Time) (MedicalRecord, error) {
	if err := r.ensureOpen(); err != nil {
		return MedicalRecord{}, err
	}
	next := r.clone()
	next.Status = StatusClosed
	next.UpdatedAt = now
	next.pending = append(next.pending, PendingEvent{Type: EventRecordClosed})
	return next, nil
}

func (r MedicalRecord) PendingEvents() []PendingEvent {
	return append([]PendingEvent(nil), r.pending...)
}

// WithoutEvents devuelve la copia con la cola vacía (lo que se guarda y se devuelve tras Save).
func (r MedicalRecord) WithoutEvents() MedicalRecord {
	next := r.clone()
	next.pending = nil
	return next
}

// withEvents reinyecta la cola en una copia releída del store.
func (r MedicalRecord) withEvents(evs []PendingEvent) MedicalRecord {
	next := r.clone()
	next.pending = append([]PendingEvent(nil), evs...)
	return next
}

func (r MedicalRecord) clone() MedicalRecord {
	out := r
	out.DiagnosisIDs = append([]string(nil), r.DiagnosisIDs...)
	out.TreatmentIDs = append([]string(nil), r.TreatmentIDs...)
	out.PrescriptionIDs = append([]string(nil), r.PrescriptionIDs...)
	out.Diagnoses = append([]Diagnosis(nil), r.Diagnoses...)
	out.Treatments = append([]Treatment(nil), r.Treatments...)
	out.Prescriptions = append([]Prescription(nil), r.Prescriptions...)
	out.pending = append([]PendingEvent(nil), r.pending...)
	return out
}

func (r MedicalRecord) ensureOpen() error {
	if r.Status == StatusClosed {
		return apperr.Validation("medical record %s is closed", r.ID)
	}
	return nil
}

func (r MedicalRecord) validate(now time.Time) error {
	if r.PatientID == "" {
		return apperr.Validation("patient id is required")
	}
	if r.VeterinarianID == "" {
		return apperr.Validation("veterinarian id is required")
	}
	if n := utf8.RuneCountInString(r.Reason); n < 3 || n > 500 {
		return apperr.Validation("reason must be between 3 and 500 characters")
	}
	if utf8.RuneCountInString(r.Notes) > 2000 {
		return apperr.Validation("notes must be at most 2000 characters")
	}
	if r.VisitDate.After(now) {
		return apperr.Validation("visit date cannot be in the future")
	}
	return nil
}
