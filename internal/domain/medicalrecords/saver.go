package medicalrecords

import (
	"context"
	"errors"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/eventbus"
	"vet-clinic/internal/platform/logger"
)

// Saver persiste el agregado completo (registro + diagnósticos + tratamientos +
// recetas) y después publica los eventos encolados.
//
// Primero intenta dentro de una transacción. Si el store reporta
// ErrTransactionsUnsupported repite las escrituras sin transacción: en ese camino
// no hay atomicidad y una caída a mitad puede dejar hijos huérfanos.
type Saver struct {
	store Store
	pub   eventbus.Publisher
	log   logger.Logger
}

func NewSaver(store Store, pub eventbus.Publisher, log logger.Logger) *Saver {
	if pub == nil {
		pub = eventbus.Discard
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Saver{store: store, pub: pub, log: log}
}

func (s *Saver) Save(ctx context.Context, rec MedicalRecord) (MedicalRecord, error) {
	saved, err := s.saveInTransaction(ctx, rec)
	if errors.Is(err, ErrTransactionsUnsupported) {
		s.log.Warn("transactions unsupported, saving without atomicity", map[string]any{"record_id": rec.ID})
		saved, err = s.saveBestEffort(ctx, rec)
	}
	if err != nil {
		return MedicalRecord{}, apperr.Wrap(err, "save medical record")
	}

	s.publishPending(ctx, saved)
	return saved.WithoutEvents(), nil
}

func (s *Saver) saveInTransaction(ctx context.Context, rec MedicalRecord) (MedicalRecord, error) {
	var out MedicalRecord
	err := s.store.InTransaction(ctx, func(ctx context.Context, w Writer) error {
		written, err := writeAggregate(ctx, w, rec)
		if err != nil {
			return err
		}
		out = written
		return nil
	})
	if err != nil {
		return MedicalRecord{}, err
	}
	return out, nil
}

func (s *Saver) saveBestEffort(ctx context.Context, rec MedicalRecord) (MedicalRecord, error) {
	written, err := writeAggregate(ctx, s.store, rec)
	if err != nil {
		return MedicalRecord{}, err
	}
	fresh, err := s.store.GetByID(ctx, written.ID)
	if err != nil {
		return MedicalRecord{}, err
	}
	return fresh.withEvents(written.pending), nil
}

// writeAggregate es la secuencia común a los dos caminos. Devuelve el agregado con
// los ids generados ya completados en los hijos nuevos.
func writeAggregate(ctx context.Context, w Writer, rec MedicalRecord) (MedicalRecord, error) {
	out := rec.clone()
	if err := w.UpsertRecord(ctx, out); err != nil {
		return MedicalRecord{}, err
	}

	out.DiagnosisIDs = make([]string, 0, len(out.Diagnoses))
	for i := range out.Diagnoses {
		out.Diagnoses[i].RecordID = out.ID
		id, err := w.SaveDiagnosis(ctx, out.Diagnoses[i])
		if err != nil {
			return MedicalRecord{}, err
		}
		out.Diagnoses[i].ID = id
		out.DiagnosisIDs = append(out.DiagnosisIDs, id)
	}

	out.TreatmentIDs = make([]string, 0, len(out.Treatments))
	for i := range out.Treatments {
		out.Treatments[i].RecordID = out.ID
		id, err := w.SaveTreatment(ctx, out.Treatments[i])
		if err != nil {
			return MedicalRecord{}, err
		}
		out.Treatments[i].ID = id
		out.TreatmentIDs = append(out.TreatmentIDs, id)
	}

	out.PrescriptionIDs = make([]string, 0, len(out.Prescriptions))
	for i := range out.Prescriptions {
		out.Prescriptions[i].RecordID = out.ID
		id, err := w.SavePrescription(ctx, out.Prescriptions[i])
		if err != nil {
			return MedicalRecord{}, err
		}
		out.Prescriptions[i].ID = id
		out.PrescriptionIDs = append(out.PrescriptionIDs, id)
	}

	if err := w.SetChildIDs(ctx, out.ID, out.DiagnosisIDs, out.TreatmentIDs, out.PrescriptionIDs); err != nil {
		return MedicalRecord{}, err
	}
	return out, nil
}

// publishPending es at-most-once: un fallo se loguea y el evento se pierde.
func (s *Saver) publishPending(ctx context.Context, rec MedicalRecord) {
	for _, pe := range rec.pending {
		e, err := eventbus.New(pe.Type, rec.ID, rec.UpdatedAt, eventPayload(rec, pe))
		if err != nil {
			s.log.Error("event build failed", map[string]any{"type": pe.Type, "record_id": rec.ID, "error": err})
			continue
		}
		if err := s.pub.Publish(ctx, e); err != nil {
			s.log.Warn("event publish failed", map[string]any{"type": pe.Type, "record_id": rec.ID, "error": err})
		}
	}
}

type recordPayload struct {
	ID             string `json:"id"`
	PatientID      string `json:"patientId"`
	VeterinarianID string `json:"veterinarianId"`
	Status         Status `json:"status"`
	Reason         string `json:"reason"`
}

type childPayload struct {
	RecordID string `json:"recordId"`
	ChildID  string `json:"id"`
	Summary  string `json:"summary"`
}

func eventPayload(rec MedicalRecord, pe PendingEvent) any {
	switch pe.Type {
	case EventDiagnosisAdded:
		if pe.Index < len(rec.Diagnoses) {
			d := rec.Diagnoses[pe.Index]
			return childPayload{RecordID: rec.ID, ChildID: d.ID, Summary: d.Code}
		}
	case EventTreatmentAdded:
		if pe.Index < len(rec.Treatments) {
			t := rec.Treatments[pe.Index]
			return childPayload{RecordID: rec.ID, ChildID: t.ID, Summary: t.Name}
		}
	case EventPrescriptionAdded:
		if pe.Index < len(rec.Prescriptions) {
			p := rec.Prescriptions[pe.Index]
			return childPayload{RecordID: rec.ID, ChildID: p.ID, Summary: p.Medication}
		}
	}
	return recordPayload{
		ID:             rec.ID,
		PatientID:      rec.PatientID,
		VeterinarianID: rec.VeterinarianID,
		Status:         rec.Status,
		Reason:         rec.Reason,
	}
}
