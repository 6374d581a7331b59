package medicalrecords

import (
	"context"
	"strings"
	"time"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/eventbus"
	"vet-clinic/internal/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	store    Store
	saver    *Saver
	patients PatientLookup
	now      func() time.Time
	newID    func() string
}

func NewService(store Store, patients PatientLookup, pub eventbus.Publisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:    store,
		saver:    NewSaver(store, pub, log.With(map[string]any{"module": "medicalrecords"})),
		patients: patients,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Service) Create(ctx context.Context, in Input) (MedicalRecord, error) {
	rec, err := New(s.newID(), in, s.now())
	if err != nil {
		return MedicalRecord{}, err
	}
	if err := s.ensurePatient(ctx, rec.PatientID); err != nil {
		return MedicalRecord{}, err
	}
	return s.saver.Save(ctx, rec)
}

func (s *Service) GetByID(ctx context.Context, id string) (MedicalRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MedicalRecord{}, apperr.Validation("medical record id is required")
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]MedicalRecord, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, apperr.Validation("patient id is required")
	}
	return s.store.ListByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, id string, in Patch) (MedicalRecord, error) {
	return s.mutate(ctx, id, func(r MedicalRecord, now time.Time) (MedicalRecord, error) {
		return r.WithPatch(in, now)
	})
}

func (s *Service) AddDiagnosis(ctx context.Context, id string, in DiagnosisInput) (MedicalRecord, error) {
	return s.mutate(ctx, id, func(r MedicalRecord, now time.Time) (MedicalRecord, error) {
		d, err := NewDiagnosis(in, now)
		if err != nil {
			return MedicalRecord{}, err
		}
		return r.WithDiagnosis(d, now)
	})
}

func (s *Service) AddTreatment(ctx context.Context, id string, in TreatmentInput) (MedicalRecord, error) {
	return s.mutate(ctx, id, func(r MedicalRecord, now time.Time) (MedicalRecord, error) {
		t, err := NewTreatment(in, now)
		if err != nil {
			return MedicalRecord{}, err
		}
		return r.WithTreatment(t, now)
	})
}

func (s *Service) AddPrescription(ctx context.Context, id string, in PrescriptionInput) (MedicalRecord, error) {
	return s.mutate(ctx, id, func(r MedicalRecord, now time.Time) (MedicalRecord, error) {
		p, err := NewPrescription(in, now)
		if err != nil {
			return MedicalRecord{}, err
		}
		return r.WithPrescription(p, now)
	})
}

func (s *Service) Close(ctx context.Context, id string) (MedicalRecord, error) {
	return s.mutate(ctx, id, func(r MedicalRecord, now time.Time) (MedicalRecord, error) {
		return r.Close(now)
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, rec.ID); err != nil {
		return apperr.Wrap(err, "delete medical record")
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(MedicalRecord, time.Time) (MedicalRecord, error)) (MedicalRecord, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return MedicalRecord{}, err
	}
	next, err := fn(current, s.now())
	if err != nil {
		return MedicalRecord{}, err
	}
	return s.saver.Save(ctx, next)
}

func (s *Service) ensurePatient(ctx context.Context, patientID string) error {
	if s.patients == nil {
		return nil
	}
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return apperr.Wrap(err, "lookup patient")
	}
	if !ok {
		return apperr.NotFound("patient", patientID)
	}
	return nil
}
