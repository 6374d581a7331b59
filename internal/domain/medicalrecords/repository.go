package medicalrecords

import (
	"context"
	"errors"
)

// ErrTransactionsUnsupported lo devuelve el store cuando el despliegue no admite
// transacciones multi-documento (standalone). Save cae al camino sin transacción.
var ErrTransactionsUnsupported = errors.New("multi-document transactions are not supported by this deployment")

// Writer son las escrituras que componen un Save. La misma secuencia corre dentro
// o fuera de una transacción.
type Writer interface {
	// UpsertRecord escribe los campos del registro, sin tocar los arrays de ids.
	UpsertRecord(ctx context.Context, r MedicalRecord) error
	// Save* inserta si ID está vacío (y devuelve el id generado) o hace upsert por id.
	SaveDiagnosis(ctx context.Context, d Diagnosis) (string, error)
	SaveTreatment(ctx context.Context, t Treatment) (string, error)
	SavePrescription(ctx context.Context, p Prescription) (string, error)
	SetChildIDs(ctx context.Context, recordID string, diagnosisIDs, treatmentIDs, prescriptionIDs []string) error
}

// Transactor corre fn dentro de una transacción. Si el store no las soporta
// devuelve un error que cumple errors.Is(err, ErrTransactionsUnsupported).
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, w Writer) error) error
}

type Store interface {
	Writer
	Transactor

	// GetByID devuelve el registro con los hijos poblados.
	GetByID(ctx context.Context, id string) (MedicalRecord, error)
	ListByPatient(ctx context.Context, patientID string) ([]MedicalRecord, error)
	// Delete borra el registro y sus hijos.
	Delete(ctx context.Context, id string) error
}

// PatientLookup lo implementa patients.Service.
type PatientLookup interface {
	Exists(ctx context.Context, patientID string) (bool, error)
}
