package medicalrecords

import (
	"strings"
	"time"
	"unicode/utf8"

	"vet-clinic/internal/platform/apperr"
)

// Severity del diagnóstico.
// @Enum mild, moderate, severe, critical
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityCritical:
		return true
	}
	return false
}

// TreatmentStatus
// @Enum planned, in_progress, completed, cancelled
type TreatmentStatus string

const (
	TreatmentPlanned    TreatmentStatus = "planned"
	TreatmentInProgress TreatmentStatus = "in_progress"
	TreatmentCompleted  TreatmentStatus = "completed"
	TreatmentCancelled  TreatmentStatus = "cancelled"
)

func (s TreatmentStatus) Valid() bool {
	switch s {
	case TreatmentPlanned, TreatmentInProgress, TreatmentCompleted, TreatmentCancelled:
		return true
	}
	return false
}

// Los hijos viven en su propia colección y apuntan al registro con RecordID.
// ID vacío = todavía no persistido; el store lo genera al guardar.

type Diagnosis struct {
	ID          string
	RecordID    string
	Code        string
	Description string
	Severity    Severity
	DiagnosedAt time.Time
	Notes       string
}

type DiagnosisInput struct {
	Code        string
	Description string
	Severity    string
	DiagnosedAt time.Time
	Notes       string
}

func NewDiagnosis(in DiagnosisInput, now time.Time) (Diagnosis, error) {
	d := Diagnosis{
		Code:        strings.ToUpper(strings.TrimSpace(in.Code)),
		Description: strings.TrimSpace(in.Description),
		Severity:    Severity(strings.ToLower(strings.TrimSpace(in.Severity))),
		DiagnosedAt: in.DiagnosedAt,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if d.Severity == "" {
		d.Severity = SeverityMild
	}
	if d.DiagnosedAt.IsZero() {
		d.DiagnosedAt = now
	}
	if d.Code == "" || utf8.RuneCountInString(d.Code) > 20 {
		return Diagnosis{}, apperr.Validation("diagnosis code must be between 1 and 20 characters")
	}
	if n := utf8.RuneCountInString(d.Description); n < 3 || n > 1000 {
		return Diagnosis{}, apperr.Validation("diagnosis description must be between 3 and 1000 characters")
	}
	if !d.Severity.Valid() {
		return Diagnosis{}, apperr.Validation("severity %q is not valid", d.Severity)
	}
	if d.DiagnosedAt.After(now) {
		return Diagnosis{}, apperr.Validation("diagnosis date cannot be in the future")
	}
	return d, nil
}

type Treatment struct {
	ID          string
	RecordID    string
	Name        string
	Description string
	CostCents   int64
	StartDate   time.Time
	EndDate     *time.Time
	Status      TreatmentStatus
}

type TreatmentInput struct {
	Name        string
	Description string
	CostCents   int64
	StartDate   time.Time
	EndDate     *time.Time
	Status      string
}

func NewTreatment(in TreatmentInput, now time.Time) (Treatment, error) {
	t := Treatment{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CostCents:   in.CostCents,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      TreatmentStatus(strings.ToLower(strings.TrimSpace(in.Status))),
	}
	if t.Status == "" {
		t.Status = TreatmentPlanned
	}
	if t.StartDate.IsZero() {
		t.StartDate = now
	}
	if n := utf8.RuneCountInString(t.Name); n < 2 || n > 100 {
		return Treatment{}, apperr.Validation("treatment name must be between 2 and 100 characters")
	}
	if t.CostCents < 0 {
		return Treatment{}, apperr.Validation("treatment cost cannot be negative")
	}
	if t.EndDate != nil && t.EndDate.Before(t.StartDate) {
		return Treatment{}, apperr.Validation("treatment end date must not be before start date")
	}
	if !t.Status.Valid() {
		return Treatment{}, apperr.Validation("treatment status %q is not valid", t.Status)
	}
	return t, nil
}

type Prescription struct {
	ID           string
	RecordID     string
	Medication   string
	Dosage       string
	Frequency    string
	DurationDays int
	Refills      int
	PrescribedAt time.Time
	Instructions string
}

type PrescriptionInput struct {
	Medication   string
	Dosage       string
	Frequency    string
	DurationDays int
	Refills      int
	PrescribedAt time.Time
	Instructions string
}

func NewPrescription(in PrescriptionInput, now time.Time) (Prescription, error) {
	p := Prescription{
		Medication:   strings.TrimSpace(in.Medication),
		Dosage:       strings.TrimSpace(in.Dosage),
		Frequency:    strings.TrimSpace(in.Frequency),
		DurationDays: in.DurationDays,
		Refills:      in.Refills,
		PrescribedAt: in.PrescribedAt,
		Instructions: strings.TrimSpace(in.Instructions),
	}
	if p.PrescribedAt.IsZero() {
		p.PrescribedAt = now
	}
	if n := utf8.RuneCountInString(p.Medication); n < 2 || n > 100 {
		return Prescription{}, apperr.Validation("medication must be between 2 and 100 characters")
	}
	if p.Dosage == "" {
		return Prescription{}, apperr.Validation("dosage is required")
	}
	if p.Frequency == "" {
		return Prescription{}, apperr.Validation("frequency is required")
	}
	if p.DurationDays <= 0 {
		return Prescription{}, apperr.Validation("duration must be at least 1 day")
	}
	if p.Refills < 0 {
		return Prescription{}, apperr.Validation("refills cannot be negative")
	}
	if p.PrescribedAt.After(now) {
		return Prescription{}, apperr.Validation("prescription date cannot be in the future")
	}
	return p, nil
}
