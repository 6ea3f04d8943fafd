package types

import "time"

type DataSource int

const (
	SourcePeriods DataSource = iota
	SourceWithholding
	SourcePayroll
	SourceBases
)

const (
	SourcePeriodsSuffix     = "_idc.csv"
	SourceWithholdingSuffix = "_190.csv"
	SourcePayrollSuffix     = "_nominas.csv"
	SourceBasesSuffix       = "_rnt.csv"
)

var SourceNames = map[DataSource]string{
	SourcePeriods:     "Auditoria IDC",
	SourceWithholding: "Modelo 190",
	SourcePayroll:     "Nominas",
	SourceBases:       "Bases RNT",
}

var SourceSuffixes = map[DataSource]string{
	SourcePeriods:     SourcePeriodsSuffix,
	SourceWithholding: SourceWithholdingSuffix,
	SourcePayroll:     SourcePayrollSuffix,
	SourceBases:       SourceBasesSuffix,
}

// IDColumnForSource maps each source to the column carrying the raw
// worker identifier that gets normalized into the join key.
var IDColumnForSource = map[DataSource]string{
	SourcePeriods:     "DNI",
	SourceWithholding: "NIF",
	SourcePayroll:     "DNI",
	SourceBases:       "DNI",
}

// MoneyColumnsForSource lists the columns that arrive as decimal-comma
// text from the extractors and must be converted to numeric series
// before consolidation.
var MoneyColumnsForSource = map[DataSource][]string{
	SourceWithholding: {
		"Dinerarias No IL",
		"Especie No IL",
		"Dinerarias IL",
		"Especie IL",
		"Retenciones",
	},
	SourcePayroll: {
		"Salario",
		"Aportacion Empresa",
	},
	SourceBases: {
		"Base CC Anual",
		"Base AT Anual",
		"Base Solidaridad Anual",
	},
}

// RegistrationActive is the sentinel the extractors emit for an
// unterminated registration ("Baja" never happened).
const RegistrationActive = "ACTIVO"

// OpenEnd is the far-future sentinel used for unterminated validity and
// registration windows.
func OpenEnd() time.Time {
	return time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// DateRange is a closed interval; both bounds are inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// CoveragePeriod is one registration-period record for a worker as
// stated by one document version. ValidFrom/ValidTo bound when this
// record's data applies; RegistrationStart/RegistrationEnd are the raw
// employment-active window strings as extracted ("dd-mm-yyyy" or the
// ACTIVO sentinel). They stay raw so a malformed date skips single days
// instead of invalidating the whole period.
type CoveragePeriod struct {
	WorkerName   string
	WorkerID     string
	EmployerID   string
	EmployerName string
	ContractCode string

	// PartTimeFactor is the dedication factor in thousandths; 0 and
	// 1000 both mean full time.
	PartTimeFactor int
	SelfEmployed   bool

	ValidFrom     time.Time
	ValidTo       time.Time
	ContractStart time.Time

	RegistrationStart string
	RegistrationEnd   string

	Incapacity []DateRange
}

// WorkerTimeline holds one worker's coverage periods ascending by
// ValidFrom. Derived from immutable input periods; never mutated in
// place during a run.
type WorkerTimeline []CoveragePeriod

// AuditRow is the consolidated per-worker output of one audit year.
// The dataframe tags name the public report columns.
type AuditRow struct {
	WorkerName   string `dataframe:"Nombre" db:"worker_name" json:"worker_name"`
	WorkerKey    string `dataframe:"DNI" db:"worker_key" json:"worker_key"`
	EmployerID   string `dataframe:"CIF Empresa" db:"employer_id" json:"employer_id"`
	EmployerName string `dataframe:"Empresa" db:"employer_name" json:"employer_name"`
	Year         int    `dataframe:"Anio Auditoria" db:"audit_year" json:"audit_year"`

	TheoreticalHours float64 `dataframe:"Horas Teoricas" db:"theoretical_hours" json:"theoretical_hours"`
	IncapacityHours  float64 `dataframe:"Horas IT" db:"incapacity_hours" json:"incapacity_hours"`
	EffectiveHours   float64 `dataframe:"Horas Efectivas" db:"effective_hours" json:"effective_hours"`
	IncapacityDays   int     `dataframe:"Dias IT" db:"incapacity_days" json:"incapacity_days"`
	ActiveDays       int     `dataframe:"Dias Alta" db:"active_days" json:"active_days"`

	FirstActiveDay string `dataframe:"Primer Dia" db:"first_active_day" json:"first_active_day"`
	LastActiveDay  string `dataframe:"Ultimo Dia" db:"last_active_day" json:"last_active_day"`
	Complete       bool   `dataframe:"Cobertura Completa" db:"complete" json:"complete"`

	DedicationPct float64 `dataframe:"Dedicacion" db:"dedication_pct" json:"dedication_pct"`
	ContractCode  string  `dataframe:"Codigo Contrato" db:"contract_code" json:"contract_code"`
	SelfEmployed  bool    `dataframe:"Autonomo" db:"self_employed" json:"self_employed"`

	UnemploymentRate float64 `dataframe:"Tipo Desempleo" db:"unemployment_rate" json:"unemployment_rate"`
	TotalRate        float64 `dataframe:"Tipo Total" db:"total_rate" json:"total_rate"`
}
