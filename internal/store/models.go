package store

import (
	"time"

	"github.com/lib/pq"
)

// Institution represents the 'institutions' table: one normalized census
// row per institution.
type Institution struct {
	ID                    int64     `db:"id"`
	DatasetID             string    `db:"dataset_id"`
	CensusYear            int       `db:"census_year"`
	MunicipalityCode      int64     `db:"municipality_code"`
	Municipality          string    `db:"municipality"`
	Capital               string    `db:"capital"`
	Organization          string    `db:"organization"`
	Network               string    `db:"network"`
	Category              string    `db:"category"`
	Name                  string    `db:"name"`
	Acronym               string    `db:"acronym"`
	Maintainer            string    `db:"maintainer"`
	FacultyTotal          float64   `db:"faculty_total"`
	TechnicalTotal        float64   `db:"technical_total"`
	FacultyNoDegree       float64   `db:"faculty_no_degree"`
	FacultyGraduate       float64   `db:"faculty_graduate"`
	FacultySpecialization float64   `db:"faculty_specialization"`
	FacultyMaster         float64   `db:"faculty_master"`
	FacultyDoctorate      float64   `db:"faculty_doctorate"`
	ElectronicBooks       float64   `db:"electronic_books"`
	FacultyFemale         float64   `db:"faculty_female"`
	FacultyMale           float64   `db:"faculty_male"`
	InsertedAt            time.Time `db:"inserted_at"`
}

// LoadHistory represents the 'load_history' table: one row per load attempt
// of a distinct source content.
type LoadHistory struct {
	ID         int64          `db:"id" json:"id"`
	DatasetID  string         `db:"dataset_id" json:"dataset_id"`
	SourceFile string         `db:"source_file" json:"source_file"`
	SourceHash string         `db:"source_hash" json:"source_hash"`
	Trigger    string         `db:"trigger_type" json:"trigger"`
	Status     string         `db:"status" json:"status"`
	ErrorKind  string         `db:"error_kind" json:"error_kind,omitempty"`
	Message    string         `db:"message" json:"message,omitempty"`
	Rows       int            `db:"row_count" json:"rows"`
	Warnings   pq.StringArray `db:"warnings" json:"warnings"`
	LoadedAt   time.Time      `db:"loaded_at" json:"loaded_at"`
}

var (
	TriggerTypeServer = "server"
	TriggerTypeETL    = "etl"
)

var (
	StatusSuccess = "success"
	StatusFailure = "failure"
)
