package models

// Patient is one row of the 'patients' table.
// FHIRIdentifier holds the full serialized FHIR Patient resource, not just an id.
type Patient struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"size:255;index" json:"name"`
	Age            int    `json:"age"`
	Diagnosis      string `gorm:"type:text" json:"diagnosis"`
	FHIRIdentifier string `gorm:"column:fhir_identifier;type:text" json:"fhir_identifier"`
}

func (Patient) TableName() string {
	return "patients"
}

// CreatePatientInput is the body of POST /patients.
// Age and Diagnosis are pointers so that `required` only checks presence:
// an age of 0 and an empty diagnosis are both accepted.
type CreatePatientInput struct {
	Name      string  `json:"name" binding:"required"`
	Age       *Age    `json:"age" binding:"required"`
	Diagnosis *string `json:"diagnosis" binding:"required"`
}
