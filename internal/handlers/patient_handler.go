package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"patient-intake/internal/fhir"
	"patient-intake/internal/metrics"
	"patient-intake/internal/models"
	"patient-intake/pkg/utils"
)

const patientCreatedMessage = "Patient created successfully"

// PatientInserter is the write side of the record store.
type PatientInserter interface {
	Insert(ctx context.Context, name string, age int, diagnosis, record string) error
}

type PatientHandler struct {
	store PatientInserter
}

func NewPatientHandler(store PatientInserter) *PatientHandler {
	return &PatientHandler{store: store}
}

// AddPatient validates the intake body, wraps it in a FHIR Patient resource
// and stores the raw fields together with the serialized resource.
// The created row id is not returned.
func (h *PatientHandler) AddPatient(c *gin.Context) {
	var input models.CreatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ValidationResponse(c, err)
		return
	}

	ctx := c.Request.Context()
	log := zerolog.Ctx(ctx)

	age := int(*input.Age)
	record, err := fhir.NewIntakePatient(age, input.Name)
	if err != nil {
		log.Error().Err(err).Msg("build fhir patient")
		utils.ErrorResponse(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	recordJSON, err := record.JSON()
	if err != nil {
		log.Error().Err(err).Msg("serialize fhir patient")
		utils.ErrorResponse(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	if err := h.store.Insert(ctx, input.Name, age, *input.Diagnosis, string(recordJSON)); err != nil {
		log.Error().Err(err).Msg("store patient")
		utils.ErrorResponse(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	metrics.PatientsCreated.Inc()
	utils.Message(c, http.StatusOK, patientCreatedMessage)
}
