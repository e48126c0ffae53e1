package sheet

import (
	"research-hub/internal/domain/entity"
	"research-hub/internal/usecase/ingest"
)

// kindSchema is the fixed column layout for one content kind. Columns
// maps spreadsheet header text to the canonical field key; Required
// lists the headers that must be present for the file to be usable.
// Unknown columns in the input are ignored.
type kindSchema struct {
	Columns  map[string]string
	Required []string
}

var schemas = map[entity.ContentKind]kindSchema{
	entity.KindProject: {
		Columns: map[string]string{
			"Title":         ingest.FieldTitle,
			"External ID":   ingest.FieldExternalID,
			"Status":        ingest.FieldStatus,
			"Objective":     ingest.FieldObjective,
			"Summary":       ingest.FieldSummary,
			"Research Line": ingest.FieldResearchLine,
		},
		Required: []string{"Title", "Objective"},
	},
	entity.KindCall: {
		Columns: map[string]string{
			"Title":        ingest.FieldTitle,
			"External ID":  ingest.FieldExternalID,
			"Status":       ingest.FieldStatus,
			"Opening Date": ingest.FieldOpeningDate,
			"Closing Date": ingest.FieldClosingDate,
			"Contact":      ingest.FieldContact,
		},
		Required: []string{"Title", "Opening Date", "Closing Date"},
	},
	entity.KindNews: {
		Columns: map[string]string{
			"Title":         ingest.FieldTitle,
			"External ID":   ingest.FieldExternalID,
			"Status":        ingest.FieldStatus,
			"Content":       ingest.FieldBody,
			"Bullets":       ingest.FieldBullets,
			"Image":         ingest.FieldImage,
			"Research Line": ingest.FieldResearchLine,
			"Newsletter":    ingest.FieldNewsletter,
			"Position":      ingest.FieldPosition,
		},
		Required: []string{"Title", "Content"},
	},
}
