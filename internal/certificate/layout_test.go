package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvarofrk/teckperu/internal/models"
)

func TestSpanishLongDate(t *testing.T) {
	assert.Equal(t, "02 de enero del 2025",
		SpanishLongDate(time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "15 de agosto del 2026",
		SpanishLongDate(time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)))
}

func TestLayoutForFallsBackToDefault(t *testing.T) {
	known := layoutFor("0003")
	assert.NotEqual(t, defaultLayout, known)

	assert.Equal(t, defaultLayout, layoutFor("9999"))
	assert.Equal(t, defaultLayout, layoutFor(""))
}

func TestRenderReportTableProducesPDF(t *testing.T) {
	table := models.ReportTable{
		Headers: []string{"Participante", "Estado"},
		Rows:    [][]string{{"Ana Quispe", "Aprobado"}},
	}

	pdf, err := RenderReportTable("Reporte general", table)
	require.NoError(t, err)
	assert.Greater(t, len(pdf), 100)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRenderReportTableEmpty(t *testing.T) {
	pdf, err := RenderReportTable("Reporte", models.ReportTable{})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
