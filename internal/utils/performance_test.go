package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperationTimer(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	stop := OperationTimer("r2_backup", log)
	duration := stop()

	assert.GreaterOrEqual(t, int64(duration), int64(0))
	assert.Contains(t, buf.String(), `"operation":"r2_backup"`)
	assert.NotContains(t, buf.String(), "Slow operation")
}

func TestMeasureDBQuery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := MeasureDBQuery("delete_old_calculations", log)
	done(7)

	assert.Contains(t, buf.String(), `"query":"delete_old_calculations"`)
	assert.Contains(t, buf.String(), `"rows_affected":7`)
}
