package calculations

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Recorder writes calculation records on behalf of the services.
// Failures are logged and never surface to the caller.
type Recorder struct {
	repo RepositoryInterface
	now  func() time.Time
	log  zerolog.Logger
}

// NewRecorder creates a recorder backed by repo. A nil repo disables recording.
func NewRecorder(repo RepositoryInterface, log zerolog.Logger) *Recorder {
	return &Recorder{
		repo: repo,
		now:  time.Now,
		log:  log.With().Str("component", "calculation_recorder").Logger(),
	}
}

// Record stores one calculation and returns its id, or "" if nothing was stored.
// output is ignored when calcErr is non-nil.
func (r *Recorder) Record(kind Kind, input, output interface{}, calcErr error) string {
	if r == nil || r.repo == nil {
		return ""
	}

	inputBytes, err := msgpack.Marshal(input)
	if err != nil {
		r.log.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to encode calculation input")
		return ""
	}

	rec := &Record{
		ID:        uuid.New().String(),
		Kind:      kind,
		Input:     inputBytes,
		CreatedAt: r.now(),
	}

	if calcErr != nil {
		rec.Error = calcErr.Error()
	} else if output != nil {
		outputBytes, err := msgpack.Marshal(output)
		if err != nil {
			r.log.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to encode calculation output")
			return ""
		}
		rec.Output = outputBytes
	}

	if err := r.repo.Save(rec); err != nil {
		r.log.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to record calculation")
		return ""
	}

	return rec.ID
}
