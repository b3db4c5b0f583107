package logger

// Narrator is the human-facing run narration a job writes to.
// Info reports progress, Success reports a detected signal.
type Narrator interface {
	Info(msg string)
	Success(msg string)
}

// ZerologNarrator narrates through a structured logger.
type ZerologNarrator struct {
	log *Logger
}

var _ Narrator = (*ZerologNarrator)(nil)

// NewNarrator adapts l to the Narrator interface
func NewNarrator(l *Logger) *ZerologNarrator {
	return &ZerologNarrator{log: l}
}

// Info logs a progress line
func (n *ZerologNarrator) Info(msg string) {
	n.log.Info().Msg(msg)
}

// Success logs a detection line tagged event=success
func (n *ZerologNarrator) Success(msg string) {
	n.log.Info().Str("event", "success").Msg(msg)
}

// Discard is a Narrator that drops everything.
var Discard Narrator = discard{}

type discard struct{}

func (discard) Info(string)    {}
func (discard) Success(string) {}
