package ports

import "github.com/jamesm2w/tweetbot-v2/pkg/log"

// Logger re-exports the pkg/log abstraction so the application layer can
// depend on ports alone.
type Logger = log.Logger

// Field is a key-value pair for structured logging.
type Field = log.Field

// Field constructors, forwarded from pkg/log.
var (
	String   = log.String
	Int      = log.Int
	Int64    = log.Int64
	Uint64   = log.Uint64
	Float64  = log.Float64
	Bool     = log.Bool
	Duration = log.Duration
	Err      = log.Err
	Any      = log.Any
)
