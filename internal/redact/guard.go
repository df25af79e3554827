package redact

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
)

// Guard installs process-wide interception around every output sink. It is
// an explicit singleton with a single Uninstalled -> Installed transition,
// triggered at process start; there is no path back while the process
// lives. Tests construct their own Guard with a recording destination
// instead of touching the process sinks.
type Guard struct {
	once sync.Once

	// stdout and stderr override the real process files when set; used by
	// tests to observe what would have reached the terminal.
	stdout io.Writer
	stderr io.Writer

	installed bool
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithStdout substitutes the destination that intercepted standard output
// is forwarded to.
func WithStdout(w io.Writer) GuardOption {
	return func(g *Guard) { g.stdout = w }
}

// WithStderr substitutes the destination that intercepted standard error
// is forwarded to.
func WithStderr(w io.Writer) GuardOption {
	return func(g *Guard) { g.stderr = w }
}

// NewGuard returns an uninstalled Guard.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var processGuard = NewGuard()

// Install performs the one-time process-wide installation. It is intended
// as the literal first statement the process executes, before any other
// code can write to an output sink. It is idempotent, returns nothing and
// never panics.
func Install() {
	processGuard.Install()
}

// Installed reports whether the process guard has been installed.
func Installed() bool {
	return processGuard.installed
}

// Install transitions the guard from Uninstalled to Installed exactly
// once.
func (g *Guard) Install() {
	g.once.Do(g.install)
}

func (g *Guard) install() {
	// Installation must not abort startup under any circumstance.
	defer func() { _ = recover() }()

	// Step 1: user-declared patterns, fail-open to built-ins.
	if cfg := loadScrubConfig(); cfg != nil {
		configureClassifier(cfg.Scrubbing.ScrubGlobs, cfg.Scrubbing.WhitelistGlobs)
	}

	// Step 2: the low-level write primitives under all higher-level
	// printing. Everything that prints through the process stdout/stderr
	// files, including third-party code, now flows through a redacting
	// writer.
	g.interceptFile(&os.Stdout, g.stdout)
	g.interceptFile(&os.Stderr, g.stderr)

	// The stdlib log package binds the original stderr file during its
	// own package init, before this can run. Re-point it at the
	// intercepted sink so log.Print and friends flow through the pipe.
	log.SetOutput(os.Stderr)

	// Step 3: the process-wide structured logging facility. Wrapping the
	// default handler covers every method, present and future, because
	// they all funnel through Handle.
	slog.SetDefault(slog.New(NewHandler(slog.Default().Handler())))

	g.installed = true
}

// interceptFile swaps *file for the write end of a pipe and pumps the read
// end through a redacting writer into the original destination. Writes are
// forwarded chunk by chunk; pipe writes below the atomic threshold arrive
// exactly as issued, so print calls line up with redaction units.
func (g *Guard) interceptFile(file **os.File, override io.Writer) {
	original := io.Writer(*file)
	if override != nil {
		original = override
	}

	r, w, err := os.Pipe()
	if err != nil {
		// Leave the sink alone rather than break the process; the slog
		// layer still redacts structured output.
		return
	}
	*file = w

	go pump(r, NewWriter(original))
}

func pump(r *os.File, dst io.Writer) {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}
