package display

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/glamour"
)

// renderer is the markdown renderer instance
var (
	renderer     *glamour.TermRenderer
	rendererOnce sync.Once
	rendererErr  error
)

// Spinner wraps the spinner with elapsed time display
type Spinner struct {
	s         *spinner.Spinner
	startTime time.Time
	message   string
	stopChan  chan struct{}
	wg        sync.WaitGroup
	stopped   bool
	mu        sync.Mutex
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" %s (0.0s)", message)
	s.Writer = os.Stderr
	return &Spinner{
		s:        s,
		message:  message,
		stopChan: make(chan struct{}),
	}
}

// Start begins the spinner animation
func (sp *Spinner) Start() {
	sp.startTime = time.Now()
	sp.s.Start()

	sp.wg.Add(1)
	go func() {
		defer sp.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-sp.stopChan:
				return
			case <-ticker.C:
				elapsed := time.Since(sp.startTime).Seconds()
				sp.s.Suffix = fmt.Sprintf(" %s (%.1fs)", sp.message, elapsed)
			}
		}
	}()
}

// Stop stops the spinner and clears the line
func (sp *Spinner) Stop() {
	sp.mu.Lock()
	if sp.stopped {
		sp.mu.Unlock()
		return
	}
	sp.stopped = true
	sp.mu.Unlock()

	close(sp.stopChan)
	sp.wg.Wait()
	sp.s.Stop()
}

// InitRenderer initializes the markdown renderer
func InitRenderer() error {
	rendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			rendererErr = err
			return
		}
		renderer = r
	})
	return rendererErr
}

// ShowContent displays the main content response
func ShowContent(content string) {
	fmt.Println(strings.TrimSpace(content))
}

// ShowContentRendered displays markdown content with terminal rendering
func ShowContentRendered(content string) {
	if renderer == nil {
		ShowContent(content)
		return
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		ShowContent(content)
		return
	}
	fmt.Print(strings.TrimSuffix(rendered, "\n"))
}

// ShowError displays an error message
func ShowError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// AskCommandConfirmation prompts the user before running a command.
// Returns (allow, always): whether to run it, and whether to remember the
// approval for the rest of the session.
func AskCommandConfirmation(command string) (allow bool, always bool) {
	fmt.Fprintf(os.Stderr, "\nCommand: %s\n", command)
	fmt.Fprint(os.Stderr, "Execute? [y]es / [n]o / [a]lways: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, false
	case "a", "always":
		return true, true
	default:
		return false, false
	}
}

// ShowPermissionSettings displays the current policy settings
func ShowPermissionSettings(settings map[string]interface{}) {
	fmt.Println("Permission settings:")
	fmt.Printf("  auto-allow reads:  %v\n", settings["auto_allow_reads"])
	fmt.Printf("  dangerous enabled: %v\n", settings["dangerous_enabled"])
	fmt.Printf("  allowlist entries: %v\n", settings["allowlist_count"])
}
