package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Channel identifies one log destination.
type Channel string

const (
	Console  Channel = "con"
	Text     Channel = "txt"
	Markdown Channel = "md"
)

// Channels lists every channel in a stable order.
var Channels = []Channel{Console, Text, Markdown}

// Level is the severity threshold of a channel.
type Level = logrus.Level

const (
	CriticalLevel = logrus.ErrorLevel
	ErrorLevel    = logrus.ErrorLevel
	WarningLevel  = logrus.WarnLevel
	InfoLevel     = logrus.InfoLevel
	DebugLevel    = logrus.DebugLevel
)

// ParseLevel understands the logrus level names plus "critical".
func ParseLevel(s string) (Level, error) {
	if strings.EqualFold(s, "critical") {
		return CriticalLevel, nil
	}
	return logrus.ParseLevel(s)
}

// ParseChannel maps a channel name onto a Channel.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(s) {
	case "con", "console":
		return Console, nil
	case "txt", "text":
		return Text, nil
	case "md", "markdown":
		return Markdown, nil
	}
	return "", fmt.Errorf("unknown log channel '%s'", s)
}

type channelHook struct {
	mu        sync.Mutex
	channel   Channel
	level     Level
	out       io.Writer
	closer    io.Closer
	formatter logrus.Formatter
}

var consoleHook = &channelHook{
	channel:   Console,
	level:     InfoLevel,
	out:       os.Stderr,
	formatter: consoleFormatter{},
}

var (
	fileHooksMu sync.Mutex
	fileHooks   = map[Channel]*channelHook{}
)

func (h *channelHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *channelHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	level := h.level
	if h.channel == Console && Verbose {
		level = DebugLevel
	}
	if entry.Level > level {
		return nil
	}
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(b)
	return err
}

// SetLevel changes the threshold of a channel.
func SetLevel(ch Channel, level Level) {
	if ch == Console {
		consoleHook.mu.Lock()
		consoleHook.level = level
		consoleHook.mu.Unlock()
		return
	}
	fileHooksMu.Lock()
	defer fileHooksMu.Unlock()
	if h, ok := fileHooks[ch]; ok {
		h.mu.Lock()
		h.level = level
		h.mu.Unlock()
	}
}

// SetConsoleOutput redirects the console channel.
func SetConsoleOutput(w io.Writer) {
	consoleHook.mu.Lock()
	consoleHook.out = w
	consoleHook.mu.Unlock()
}

// OpenFile starts writing the text or markdown channel to `path`.
func OpenFile(ch Channel, path string, level Level) error {
	var formatter logrus.Formatter
	switch ch {
	case Text:
		formatter = textFormatter{}
	case Markdown:
		formatter = markdownFormatter{}
	default:
		return fmt.Errorf("channel '%s' cannot be written to a file", ch)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if ch == Markdown {
		fmt.Fprintf(f, "# %s\n\n", strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}

	fileHooksMu.Lock()
	defer fileHooksMu.Unlock()
	if h, ok := fileHooks[ch]; ok {
		closeHook(h)
		h.mu.Lock()
		h.level, h.out, h.closer = level, f, f
		h.mu.Unlock()
		return nil
	}
	h := &channelHook{channel: ch, level: level, out: f, closer: f, formatter: formatter}
	fileHooks[ch] = h
	logger.AddHook(h)
	return nil
}

func closeHook(h *channelHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closer != nil {
		h.closer.Close()
		h.closer = nil
	}
	h.out = io.Discard
}

// Close flushes and closes all log files.
func Close() {
	fileHooksMu.Lock()
	defer fileHooksMu.Unlock()
	for _, h := range fileHooks {
		closeHook(h)
	}
}

func entryTag(entry *logrus.Entry) string {
	if tag, ok := entry.Data[tagKey].(string); ok {
		return tag
	}
	switch entry.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return tagDebug
	case logrus.WarnLevel:
		return tagWarning
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return tagError
	}
	return ""
}

func entryIndent(entry *logrus.Entry) int {
	if indent, ok := entry.Data[indentKey].(int); ok && indent > 0 {
		return indent
	}
	return 0
}

func message(entry *logrus.Entry) string {
	return strings.TrimRight(entry.Message, "\n")
}

var colors = map[string]string{
	tagDebug:    "\033[36m",
	tagSuccess:  "\033[32m",
	tagWarning:  "\033[33m",
	tagError:    "\033[31m",
	tagCritical: "\033[31m",
}

type consoleFormatter struct{}

func (consoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(strings.Repeat("  ", entryIndent(entry)))
	if tag := entryTag(entry); tag != "" {
		fmt.Fprintf(&b, "%s%s: \033[0m", colors[tag], tag)
	}
	b.WriteString(message(entry))
	b.WriteByte('\n')
	return b.Bytes(), nil
}

type textFormatter struct{}

func (textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	level := strings.ToUpper(entry.Level.String())
	if entryTag(entry) == tagCritical {
		level = "CRITICAL"
	}
	fmt.Fprintf(&b, "%s %-8s %s%s\n",
		entry.Time.Format("15:04:05.000"),
		level,
		strings.Repeat("  ", entryIndent(entry)),
		message(entry))
	return b.Bytes(), nil
}

type markdownFormatter struct{}

func (markdownFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(strings.Repeat("  ", entryIndent(entry)))
	b.WriteString("- ")
	switch tag := entryTag(entry); tag {
	case "", tagSuccess:
		b.WriteString(message(entry))
	case tagDebug:
		fmt.Fprintf(&b, "_%s_", message(entry))
	default:
		fmt.Fprintf(&b, "**%s:** %s", tag, message(entry))
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
