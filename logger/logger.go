package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var tags = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var paint = map[Level]func(a ...interface{}) string{
	DEBUG: color.New(color.FgHiBlack).SprintFunc(),
	INFO:  color.New(color.FgCyan).SprintFunc(),
	WARN:  color.New(color.FgYellow).SprintFunc(),
	ERROR: color.New(color.FgRed).SprintFunc(),
	FATAL: color.New(color.FgRed, color.Bold).SprintFunc(),
}

func (lv Level) String() string {
	if t, ok := tags[lv]; ok {
		return t
	}
	return fmt.Sprintf("LEVEL(%d)", int(lv))
}

// ParseLevel accepts the level names in any case.
func ParseLevel(s string) (Level, error) {
	for lv, t := range tags {
		if strings.EqualFold(s, t) {
			return lv, nil
		}
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

type Logger struct {
	l  *log.Logger
	lv Level

	// exit is called after a FATAL message.
	exit func(int)
}

// Log is the process logger. It writes INFO and above to stderr until Init
// replaces it.
var Log = New(os.Stderr, INFO)

func New(w io.Writer, level Level) *Logger {
	return &Logger{
		l:    log.New(w, "", 0),
		lv:   level,
		exit: os.Exit,
	}
}

func Init(w io.Writer, level Level) {
	Log = New(w, level)
}

func (lg *Logger) Level() Level {
	return lg.lv
}

func (lg *Logger) log(level Level, msg string, args ...any) {
	if level < lg.lv {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	lg.l.Printf("%s [%s] %s\n", ts, paint[level](tags[level]), fmt.Sprintf(msg, args...))
	if level == FATAL {
		lg.exit(1)
	}
}

func (lg *Logger) Debug(m string, a ...any) { lg.log(DEBUG, m, a...) }
func (lg *Logger) Info(m string, a ...any)  { lg.log(INFO, m, a...) }
func (lg *Logger) Warn(m string, a ...any)  { lg.log(WARN, m, a...) }
func (lg *Logger) Error(m string, a ...any) { lg.log(ERROR, m, a...) }
func (lg *Logger) Fatal(m string, a ...any) { lg.log(FATAL, m, a...) }
