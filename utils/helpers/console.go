package helpers

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

const resetColor = "\033[0m"

var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel: "\033[34m",
	zapcore.InfoLevel:  "\033[32m",
	zapcore.WarnLevel:  "\033[33m",
	zapcore.ErrorLevel: "\033[31m",
}

var (
	consoleMu  sync.Mutex
	consoleOut io.Writer = os.Stderr
)

// SetConsoleOutput redirects Println and returns the previous writer.
func SetConsoleOutput(w io.Writer) io.Writer {
	consoleMu.Lock()
	defer consoleMu.Unlock()
	prev := consoleOut
	consoleOut = w
	return prev
}

// Println writes a timestamped colored line to the console output. It is
// for the few places that run before any logger exists.
func Println(level zapcore.Level, args ...any) {
	color, ok := levelColors[level]
	if !ok {
		color = levelColors[zapcore.ErrorLevel]
	}
	line := fmt.Sprintf("%s[%s] [%s] %s%s\n",
		color, time.Now().Format(time.DateTime), level.CapitalString(), fmt.Sprint(args...), resetColor)

	consoleMu.Lock()
	defer consoleMu.Unlock()
	_, _ = io.WriteString(consoleOut, line)
}

// TailCallerEncoder keeps only the last n path segments of the caller file.
func TailCallerEncoder(n int) zapcore.CallerEncoder {
	if n <= 0 {
		return zapcore.ShortCallerEncoder
	}
	return func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		parts := strings.Split(strings.ReplaceAll(caller.File, "\\", "/"), "/")
		if len(parts) > n {
			parts = parts[len(parts)-n:]
		}
		enc.AppendString(strings.Join(parts, "/") + ":" + strconv.Itoa(caller.Line))
	}
}
