package logger

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var ErrLogNotFound = errors.New("log not found")

type ILogger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
	Sync() error
	GetLogs(level string, limit, offset int) ([]LogEntry, error)
	GetLogById(id string) (*LogEntry, error)
}

// Module names used across the service.
const (
	ModuleAssistant  = "ASSISTANT"
	ModuleClassifier = "CLASSIFIER"
	ModuleAnswer     = "ANSWER"
	ModuleAction     = "ACTION"
	ModuleMailer     = "MAILER"
	ModuleIngest     = "INGEST"
	ModuleEvents     = "EVENTS"
	ModuleHTTP       = "HTTP"
	ModuleSession    = "SESSION"
	ModuleWebsocket  = "WEBSOCKET"
)

const (
	rotateMaxSizeMB  = 10
	rotateMaxBackups = 5
	rotateMaxAgeDays = 30
	maxLineBytes     = 1 << 20
	byIdScanLimit    = 10000
)

type ZapLogger struct {
	logger   *zap.Logger
	filePath string
}

func fileCore(path string) zapcore.Core {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotateMaxSizeMB,
		MaxBackups: rotateMaxBackups,
		MaxAge:     rotateMaxAgeDays,
		Compress:   true,
	}
	return zapcore.NewCore(fileEncoder(), zapcore.AddSync(rotator), zap.InfoLevel)
}

func fileEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.LevelKey = "level"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func wrap(core zapcore.Core, path string) *ZapLogger {
	// Skip the wrapper frames so callers show up in the caller field.
	return &ZapLogger{
		logger:   zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)),
		filePath: path,
	}
}

// NewZapLogger writes JSON lines to a rotated file (read back by GetLogs) and
// tees everything to stdout, as JSON in production and human-readable otherwise.
func NewZapLogger(logFilePath string, isProd bool) *ZapLogger {
	console := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	if isProd {
		console = fileEncoder()
	}
	stdout := zapcore.NewCore(console, zapcore.Lock(os.Stdout), zap.DebugLevel)
	return wrap(zapcore.NewTee(fileCore(logFilePath), stdout), logFilePath)
}

// NewIsolatedLogger only writes to the file.
func NewIsolatedLogger(logFilePath string) *ZapLogger {
	return wrap(fileCore(logFilePath), logFilePath)
}

// NewNopLogger discards everything. GetLogs returns an empty list.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

func (l *ZapLogger) Debug(module, message string, details map[string]interface{}) {
	l.write(zapcore.DebugLevel, module, message, details)
}

func (l *ZapLogger) Info(module, message string, details map[string]interface{}) {
	l.write(zapcore.InfoLevel, module, message, details)
}

func (l *ZapLogger) Warn(module, message string, details map[string]interface{}) {
	l.write(zapcore.WarnLevel, module, message, details)
}

func (l *ZapLogger) Error(module, message string, details map[string]interface{}) {
	l.write(zapcore.ErrorLevel, module, message, details)
}

func (l *ZapLogger) write(level zapcore.Level, module, message string, details map[string]interface{}) {
	ce := l.logger.Check(level, message)
	if ce == nil {
		return
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	ce.Write(zap.String("module", module), zap.Any("details", details))
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

type LogEntry struct {
	Id        string                 `json:"id"`
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Module    string                 `json:"module,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// scanEntries decodes every JSON line of r, oldest first. Lines that are not
// JSON are skipped; ids are the md5 of the raw line.
func scanEntries(r io.Reader, keep func(*LogEntry) bool) ([]LogEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var entries []LogEntry
	for scanner.Scan() {
		line := scanner.Bytes()
		var entry LogEntry
		if json.Unmarshal(line, &entry) != nil {
			continue
		}
		if entry.Id == "" {
			sum := md5.Sum(line)
			entry.Id = hex.EncodeToString(sum[:])
		}
		if keep(&entry) {
			entries = append(entries, entry)
		}
	}
	return entries, scanner.Err()
}

func (l *ZapLogger) readFile(keep func(*LogEntry) bool) ([]LogEntry, error) {
	if l.filePath == "" {
		return nil, nil
	}
	f, err := os.Open(l.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scanEntries(f, keep)
}

// GetLogs returns entries from the current log file, newest first. The file
// is capped by the rotator so a full scan is acceptable.
func (l *ZapLogger) GetLogs(level string, limit, offset int) ([]LogEntry, error) {
	entries, err := l.readFile(func(e *LogEntry) bool {
		return level == "" || e.Level == level
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	if offset >= len(entries) {
		return []LogEntry{}, nil
	}
	end := min(offset+limit, len(entries))
	return entries[offset:end], nil
}

func (l *ZapLogger) GetLogById(id string) (*LogEntry, error) {
	logs, err := l.GetLogs("", byIdScanLimit, 0)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		if logs[i].Id == id {
			return &logs[i], nil
		}
	}
	return nil, ErrLogNotFound
}
