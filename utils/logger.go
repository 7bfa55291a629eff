package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	InfoLogger  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
	DebugLogger = log.New(io.Discard, "DEBUG: ", log.Ldate|log.Ltime)

	logFiles []*os.File
	logMu    sync.Mutex
)

// InitLogger направляет логи в файлы info.log, error.log и debug.log каталога dir.
// При пустом dir логи пишутся в stdout/stderr, отладочные отбрасываются.
func InitLogger(dir string, debug bool) error {
	logMu.Lock()
	defer logMu.Unlock()

	closeLogFiles()

	if dir == "" {
		InfoLogger.SetOutput(os.Stdout)
		ErrorLogger.SetOutput(os.Stderr)
		if debug {
			DebugLogger.SetOutput(os.Stdout)
		} else {
			DebugLogger.SetOutput(io.Discard)
		}
		return nil
	}

	// Создаем директорию для логов, если она не существует
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	open := func(name string) (*os.File, error) {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		logFiles = append(logFiles, f)
		return f, nil
	}

	infoFile, err := open("info.log")
	if err != nil {
		return err
	}
	errorFile, err := open("error.log")
	if err != nil {
		return err
	}
	InfoLogger.SetOutput(io.MultiWriter(os.Stdout, infoFile))
	ErrorLogger.SetOutput(io.MultiWriter(os.Stderr, errorFile))

	if debug {
		debugFile, err := open("debug.log")
		if err != nil {
			return err
		}
		DebugLogger.SetOutput(debugFile)
	} else {
		DebugLogger.SetOutput(io.Discard)
	}
	return nil
}

// CloseLogger закрывает открытые файлы логов
func CloseLogger() {
	logMu.Lock()
	defer logMu.Unlock()
	closeLogFiles()
	InfoLogger.SetOutput(os.Stdout)
	ErrorLogger.SetOutput(os.Stderr)
	DebugLogger.SetOutput(io.Discard)
}

func closeLogFiles() {
	for _, f := range logFiles {
		f.Close()
	}
	logFiles = nil
}

// LogInfo логирует информационное сообщение
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf("%s - %s", caller(), fmt.Sprintf(format, v...))
}

// LogError логирует сообщение об ошибке
func LogError(format string, v ...interface{}) {
	ErrorLogger.Printf("%s - %s", caller(), fmt.Sprintf(format, v...))
}

// LogDebug логирует отладочное сообщение
func LogDebug(format string, v ...interface{}) {
	DebugLogger.Printf("%s - %s", caller(), fmt.Sprintf(format, v...))
}

// LogOperation логирует операцию с длительностью
func LogOperation(operation string, startTime time.Time, err error) {
	duration := time.Since(startTime)
	if err != nil {
		ErrorLogger.Printf("%s - Operation %s failed after %v: %v", caller(), operation, duration, err)
	} else {
		InfoLogger.Printf("%s - Operation %s completed in %v", caller(), operation, duration)
	}
}

func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "???"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
