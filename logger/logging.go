package logger

import (
	"log"
	"os"
)

var (
	enabled = true // flip to false to nuke logs
	debug   = false
	logger  = log.New(os.Stdout, "", log.LstdFlags)
)

func EnableLogging(b bool) {
	enabled = b
}

func EnableDebug(b bool) {
	debug = b
}

func Info(msg string, v ...interface{}) {
	if !enabled {
		return
	}

	logger.Printf(msg, v...)
}

func Debug(msg string, v ...interface{}) {
	if !enabled || !debug {
		return
	}
	logger.Printf("[DEBUG] "+msg, v...)
}

func Error(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	logger.Printf("[ERROR] "+msg, v...)
}
