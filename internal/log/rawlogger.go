package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// ReportLogger dumps raw device reports for protocol debugging. It is
// pure observability: dropping every call changes nothing downstream.
type ReportLogger interface {
	Log(data []byte)
}

// NewReportLogger returns a hex-dumping logger, or a no-op one when the
// writer is nil.
func NewReportLogger(w io.Writer) ReportLogger {
	return &reportLogger{w: w}
}

type reportLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// Log emits one line per report with timestamp, length and hex bytes.
func (r *reportLogger) Log(data []byte) {
	if r.w == nil || len(data) == 0 {
		return
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s report: %d bytes, hex: %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		len(data),
		hexbuf.String())

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
