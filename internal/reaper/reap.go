package reaper

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// reapRecord is one sweep's outcome, appended to the GC log.
type reapRecord struct {
	Swept     int       `json:"swept"`
	Live      int       `json:"live"`
	Timestamp time.Time `json:"timestamp"`
}

// write will append the record to the GC log file.
func (r *Reaper) write(rec *reapRecord) {
	file, err := os.OpenFile(r.filePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		fmt.Printf("failed to open GC log file: %v", err)
		return
	}

	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			fmt.Printf("failed to close GC log file: %v\n", err)
		}
	}(file)

	data, err := json.Marshal(rec)
	if err != nil {
		fmt.Printf("failed to marshal reap record: %v\n", err)
		return
	}

	_, err = file.WriteString(string(data) + "\n")
	if err != nil {
		fmt.Printf("failed to write reap record to log file: %v\n", err)
	}
}
